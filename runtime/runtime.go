// Package runtime runs a full check of a run file: option sanity, derived
// variables, the feature vocabulary and every column list.
package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/opal-lang/varspec/core/verrors"
	"github.com/opal-lang/varspec/runtime/classify"
	"github.com/opal-lang/varspec/runtime/config"
	"github.com/opal-lang/varspec/runtime/features"
	"github.com/opal-lang/varspec/runtime/validation"
	"github.com/opal-lang/varspec/runtime/vardef"
)

// DebugEnv enables debug logging in NewLogger when set.
const DebugEnv = "VARSPEC_DEBUG"

// Options configures how a run file is checked
type Options struct {
	Fuzzy     bool                      // Fuzzy suggestions, in addition to options.fuzzy
	Telemetry validation.TelemetryLevel // Per-list telemetry
	Logger    *slog.Logger              // Optional; discards when nil
}

// ListReport summarizes one validated column list.
type ListReport struct {
	Category validation.Category `json:"category" cbor:"1,keyasint"`
	Tokens   int                 `json:"tokens" cbor:"2,keyasint"`
	Deferred []string            `json:"deferred,omitempty" cbor:"3,keyasint,omitempty"`
	Duration time.Duration       `json:"duration_ns" cbor:"4,keyasint"`
}

// Resolution is the resolved form of a run file's derived variables.
type Resolution struct {
	Defs        []vardef.CanonicalDef `json:"defs,omitempty" cbor:"1,keyasint,omitempty"`
	FreeVars    []string              `json:"free_vars,omitempty" cbor:"2,keyasint,omitempty"`
	AllBC       []string              `json:"all_bc,omitempty" cbor:"3,keyasint,omitempty"`
	Fingerprint string                `json:"fingerprint" cbor:"4,keyasint"`

	Set *vardef.Set `json:"-" cbor:"-"`
}

// Report is the outcome of a successful check.
type Report struct {
	Features int          `json:"features" cbor:"1,keyasint"`
	Lists    []ListReport `json:"lists" cbor:"2,keyasint"`
	Derived  *Resolution  `json:"derived" cbor:"3,keyasint"`
}

// NewLogger returns a text logger without time or level attributes. Debug
// output is on when debug is set or DebugEnv is non-empty.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug || os.Getenv(DebugEnv) != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// CheckFile loads a run file and checks it.
func CheckFile(ctx context.Context, path string, opts Options) (*Report, error) {
	f, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return Check(ctx, f, opts)
}

// Check validates a decoded run file. It stops at the first error.
func Check(ctx context.Context, f *config.File, opts Options) (*Report, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	if err := f.Sanity(); err != nil {
		return nil, err
	}

	derived, err := Resolve(f)
	if err != nil {
		return nil, err
	}
	set := derived.Set
	log.Debug("[RUN] Resolved derived variables", "count", set.Len(), "fingerprint", derived.Fingerprint)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	vocab, err := BuildVocabulary(f)
	if err != nil {
		return nil, err
	}
	log.Debug("[RUN] Built feature vocabulary", "names", vocab.Len(), "elapsed", time.Since(start))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, err := newValidator(f, vocab, set, opts, log)
	if err != nil {
		return nil, err
	}

	report := &Report{Features: vocab.Len(), Derived: derived}
	lists := []struct {
		category validation.Category
		tokens   []string
	}{
		{validation.Lead, f.Columns.Lead},
		{validation.Chain, f.Columns.Chain},
		{validation.Parseable, f.Columns.Parseable},
		{validation.Global, f.Columns.Global},
	}
	for _, l := range lists {
		if len(l.tokens) == 0 {
			continue
		}
		res, err := v.ValidateWithObservability(l.category, l.tokens)
		if err != nil {
			return nil, err
		}
		report.Lists = append(report.Lists, ListReport{
			Category: l.category,
			Tokens:   len(l.tokens),
			Deferred: res.Deferred,
			Duration: res.Duration,
		})
	}

	if err := set.ValidateReferences(func(name string) error {
		return checkReference(v, name)
	}); err != nil {
		return nil, err
	}

	log.Debug("[RUN] Check complete", "lists", len(report.Lists))
	return report, nil
}

// Resolve resolves the run file's derived variables and inlines them into
// the all_bc field list. References are not validated.
func Resolve(f *config.File) (*Resolution, error) {
	set, err := vardef.Resolve(f.Pairs(), nil)
	if err != nil {
		return nil, err
	}
	fp, err := set.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint derived variables: %w", err)
	}
	return &Resolution{
		Defs:        set.Canonical(),
		FreeVars:    set.FreeVars(),
		AllBC:       set.InlineFields(f.AllBC),
		Fingerprint: fp,
		Set:         set,
	}, nil
}

// BuildVocabulary reads every dataset's features and builds the vocabulary.
func BuildVocabulary(f *config.File) (*features.Vocabulary, error) {
	decls, err := f.FeatureDecls()
	if err != nil {
		return nil, err
	}
	return features.Build(decls)
}

func newValidator(f *config.File, vocab *features.Vocabulary, set *vardef.Set, opts Options, log *slog.Logger) (*validation.Validator, error) {
	caps, err := f.ClassifierCapabilities()
	if err != nil {
		return nil, err
	}
	info, err := f.InfoFieldNames()
	if err != nil {
		return nil, err
	}
	universes := f.Universes()

	extra := append([]string(nil), info...)
	extra = append(extra, set.Names()...)
	extra = append(extra, universes.AltBCFields...)

	return validation.New(validation.Context{
		Classifier:  classify.New(classify.Config{Capabilities: caps, ExtraNames: extra}),
		Features:    vocab,
		Universes:   universes,
		InfoFields:  info,
		LeadAbbrevs: f.LeadAbbrevs(),
		PerBarcode:  f.Options.PBarcode,
		PerCell:     f.Options.PCell,
	}, validation.Config{
		Telemetry:        opts.Telemetry,
		Logger:           log,
		FuzzySuggestions: opts.Fuzzy || f.Options.Fuzzy,
	}), nil
}

// checkReference accepts a variable used inside a derived formula when it
// is a valid parseable column or an unindexed chain column.
func checkReference(v *validation.Validator, name string) error {
	if classify.ChainVariable(name) {
		return nil
	}
	if err := v.Validate(validation.Parseable, []string{name}); err != nil {
		return verrors.Wrap(verrors.UnrecognizedVariable,
			fmt.Sprintf("VAR_DEF formulas use %s, which is not a known variable.", name), err).
			WithToken(name)
	}
	return nil
}
