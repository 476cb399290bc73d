// Package validation checks whole column lists (LVARS, CVARS, GVARS, PCOLS)
// against the run's vocabulary.
//
// Validation is fail-fast: the first offending token decides the error.
// Lead and parseable tokens the classifier cannot decide are collected and
// checked together by a fallback pass against the feature vocabulary.
package validation

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/opal-lang/varspec/core/invariant"
	"github.com/opal-lang/varspec/runtime/classify"
	"github.com/opal-lang/varspec/runtime/features"
	"github.com/opal-lang/varspec/runtime/names"
)

// Category names a column list.
type Category string

const (
	Lead      Category = "lead"      // LVARS
	Chain     Category = "chain"     // CVARS
	Global    Category = "global"    // GVARS
	Parseable Category = "parseable" // PCOLS
)

// Context is everything the validator checks tokens against.
type Context struct {
	Classifier *classify.Classifier
	Features   *features.Vocabulary
	Universes  *names.Universes

	InfoFields  []string // info fields, including derived log10(...) forms
	LeadAbbrevs []string // abbreviations used in "abbr:name" lead tokens
	PerBarcode  bool     // parseable output has one row per barcode
	PerCell     bool     // per-cell chain columns are allowed
}

// Config configures the validator
type Config struct {
	Telemetry        TelemetryLevel // Telemetry level (production-safe)
	Debug            DebugLevel     // Debug level (development only)
	Logger           *slog.Logger   // Optional; discards when nil
	FuzzySuggestions bool           // Rank near misses when no case-insensitive match exists
}

// TelemetryLevel controls telemetry collection (production-safe)
type TelemetryLevel int

const (
	TelemetryOff    TelemetryLevel = iota // Zero overhead (default)
	TelemetryBasic                        // Token counts only
	TelemetryTiming                       // Counts + fallback timing
)

// DebugLevel controls debug tracing (development only)
type DebugLevel int

const (
	DebugOff      DebugLevel = iota // No debug info (default)
	DebugPaths                      // Batch enter/exit
	DebugDetailed                   // One event per token
)

// Result holds observability data for one validated list
type Result struct {
	Category    Category
	Accepted    int           // Tokens decided without the fallback
	Deferred    []string      // Tokens handed to the fallback
	Duration    time.Duration // Always collected
	Telemetry   *Telemetry    // nil if TelemetryOff
	DebugEvents []DebugEvent  // nil if DebugOff
}

// Telemetry holds validator metrics (optional, production-safe)
type Telemetry struct {
	TokenCount       int
	FallbackCount    int
	FallbackDuration time.Duration // Only with TelemetryTiming
}

// DebugEvent holds debug tracing information (development only)
type DebugEvent struct {
	Timestamp time.Time
	Event     string // "enter_validate", "token", "fallback", "exit_validate"
	Token     string
	Context   string
}

// Validator validates column lists under one Context.
type Validator struct {
	ctx    Context
	config Config
	log    *slog.Logger
}

// New creates a Validator. Features and Universes default to empty.
func New(ctx Context, config Config) *Validator {
	invariant.NotNil(ctx.Classifier, "classifier")
	if ctx.Features == nil {
		ctx.Features = features.FromNames(nil)
	}
	if ctx.Universes == nil {
		ctx.Universes = &names.Universes{}
	}
	log := config.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Validator{ctx: ctx, config: config, log: log}
}

// Validate checks one column list. It returns the first error found.
func (v *Validator) Validate(category Category, tokens []string) error {
	_, err := v.ValidateWithObservability(category, tokens)
	return err
}

// ValidateWithObservability validates and returns telemetry and debug events
func (v *Validator) ValidateWithObservability(category Category, tokens []string) (*Result, error) {
	p, ok := profiles[category]
	invariant.Precondition(ok, "unknown category %q", category)

	start := time.Now()
	run := &run{
		v:       v,
		profile: p,
		batch:   classify.NewBatch(),
		result:  &Result{Category: category},
	}
	if v.config.Telemetry >= TelemetryBasic {
		run.result.Telemetry = &Telemetry{TokenCount: len(tokens)}
	}
	if v.config.Debug >= DebugPaths {
		run.result.DebugEvents = make([]DebugEvent, 0, len(tokens)+2)
		run.debug("enter_validate", "", fmt.Sprintf("category=%s tokens=%d", category, len(tokens)))
	}

	err := run.validate(tokens)
	run.result.Duration = time.Since(start)

	if v.config.Debug >= DebugPaths {
		run.debug("exit_validate", "", fmt.Sprintf("accepted=%d deferred=%d", run.result.Accepted, len(run.result.Deferred)))
	}
	if err != nil {
		v.log.Debug("validation failed", "category", category, "error", firstLine(err.Error()))
		return run.result, err
	}
	v.log.Debug("validated", "category", category, "tokens", len(tokens), "deferred", len(run.result.Deferred))
	return run.result, nil
}

// run is the state of one Validate call.
type run struct {
	v       *Validator
	profile *profile
	batch   *classify.Batch
	result  *Result
}

func (r *run) validate(tokens []string) error {
	for _, tok := range tokens {
		verdict, err := r.profile.check(r, tok)
		if r.v.config.Debug >= DebugDetailed {
			r.debug("token", tok, verdict.String())
		}
		if err != nil {
			return err
		}
		switch verdict {
		case classify.Accept:
			r.result.Accepted++
		case classify.Defer:
			r.result.Deferred = append(r.result.Deferred, tok)
		}
	}

	if len(r.result.Deferred) == 0 {
		return nil
	}
	invariant.Invariant(r.profile.fallback != nil, "%s tokens deferred without a fallback", r.profile.category)

	start := time.Now()
	if r.v.config.Debug >= DebugPaths {
		r.debug("fallback", "", fmt.Sprintf("tokens=%d", len(r.result.Deferred)))
	}
	err := r.fallback(r.result.Deferred)
	if t := r.result.Telemetry; t != nil {
		t.FallbackCount = len(r.result.Deferred)
		if r.v.config.Telemetry >= TelemetryTiming {
			t.FallbackDuration = time.Since(start)
		}
	}
	return err
}

// debug records a debug event when debug tracing is enabled
func (r *run) debug(event, token, context string) {
	if r.result.DebugEvents == nil {
		return
	}
	r.result.DebugEvents = append(r.result.DebugEvents, DebugEvent{
		Timestamp: time.Now(),
		Event:     event,
		Token:     token,
		Context:   context,
	})
}

// stripAbbrev keeps the part after the final colon.
func stripAbbrev(tok string) string {
	if i := strings.LastIndexByte(tok, ':'); i >= 0 {
		return tok[i+1:]
	}
	return tok
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
