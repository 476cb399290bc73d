// Package classify decides whether a single lead or parseable column token
// is acceptable.
//
// The classifier walks a prioritized rule table. The first rule whose
// predicate matches decides the verdict: Accept, Reject with a diagnostic,
// or Defer to the category fallback in runtime/validation. A few rules only
// gate a token and let later rules decide.
package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/opal-lang/varspec/core/invariant"
	"github.com/opal-lang/varspec/core/suffix"
	"github.com/opal-lang/varspec/core/verrors"
	"github.com/opal-lang/varspec/core/vocab"
	"github.com/opal-lang/varspec/runtime/pattern"
)

// Verdict is the outcome of classifying one token.
type Verdict int

const (
	Defer Verdict = iota
	Accept
	Reject
)

func (v Verdict) String() string {
	switch v {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	default:
		return "defer"
	}
}

// Mode selects how unknown plain tokens are treated.
type Mode int

const (
	// Lenient defers unknown tokens to the caller.
	Lenient Mode = iota
	// Strict rejects unknown tokens that cannot be feature or n_ columns.
	Strict
)

// Result is a verdict plus, for Reject, the diagnostic.
type Result struct {
	Verdict Verdict
	Err     error
}

var (
	accept     = Result{Verdict: Accept}
	deferToken = Result{Verdict: Defer}
)

func reject(err *verrors.Error, token string) Result {
	return Result{Verdict: Reject, Err: err.WithToken(token)}
}

// Config configures a Classifier.
type Config struct {
	Capabilities Capabilities
	// ExtraNames are accepted verbatim: info fields, derived variable
	// names and alternate barcode fields.
	ExtraNames []string
}

// Classifier applies the rule table under fixed capabilities. It holds no
// per-batch state and is safe for concurrent use.
type Classifier struct {
	caps  Capabilities
	extra map[string]struct{}
}

// New creates a Classifier.
func New(cfg Config) *Classifier {
	extra := make(map[string]struct{}, len(cfg.ExtraNames))
	for _, n := range cfg.ExtraNames {
		extra[n] = struct{}{}
	}
	return &Classifier{caps: cfg.Capabilities, extra: extra}
}

// Capabilities returns the capabilities the classifier was built with.
func (c *Classifier) Capabilities() Capabilities {
	return c.caps
}

// IsExtra reports whether name is one of the configured extra names.
func (c *Classifier) IsExtra(name string) bool {
	_, ok := c.extra[name]
	return ok
}

// token is one classification request.
type token struct {
	raw   string // as written, possibly "abbr:name"
	x     string // raw with any "abbr:" prefix removed
	batch *Batch
	mode  Mode
}

// rule is one row of the table. decide reports decided=false to let the
// next rule run.
type rule struct {
	name   string
	decide func(c *Classifier, t token) (r Result, decided bool)
}

var rules = []rule{
	{"extra", (*Classifier).ruleExtra},
	{"type", (*Classifier).ruleType},
	{"fb", (*Classifier).ruleFB},
	{"nd", (*Classifier).ruleND},
	{"count", (*Classifier).ruleCount},
	{"pe", (*Classifier).rulePE},
	{"pattern", (*Classifier).rulePattern},
	{"modality", (*Classifier).ruleModality},
	{"g", (*Classifier).ruleGroup},
	{"table", (*Classifier).ruleTable},
}

// Classify classifies one lead or parseable token. st must be the state of
// the batch the token belongs to.
func (c *Classifier) Classify(raw string, st *Batch, mode Mode) Result {
	invariant.NotNil(st, "batch state")

	t := token{raw: raw, x: stripAbbrev(raw), batch: st, mode: mode}
	for _, r := range rules {
		if res, ok := r.decide(c, t); ok {
			return res
		}
	}
	invariant.Invariant(false, "rule table ended without a verdict for %q", raw)
	return deferToken
}

// RuleFor returns the name of the rule that decided raw, for debug output.
// It runs against a scratch batch and does not touch caller state.
func (c *Classifier) RuleFor(raw string, mode Mode) string {
	t := token{raw: raw, x: stripAbbrev(raw), batch: NewBatch(), mode: mode}
	for _, r := range rules {
		if _, ok := r.decide(c, t); ok {
			return r.name
		}
	}
	return ""
}

// stripAbbrev keeps the part after the final colon.
func stripAbbrev(raw string) string {
	if i := strings.LastIndexByte(raw, ':'); i >= 0 {
		return raw[i+1:]
	}
	return raw
}

func (c *Classifier) ruleExtra(t token) (Result, bool) {
	if c.IsExtra(t.raw) || c.IsExtra(t.x) {
		return accept, true
	}
	return Result{}, false
}

func (c *Classifier) ruleType(t token) (Result, bool) {
	if t.x != "type" {
		return Result{}, false
	}
	if !c.caps.InternalRun {
		return reject(verrors.New(verrors.UnrecognizedVariable,
			`Unrecognized variable type for LVARS or PCOLS.  Please type "enclone help lvars".`), t.raw), true
	}
	if !c.caps.AnyCellTypes() {
		return reject(verrors.New(verrors.UnsupportedModality,
			"You've used the lead or parseable variable \"type\", but the file cell_types.csv was not found.\n"+
				"This could be because you're using a GEX pipestance that was run using too old a version of Cell Ranger.\n"+
				"Or it might have been generated using the CS pipeline.\n"+
				"Or you might have copied the pipestance outs but not included that file."), t.raw), true
	}
	return Result{}, false
}

func (c *Classifier) ruleFB(t token) (Result, bool) {
	y := strings.TrimSuffix(t.x, "_cell")
	y = strings.TrimSuffix(y, "_n")
	if !strings.HasPrefix(y, "fb") {
		return Result{}, false
	}
	if k, ok := parseUint(y[len("fb"):]); !ok || k < 1 {
		return Result{}, false
	}
	if c.caps.DatasetCount != 1 {
		return reject(verrors.New(verrors.StructuralMismatch,
			"The variables fb<n> and fb<n>_n can only be used if there is just one dataset."), t.raw), true
	}
	if !c.caps.TopFBMatrix {
		return reject(verrors.New(verrors.UnsupportedModality,
			"The variables fb<n> and fb<n>_n can only be used if the file "+
				"feature_barcode_matrix_top.bin was generated."), t.raw), true
	}
	return accept, true
}

func (c *Classifier) ruleND(t token) (Result, bool) {
	if !strings.HasPrefix(t.x, "nd") {
		return Result{}, false
	}
	if k, ok := parseUint(t.x[len("nd"):]); !ok || k < 1 {
		return Result{}, false
	}
	if t.batch.ndUsed {
		return reject(verrors.New(verrors.DuplicateDirective,
			"Only one instance of the lead variable nd<k> is allowed."), t.raw), true
	}
	t.batch.ndUsed = true
	t.batch.ndToken = t.raw
	return accept, true
}

var countClasses = []string{
	"count_cdr1_", "count_cdr2_", "count_cdr3_",
	"count_fwr1_", "count_fwr2_", "count_fwr3_", "count_fwr4_",
	"count_cdr_", "count_fwr_",
}

func (c *Classifier) ruleCount(t token) (Result, bool) {
	if !strings.HasPrefix(t.x, "count_") {
		return Result{}, false
	}
	class := "count_"
	for _, p := range countClasses {
		if strings.HasPrefix(t.x, p) {
			class = p
			break
		}
	}
	re := t.x[len(class):]
	if _, err := regexp.Compile(re); err != nil || strings.Contains(re, "_") {
		return reject(verrors.Newf(verrors.InvalidRegularExpression,
			"The string after %s in your lead or parseable variable %s is not a valid "+
				"regular expression for amino acids.", class, t.x), t.raw), true
	}
	return accept, true
}

func (c *Classifier) rulePE(t token) (Result, bool) {
	for _, p := range []string{"pe", "npe", "ppe"} {
		if strings.HasPrefix(t.x, p) {
			if _, ok := parseUint(t.x[len(p):]); ok {
				return accept, true
			}
		}
	}
	return Result{}, false
}

func (c *Classifier) rulePattern(t token) (Result, bool) {
	if pattern.IsPattern(t.x, false) {
		return accept, true
	}
	return Result{}, false
}

var gexOnly = vocab.NewSet("clust", "type", "entropy", "cred", "cred_cell")

func (c *Classifier) ruleModality(t token) (Result, bool) {
	x := t.x
	if !c.caps.HasGEX && !c.caps.HasFB && strings.HasPrefix(x, "n_gex") {
		return reject(verrors.Newf(verrors.UnsupportedModality,
			"Can't use LVARS or LVARSP or PCOLS variable %s without having gene expression "+
				"or feature barcode data.", x), t.raw), true
	}
	if !c.caps.HasGEX && (strings.HasPrefix(x, "gex") || gexOnly.Contains(x)) {
		return reject(verrors.Newf(verrors.UnsupportedModality,
			"Can't use LVARS or LVARSP or PCOLS variable %s without having gene expression data.", x), t.raw), true
	}
	return Result{}, false
}

func (c *Classifier) ruleGroup(t token) (Result, bool) {
	if strings.HasPrefix(t.x, "g") {
		if _, ok := parseUint(t.x[1:]); ok {
			return accept, true
		}
	}
	return Result{}, false
}

func (c *Classifier) ruleTable(t token) (Result, bool) {
	switch {
	case vocab.Lead.Contains(t.x):
		return accept, true
	case suffix.HasFamilySuffix(t.x):
		return deferToken, true
	case t.mode == Strict && t.x != "" && !strings.HasPrefix(t.x, "n_"):
		return reject(verrors.Newf(verrors.UnrecognizedVariable,
			`Unrecognized variable %s for LVARS.  Please type "enclone help lvars".`, t.x), t.raw), true
	}
	return deferToken, true
}

// parseUint parses a non-empty run of ASCII digits.
func parseUint(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseInt parses an optionally signed decimal integer.
func parseInt(s string) bool {
	body := strings.TrimLeft(s, "+-")
	if len(s)-len(body) > 1 {
		return false
	}
	_, ok := parseUint(body)
	return ok
}

func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", r.Verdict, r.Err)
	}
	return r.Verdict.String()
}
