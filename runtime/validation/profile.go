package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/opal-lang/varspec/core/verrors"
	"github.com/opal-lang/varspec/core/vocab"
	"github.com/opal-lang/varspec/runtime/classify"
	"github.com/opal-lang/varspec/runtime/pattern"
)

// profile is what differs between categories. Everything else is shared.
type profile struct {
	category Category
	check    func(r *run, tok string) (classify.Verdict, error)
	fallback *fallbackText // nil: the category never defers
}

// fallbackText holds the category-specific fallback diagnostics.
type fallbackText struct {
	subject   string // "Lead variable" or "Parseable field"
	neither   string // wording for n_gex without any data
	stripCell bool   // look up x without its _cell suffix
	skipEmpty bool
	unknown   func(x string, alts []string) string
}

var profiles = map[Category]*profile{
	Lead: {
		category: Lead,
		check:    checkLead,
		fallback: &fallbackText{
			subject:   "Lead variable",
			neither:   "neither gene expression not feature barcode data",
			skipEmpty: true,
			unknown: func(x string, alts []string) string {
				if len(alts) > 0 {
					return fmt.Sprintf("The variable %s for LVARS is unrecognized.  Might you have meant %s?\n"+
						`Please type "enclone help lvars".`, x, verrors.Alternatives(alts))
				}
				return fmt.Sprintf(`The variable %s for LVARS is unrecognized.  Please type "enclone help lvars".`, x)
			},
		},
	},
	Parseable: {
		category: Parseable,
		check:    checkParseable,
		fallback: &fallbackText{
			subject:   "Parseable field",
			neither:   "neither gene expression nor feature barcode data",
			stripCell: true,
			unknown: func(x string, alts []string) string {
				const tail = "Please type \"enclone help parseable\".\n" +
					"If the variable is a chain variable (cvar), please make sure it is suffixed with the chain index."
				if len(alts) > 0 {
					return fmt.Sprintf("Unrecognized parseable variable %s.  Might you have meant %s?\n%s",
						x, verrors.Alternatives(alts), tail)
				}
				return fmt.Sprintf("Unrecognized parseable variable %s.  %s", x, tail)
			},
		},
	},
	Chain:  {category: Chain, check: checkChain},
	Global: {category: Global, check: checkGlobal},
}

func checkLead(r *run, tok string) (classify.Verdict, error) {
	if strings.HasSuffix(tok, "_cell") {
		return classify.Reject, verrors.New(verrors.UnrecognizedVariable,
			"Fields ending with _cell cannot be used in LVARS or LVARSP.").WithToken(tok)
	}
	res := r.v.ctx.Classifier.Classify(tok, r.batch, classify.Strict)
	return res.Verdict, res.Err
}

func checkParseable(r *run, tok string) (classify.Verdict, error) {
	ctx := &r.v.ctx
	x := stripAbbrev(tok)

	res := ctx.Classifier.Classify(x, r.batch, classify.Lenient)
	if res.Verdict == classify.Reject {
		return res.Verdict, res.Err
	}
	ok := res.Verdict == classify.Accept ||
		slices.Contains(ctx.InfoFields, x) ||
		ctx.Universes.IsAltBCField(x) ||
		slices.Contains(ctx.LeadAbbrevs, x) ||
		vocab.ParseableLead.Contains(x) ||
		isDatasetBarcodes(ctx.Universes.Datasets, x, "_barcodes") ||
		(ctx.PerBarcode && (x == "barcode" || isDatasetBarcodes(ctx.Universes.Datasets, x, "_barcode")))

	caps := ctx.Classifier.Capabilities()
	if !caps.HasGEX && !caps.HasFB && strings.HasPrefix(x, "n_gex") {
		return classify.Reject, verrors.Newf(verrors.UnsupportedModality,
			"Can't use parseable variable %s without having gene expression or feature barcode data.", x).WithToken(tok)
	}
	if !caps.HasGEX && (strings.HasPrefix(x, "gex") || x == "clust") {
		return classify.Reject, verrors.Newf(verrors.UnsupportedModality,
			"Can't use parseable variable %s without having gene expression data.", x).WithToken(tok)
	}

	if vocab.Lead.Contains(x) || isGroup(x) || pattern.IsPattern(x, true) ||
		classify.ChainIndexed(x, caps.ChainBound, ctx.PerCell) {
		ok = true
	}
	if ok {
		return classify.Accept, nil
	}
	return classify.Defer, nil
}

func checkChain(_ *run, tok string) (classify.Verdict, error) {
	x := stripAbbrev(tok)
	if classify.ChainVariable(x) {
		return classify.Accept, nil
	}
	return classify.Reject, verrors.Newf(verrors.UnrecognizedVariable,
		`Unrecognized variable %s for CVARS or CVARSP.  Please type "enclone help cvars".`, x).WithToken(tok)
}

func checkGlobal(_ *run, tok string) (classify.Verdict, error) {
	if vocab.Global.Contains(tok) {
		return classify.Accept, nil
	}
	return classify.Reject, verrors.Newf(verrors.UnrecognizedVariable,
		"Unknown global variable %s.", tok).WithToken(tok)
}

func isDatasetBarcodes(datasets []string, x, suffix string) bool {
	d, ok := strings.CutSuffix(x, suffix)
	return ok && slices.Contains(datasets, d)
}

// isGroup matches g<k>.
func isGroup(x string) bool {
	if len(x) < 2 || x[0] != 'g' {
		return false
	}
	for i := 1; i < len(x); i++ {
		if x[i] < '0' || x[i] > '9' {
			return false
		}
	}
	return true
}
