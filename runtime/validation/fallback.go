package validation

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/opal-lang/varspec/core/suffix"
	"github.com/opal-lang/varspec/core/verrors"
	"github.com/opal-lang/varspec/core/vocab"
)

const maxFuzzySuggestions = 3

var gexOnly = vocab.NewSet("gex", "clust", "type", "entropy", "cred", "cred_cell")

// fallback checks the tokens the category check could not decide. The
// modality pass runs over every token before any vocabulary lookup.
func (r *run) fallback(tokens []string) error {
	text := r.profile.fallback
	for _, tok := range tokens {
		if err := r.modality(text, tok); err != nil {
			return err
		}
	}

	for _, tok := range tokens {
		x := stripAbbrev(tok)
		y := x
		if text.stripCell {
			y = strings.TrimSuffix(y, "_cell")
		}
		if r.v.ctx.Features.Contains(y) {
			continue
		}
		if strings.HasPrefix(x, "n_") {
			if err := r.v.ctx.Universes.Resolve(string(r.profile.category), x); err != nil {
				return err
			}
			continue
		}
		if text.skipEmpty && x == "" {
			continue
		}
		alts := r.v.suggest(x)
		return verrors.New(verrors.UnrecognizedVariable, text.unknown(x, alts)).
			WithToken(tok).
			WithSuggestions(alts)
	}
	return nil
}

func (r *run) modality(text *fallbackText, tok string) error {
	x := stripAbbrev(tok)
	caps := r.v.ctx.Classifier.Capabilities()

	reject := func(why, were string) error {
		return verrors.Newf(verrors.UnsupportedModality, "%s %s does not make sense because %s\n%s as input.",
			text.subject, x, why, were).WithToken(tok)
	}

	if !caps.HasGEX && !caps.HasFB && (x == "n_gex" || x == "n_gex_cell") {
		return reject(text.neither, "were provided")
	}
	if !caps.HasGEX && (hasAnySuffix(x, suffix.GeneEnds()) || gexOnly.Contains(x) || strings.HasPrefix(x, "gex_")) {
		return reject("gene expression data", "were not provided")
	}
	if !caps.HasFB && hasAnySuffix(x, suffix.FeatureBarcodeEnds()) {
		return reject("feature barcode data", "were not provided")
	}
	return nil
}

func hasAnySuffix(x string, ends []string) bool {
	for _, e := range ends {
		if strings.HasSuffix(x, e) {
			return true
		}
	}
	return false
}

// suggest returns the vocabulary entries x might have meant: exact matches
// ignoring case, or with fuzzy suggestions enabled the closest entries by
// edit distance when there is no such match.
func (v *Validator) suggest(x string) []string {
	alts := v.ctx.Features.FoldMatches(x)
	if len(alts) > 0 || !v.config.FuzzySuggestions || x == "" {
		return alts
	}
	return closestMatches(x, v.ctx.Features.Names(), maxFuzzySuggestions)
}

// closestMatches ranks candidates containing target's characters in order,
// ignoring case, and returns up to n of them, nearest first.
func closestMatches(target string, candidates []string, n int) []string {
	ranks := fuzzy.RankFindFold(target, candidates)
	sort.Sort(ranks)
	var out []string
	for _, r := range ranks {
		if len(out) == n {
			break
		}
		out = append(out, r.Target)
	}
	return out
}
