package classify

import (
	"strings"

	"github.com/opal-lang/varspec/core/vocab"
)

// ChainVariable reports whether x is a valid chain (CVARS) column:
// a chain table name, ndiff<m>vj, cdr<i>_aa_<a>_<b>_ext or q<n>_.
func ChainVariable(x string) bool {
	return vocab.Chain.Contains(x) || ndiffVJ(x) || cdrAAExt(x, false) || qualityAt(x)
}

// ChainIndexed reports whether x is a chain column followed by a chain index,
// such as cdr3_aa2 or u_cell1. The index must be allowed by bound. Per-cell
// chain columns are only accepted when allowCell is set.
func ChainIndexed(x string, bound ChainBound, allowCell bool) bool {
	base := strings.TrimRight(x, "0123456789")
	digits := x[len(base):]
	if digits == "" {
		return false
	}
	if !bound.Unbounded {
		k, ok := parseUint(digits)
		if !ok || !bound.Allows(k) {
			return false
		}
	}
	return vocab.Chain.Contains(base) ||
		(allowCell && vocab.ChainPerCell.Contains(base)) ||
		vocab.ParseableChain.Contains(base) ||
		ndiffVJ(base) ||
		cdrAAExt(base, true)
}

// ndiffVJ matches ndiff<m>vj with m >= 1.
func ndiffVJ(y string) bool {
	if !strings.HasPrefix(y, "ndiff") || !strings.HasSuffix(y, "vj") || len(y) < len("ndiffvj") {
		return false
	}
	m, ok := parseUint(y[len("ndiff") : len(y)-len("vj")])
	return ok && m >= 1
}

// cdrAAExt matches cdr{1,2,3}_aa_<a>_<b>_ext. With signed, a and b may
// carry a sign.
func cdrAAExt(y string, signed bool) bool {
	if !strings.HasPrefix(y, "cdr1_aa_") && !strings.HasPrefix(y, "cdr2_aa_") && !strings.HasPrefix(y, "cdr3_aa_") {
		return false
	}
	rest := y[len("cdr1_aa_"):]
	a, tail, ok := strings.Cut(rest, "_")
	if !ok {
		return false
	}
	b, ok := strings.CutSuffix(tail, "_ext")
	if !ok {
		return false
	}
	num := func(s string) bool {
		if signed {
			return parseInt(s)
		}
		_, ok := parseUint(s)
		return ok
	}
	return num(a) && num(b)
}

// qualityAt matches q<n>_, the quality score at position n.
func qualityAt(y string) bool {
	if !strings.HasPrefix(y, "q") || !strings.HasSuffix(y, "_") || len(y) < 2 {
		return false
	}
	_, ok := parseUint(y[1 : len(y)-1])
	return ok
}
