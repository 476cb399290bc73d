// Package suffix is the static catalog of composite column suffixes.
//
// A feature-derived column is a base name followed by a role suffix (which
// data category the feature belongs to) and a statistic suffix (how values
// are aggregated across cells):
//
//	CD19_ab_max   = CD19 + _ab + _max
//	IGHM_g_%      = IGHM + _g  + _%
//
// The composite catalog crosses the 11 role families with the 5 statistic
// suffixes. Order matters: matching code walks Families front to back and
// stops at the first hit.
package suffix

import "strings"

// Roles are the role-suffix families in match priority order.
var Roles = []string{
	"_g", "_ab", "_ag", "_cr", "_cu",
	"_g_mean", "_ab_mean", "_ag_mean", "_cr_mean", "_cu_mean",
	"_g_%",
}

// Stats are the statistic suffixes shared by every feature category.
var Stats = []string{"", "_min", "_max", "_mean", "_sum"}

// GeneStats are the statistic suffixes for gene expression features.
var GeneStats = []string{"", "_min", "_max", "_mean", "_sum", "_%"}

// Modality is the kind of loaded data a suffix implies.
type Modality int

const (
	ModalityNone Modality = iota
	ModalityGEX           // gene expression
	ModalityFB            // feature barcode (antibody, CRISPR, custom, antigen)
)

// Family is one composite suffix.
type Family struct {
	Role   string
	Stat   string
	Suffix string // Role + Stat
}

var families []Family

func init() {
	families = make([]Family, 0, len(Roles)*len(Stats))
	for _, r := range Roles {
		for _, s := range Stats {
			families = append(families, Family{Role: r, Stat: s, Suffix: r + s})
		}
	}
}

// Families returns the composite catalog in priority order.
// The returned slice must not be modified.
func Families() []Family {
	return families
}

// Match returns the first family whose suffix ends x.
func Match(x string) (Family, bool) {
	for _, f := range families {
		if strings.HasSuffix(x, f.Suffix) {
			return f, true
		}
	}
	return Family{}, false
}

// HasFamilySuffix reports whether x ends in any composite suffix.
func HasFamilySuffix(x string) bool {
	_, ok := Match(x)
	return ok
}

// Role maps a feature category string to its role suffix. The category is
// matched by prefix so "Antibody Capture" maps to _ab. Anything unknown is a
// gene.
func Role(category string) string {
	switch {
	case strings.HasPrefix(category, "Antibody"):
		return "_ab"
	case strings.HasPrefix(category, "CRISPR"):
		return "_cr"
	case strings.HasPrefix(category, "CUSTOM"):
		return "_cu"
	case strings.HasPrefix(category, "Antigen"):
		return "_ag"
	default:
		return "_g"
	}
}

// Expand appends every suffixed column name for one base feature name.
func Expand(dst []string, base, category string) []string {
	role := Role(category)
	stats := Stats
	if role == "_g" {
		stats = GeneStats
	}
	for _, s := range stats {
		dst = append(dst, base+role+s)
	}
	return dst
}

// GeneEnds are the suffixes that imply gene expression data.
func GeneEnds() []string {
	out := make([]string, 0, len(GeneStats))
	for _, s := range GeneStats {
		out = append(out, "_g"+s)
	}
	return out
}

// FeatureBarcodeEnds are the suffixes that imply feature barcode data.
func FeatureBarcodeEnds() []string {
	roles := []string{"_ab", "_cr", "_cu", "_ag"}
	out := make([]string, 0, len(roles)*len(Stats))
	for _, r := range roles {
		for _, s := range Stats {
			out = append(out, r+s)
		}
	}
	return out
}

// Requires returns the modality implied by x's suffix, if any.
func Requires(x string) Modality {
	for _, e := range GeneEnds() {
		if strings.HasSuffix(x, e) {
			return ModalityGEX
		}
	}
	for _, e := range FeatureBarcodeEnds() {
		if strings.HasSuffix(x, e) {
			return ModalityFB
		}
	}
	return ModalityNone
}
