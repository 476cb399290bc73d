// Package vocab holds the static allowed-name tables for report columns.
//
// Each table is a closed set. Open-ended column families (count_<regex>,
// nd<k>, feature columns, chain-indexed variants) are recognized by grammar
// in runtime/classify, not listed here.
package vocab

import "sort"

// Set is an immutable set of column names.
type Set struct {
	names map[string]struct{}
}

// NewSet builds a Set from names.
func NewSet(names ...string) Set {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return Set{names: m}
}

// Contains reports whether name is in the set.
func (s Set) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of names.
func (s Set) Len() int {
	return len(s.names)
}

// Sorted returns the names in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Lead is the set of lead variables (LVARS), one value per exact subclonotype
// or clonotype.
var Lead = NewSet(
	"datasets", "origins", "donors",
	"n", "clonotype_ncells", "nchains", "nchains_present", "exact_subclonotype_id",
	"group_id", "group_ncells", "clonotype_id",
	"barcodes", "ext", "filter", "mark",
	"inkt", "mait", "near", "far", "dref", "dref_aa",
	"gex", "gex_min", "gex_max", "gex_mean", "gex_sum", "gex_cell",
	"n_gex", "n_gex_cell", "n_b", "n_other",
	"clust", "type", "entropy", "cred", "cred_cell",
	"sec", "mem", "tree", "fate", "ncells",
	"fcounts", "fcounts_cell", "cdr3_aa_conx", "cdr3_aa_conp",
	"ncells_cell", "origins_cell", "donors_cell", "datasets_cell",
)

// Chain is the set of chain variables (CVARS), one value per chain.
var Chain = NewSet(
	"var", "u", "u_min", "u_max", "u_mean", "u_sum",
	"r", "r_min", "r_max", "r_mean", "r_sum",
	"const", "white", "edit", "comp", "cigar", "notes",
	"cdr1_dna", "cdr2_dna", "cdr3_dna", "fwr1_dna", "fwr2_dna", "fwr3_dna", "fwr4_dna",
	"cdr1_aa", "cdr2_aa", "cdr3_aa", "fwr1_aa", "fwr2_aa", "fwr3_aa", "fwr4_aa",
	"cdr1_len", "cdr2_len", "cdr3_len", "fwr1_len", "fwr2_len", "fwr3_len", "fwr4_len",
	"cdr1_aa_ref", "cdr2_aa_ref", "fwr1_aa_ref", "fwr2_aa_ref", "fwr3_aa_ref",
	"v_name", "d_name", "j_name", "v_id", "d_id", "j_id", "const_id", "utr_id", "utr_name",
	"d1_name", "d2_name", "d1_score", "d2_score", "d_delta", "d_frame", "d_univ", "d_donor",
	"v_name_orig", "cdr3_start", "v_start", "d_start",
	"aa%", "dna%", "nval", "nnval", "nival", "valeven",
	"vj_aa", "vj_seq", "vj_aa_nl", "vj_seq_nl", "seq",
	"ulen", "vjlen", "clen", "cdiff", "udiff",
	"allele", "allele_d", "vjlen_nl", "comp_cdr3", "edit_cdr3", "cdr3_aa_conx", "cdr3_aa_conp",
)

// ChainPerCell extends Chain for per-cell parseable output (PCELL).
var ChainPerCell = NewSet("u_cell", "r_cell")

// ParseableChain holds chain columns only available in parseable output.
var ParseableChain = NewSet(
	"v_start", "const_id", "utr_id", "cdr3_aa", "seq", "vj_seq",
	"var_indices_dna", "var_indices_aa", "share_indices_dna", "share_indices_aa",
	"v_id", "d_id", "j_id", "var_aa", "full_seq", "v_stop", "j_start", "j_stop",
	"const_start", "cdr1_start", "cdr2_start", "fwr1_start", "fwr2_start", "fwr3_start",
	"fwr4_end", "vj_seq_nl", "vj_aa_nl", "ulen", "vjlen", "clen", "vjlen_nl",
)

// ParseableLead holds lead columns only available in parseable output.
var ParseableLead = NewSet(
	"group_id", "group_ncells", "clonotype_id", "clonotype_ncells", "nchains",
	"exact_subclonotype_id", "barcodes", "barcode", "filter",
	"origins_cell", "donors_cell", "datasets_cell", "n_gex_cell", "gex_cell",
	"sec", "mem", "mark",
)

// Global is the set of global variables (GVARS), one value per run.
var Global = NewSet(
	"d_inconsistent_%", "d_inconsistent_n", "d_none_%", "d_second_%",
)
