package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChainVariable(t *testing.T) {
	tests := []struct {
		x    string
		want bool
	}{
		{"u", true},
		{"cdr3_aa", true},
		{"v_name", true},
		{"ndiff1vj", true},
		{"ndiff12vj", true},
		{"ndiff0vj", false},
		{"ndiffvj", false},
		{"cdr3_aa_3_4_ext", true},
		{"cdr1_aa_0_10_ext", true},
		{"cdr3_aa_-3_4_ext", false},
		{"cdr3_aa_3_ext", false},
		{"cdr4_aa_3_4_ext", false},
		{"q30_", true},
		{"q_", false},
		{"q30", false},
		{"u_cell", false},
		{"mystery", false},
	}
	for _, tt := range tests {
		t.Run(tt.x, func(t *testing.T) {
			assert.Equal(t, tt.want, ChainVariable(tt.x))
		})
	}
}

func TestChainIndexed(t *testing.T) {
	two := ChainBound{Max: 2}
	tests := []struct {
		x         string
		bound     ChainBound
		allowCell bool
		want      bool
	}{
		{"cdr3_aa1", two, false, true},
		{"cdr3_aa2", two, false, true},
		{"cdr3_aa3", two, false, false},
		{"cdr3_aa3", Unbounded, false, true},
		{"cdr3_aa0", two, false, false},
		{"cdr3_aa", Unbounded, false, false},
		{"var_indices_aa1", two, false, true},
		{"u_cell1", two, false, false},
		{"u_cell1", two, true, true},
		{"ndiff2vj1", two, false, true},
		{"cdr3_aa_-3_4_ext1", two, false, true},
		{"cdr3_aa_3_+4_ext2", two, false, true},
		{"cdr3_aa_--3_4_ext2", two, false, false},
		{"mystery1", Unbounded, false, false},
		{"q30_1", Unbounded, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.x, func(t *testing.T) {
			assert.Equal(t, tt.want, ChainIndexed(tt.x, tt.bound, tt.allowCell))
		})
	}
}
