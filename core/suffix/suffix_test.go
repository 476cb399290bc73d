package suffix

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamiliesCatalog(t *testing.T) {
	fams := Families()
	require.Len(t, fams, 55)

	seen := make(map[string]bool)
	for _, f := range fams {
		assert.Equal(t, f.Role+f.Stat, f.Suffix)
		assert.False(t, seen[f.Suffix], "duplicate suffix %s", f.Suffix)
		seen[f.Suffix] = true
	}

	// Role outer, statistic inner.
	want := []string{"_g", "_g_min", "_g_max", "_g_mean", "_g_sum", "_ab"}
	got := make([]string, 0, len(want))
	for _, f := range fams[:6] {
		got = append(got, f.Suffix)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("priority order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "_g_%_sum", fams[54].Suffix)
}

func TestExpand(t *testing.T) {
	tests := []struct {
		category string
		want     []string
	}{
		{"Antibody Capture", []string{"CD19_ab", "CD19_ab_min", "CD19_ab_max", "CD19_ab_mean", "CD19_ab_sum"}},
		{"CRISPR Guide Capture", []string{"CD19_cr", "CD19_cr_min", "CD19_cr_max", "CD19_cr_mean", "CD19_cr_sum"}},
		{"CUSTOM", []string{"CD19_cu", "CD19_cu_min", "CD19_cu_max", "CD19_cu_mean", "CD19_cu_sum"}},
		{"Antigen Capture", []string{"CD19_ag", "CD19_ag_min", "CD19_ag_max", "CD19_ag_mean", "CD19_ag_sum"}},
		{"Gene Expression", []string{"CD19_g", "CD19_g_min", "CD19_g_max", "CD19_g_mean", "CD19_g_sum", "CD19_g_%"}},
		{"", []string{"CD19_g", "CD19_g_min", "CD19_g_max", "CD19_g_mean", "CD19_g_sum", "CD19_g_%"}},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got := Expand(nil, "CD19", tt.category)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Expand mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	f, ok := Match("CD4_ab_mean_max")
	require.True(t, ok)
	assert.Equal(t, "_ab_mean", f.Role)
	assert.Equal(t, "_max", f.Stat)

	f, ok = Match("IGHM_g")
	require.True(t, ok)
	assert.Equal(t, "_g", f.Suffix)

	_, ok = Match("cdr3_aa")
	assert.False(t, ok)
	assert.False(t, HasFamilySuffix("clonotype_ncells"))
}

func TestRequires(t *testing.T) {
	assert.Equal(t, ModalityGEX, Requires("IGHM_g_%"))
	assert.Equal(t, ModalityGEX, Requires("IGHM_g_sum"))
	assert.Equal(t, ModalityFB, Requires("CD19_ab_min"))
	assert.Equal(t, ModalityFB, Requires("guide_cr"))
	assert.Equal(t, ModalityNone, Requires("u_cell"))
}
