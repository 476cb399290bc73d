package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/varspec/core/verrors"
)

func fullCaps() Capabilities {
	return Capabilities{
		HasGEX:       true,
		HasFB:        true,
		InternalRun:  true,
		CellTypes:    []bool{true},
		DatasetCount: 1,
		TopFBMatrix:  true,
		ChainBound:   Unbounded,
	}
}

func TestClassifyVerdicts(t *testing.T) {
	c := New(Config{Capabilities: fullCaps(), ExtraNames: []string{"donor_age", "log10(donor_age)", "BC"}})

	tests := []struct {
		token string
		mode  Mode
		want  Verdict
		rule  string
	}{
		{"donor_age", Strict, Accept, "extra"},
		{"log10(donor_age)", Strict, Accept, "extra"},
		{"abbr:BC", Strict, Accept, "extra"},
		{"a:b:BC", Strict, Accept, "extra"},
		{"a:b:ncells", Strict, Accept, "table"},
		{"type", Strict, Accept, "table"},
		{"fb1", Strict, Accept, "fb"},
		{"fb2_n_cell", Lenient, Accept, "fb"},
		{"nd5", Strict, Accept, "nd"},
		{"count_cdr2_[AG]+", Strict, Accept, "count"},
		{"c:count_CAR", Strict, Accept, "count"},
		{"pe0", Strict, Accept, "pe"},
		{"npe3", Strict, Accept, "pe"},
		{"ppe12", Strict, Accept, "pe"},
		{"CD[48]_ab", Strict, Accept, "pattern"},
		{"g7", Strict, Accept, "g"},
		{"datasets", Strict, Accept, "table"},
		{"n_gex", Strict, Accept, "table"},
		{"CD19_ab", Strict, Defer, "table"},
		{"IGHM_g_%", Strict, Defer, "table"},
		{"n_s1", Strict, Defer, "table"},
		{"", Strict, Defer, "table"},
		{"mystery", Lenient, Defer, "table"},
		{"nd0", Lenient, Defer, "table"},
		{"fb0", Lenient, Defer, "table"},
		{"mystery", Strict, Reject, "table"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			res := c.Classify(tt.token, NewBatch(), tt.mode)
			assert.Equal(t, tt.want, res.Verdict, "result: %s", res)
			if tt.want == Reject {
				assert.Error(t, res.Err)
			} else {
				assert.NoError(t, res.Err)
			}
			assert.Equal(t, tt.rule, c.RuleFor(tt.token, tt.mode))
		})
	}
}

func TestClassifyRejections(t *testing.T) {
	tests := []struct {
		name  string
		caps  func(*Capabilities)
		token string
		kind  verrors.Kind
		want  string
	}{
		{
			name:  "type outside internal run",
			caps:  func(c *Capabilities) { c.InternalRun = false },
			token: "type",
			kind:  verrors.UnrecognizedVariable,
			want:  `Unrecognized variable type for LVARS or PCOLS.  Please type "enclone help lvars".`,
		},
		{
			name:  "type without cell types",
			caps:  func(c *Capabilities) { c.CellTypes = []bool{false, false} },
			token: "type",
			kind:  verrors.UnsupportedModality,
			want: "You've used the lead or parseable variable \"type\", but the file cell_types.csv was not found.\n" +
				"This could be because you're using a GEX pipestance that was run using too old a version of Cell Ranger.\n" +
				"Or it might have been generated using the CS pipeline.\n" +
				"Or you might have copied the pipestance outs but not included that file.",
		},
		{
			name:  "fb with two datasets",
			caps:  func(c *Capabilities) { c.DatasetCount = 2 },
			token: "fb1_n",
			kind:  verrors.StructuralMismatch,
			want:  "The variables fb<n> and fb<n>_n can only be used if there is just one dataset.",
		},
		{
			name:  "fb without top matrix",
			caps:  func(c *Capabilities) { c.TopFBMatrix = false },
			token: "fb1",
			kind:  verrors.UnsupportedModality,
			want:  "The variables fb<n> and fb<n>_n can only be used if the file feature_barcode_matrix_top.bin was generated.",
		},
		{
			name:  "count with underscore",
			token: "count_cdr2_A_G",
			kind:  verrors.InvalidRegularExpression,
			want:  "The string after count_cdr2_ in your lead or parseable variable count_cdr2_A_G is not a valid regular expression for amino acids.",
		},
		{
			name:  "count that does not compile",
			token: "count_[AG",
			kind:  verrors.InvalidRegularExpression,
			want:  "The string after count_ in your lead or parseable variable count_[AG is not a valid regular expression for amino acids.",
		},
		{
			name:  "n_gex without data",
			caps:  func(c *Capabilities) { c.HasGEX, c.HasFB = false, false },
			token: "n_gex",
			kind:  verrors.UnsupportedModality,
			want:  "Can't use LVARS or LVARSP or PCOLS variable n_gex without having gene expression or feature barcode data.",
		},
		{
			name:  "clust without gex",
			caps:  func(c *Capabilities) { c.HasGEX = false },
			token: "clust",
			kind:  verrors.UnsupportedModality,
			want:  "Can't use LVARS or LVARSP or PCOLS variable clust without having gene expression data.",
		},
		{
			name:  "gex_max without gex",
			caps:  func(c *Capabilities) { c.HasGEX = false },
			token: "gex_max",
			kind:  verrors.UnsupportedModality,
			want:  "Can't use LVARS or LVARSP or PCOLS variable gex_max without having gene expression data.",
		},
		{
			name:  "unknown strict",
			token: "abbr:mystery",
			kind:  verrors.UnrecognizedVariable,
			want:  `Unrecognized variable mystery for LVARS.  Please type "enclone help lvars".`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := fullCaps()
			if tt.caps != nil {
				tt.caps(&caps)
			}
			res := New(Config{Capabilities: caps}).Classify(tt.token, NewBatch(), Strict)
			require.Equal(t, Reject, res.Verdict)
			require.Error(t, res.Err)
			assert.True(t, verrors.Is(res.Err, tt.kind), "kind %s", verrors.KindOf(res.Err))
			assert.Equal(t, tt.want, res.Err.Error())
		})
	}
}

func TestClassifyFeatureSuffixDefersWithoutData(t *testing.T) {
	caps := fullCaps()
	caps.HasGEX, caps.HasFB = false, false
	c := New(Config{Capabilities: caps})

	// Role-suffix columns are gated by the category fallback, not here.
	assert.Equal(t, Defer, c.Classify("CD19_ab", NewBatch(), Strict).Verdict)
	assert.Equal(t, Defer, c.Classify("IGHM_g_mean", NewBatch(), Strict).Verdict)
}

func TestClassifyNDOncePerBatch(t *testing.T) {
	c := New(Config{Capabilities: fullCaps()})
	st := NewBatch()

	require.Equal(t, Accept, c.Classify("nd3", st, Strict).Verdict)
	assert.Equal(t, "nd3", st.NDToken())

	res := c.Classify("nd7", st, Strict)
	require.Equal(t, Reject, res.Verdict)
	assert.True(t, verrors.Is(res.Err, verrors.DuplicateDirective))
	assert.Equal(t, "Only one instance of the lead variable nd<k> is allowed.", res.Err.Error())
	assert.Equal(t, "nd3", st.NDToken())

	// A new batch starts clean.
	assert.Equal(t, Accept, c.Classify("nd7", NewBatch(), Strict).Verdict)
}

func TestClassifyNilBatchPanics(t *testing.T) {
	c := New(Config{Capabilities: fullCaps()})
	assert.Panics(t, func() { c.Classify("n", nil, Strict) })
}

func TestParseChainBound(t *testing.T) {
	b, err := ParseChainBound("max")
	require.NoError(t, err)
	assert.True(t, b.Unbounded)
	assert.Equal(t, "max", b.String())

	b, err = ParseChainBound("4")
	require.NoError(t, err)
	assert.Equal(t, ChainBound{Max: 4}, b)
	assert.True(t, b.Allows(4))
	assert.False(t, b.Allows(5))
	assert.False(t, b.Allows(0))

	for _, bad := range []string{"0", "-1", "many", ""} {
		_, err := ParseChainBound(bad)
		require.Error(t, err, bad)
		assert.Equal(t, "The only allowed values for PCHAINS are a positive integer and max.", err.Error())
	}
}

func TestAnyCellTypes(t *testing.T) {
	assert.False(t, Capabilities{}.AnyCellTypes())
	assert.False(t, Capabilities{CellTypes: []bool{false}}.AnyCellTypes())
	assert.True(t, Capabilities{CellTypes: []bool{false, true}}.AnyCellTypes())
}
