package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/varspec/core/verrors"
)

func baseFile() *File {
	return &File{
		Version:  "1.0.0",
		Datasets: []Dataset{{Name: "s1"}, {Name: "s2"}},
		Options:  Options{PChains: "max", Grouping: Grouping{Style: "symmetric"}},
	}
}

func TestSanityAccepts(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*File)
	}{
		{"defaults", func(*File) {}},
		{"asymmetric top", func(f *File) {
			f.Options.Grouping = Grouping{Style: "asymmetric", Center: "from_filters", DistFormula: "cdr3_edit_distance", DistBound: "top=5"}
		}},
		{"asymmetric max", func(f *File) {
			f.Options.Grouping = Grouping{Style: "asymmetric", Center: "copy_filters", DistFormula: "cdr3_edit_distance", DistBound: "max=2.5"}
		}},
		{"pcols_show matches", func(f *File) {
			f.Columns.Parseable = []string{"n", "u1"}
			f.Options.PColsShow = []string{"count", "umis"}
		}},
		{"numeric pchains", func(f *File) { f.Options.PChains = "3" }},
		{"dataset filter", func(f *File) { f.Options.Dataset = []string{"s2"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := baseFile()
			tt.apply(f)
			assert.NoError(t, f.Sanity())
		})
	}
}

func TestSanityRejects(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*File)
		want  string
	}{
		{
			name:  "asymmetric incomplete",
			apply: func(f *File) { f.Options.Grouping = Grouping{Style: "asymmetric", Center: "from_filters"} },
			want: "If the AGROUP option is used to specify asymmetric grouping, then all\n" +
				"of the options AG_CENTER, AG_DIST_FORMULA and AG_DIST_BOUND must also be specified.",
		},
		{
			name:  "asymmetric options without style",
			apply: func(f *File) { f.Options.Grouping.DistBound = "top=1" },
			want: "If any of the asymmetric grouping options AG_CENTER or AG_DIST_FORMULA or\n" +
				"AG_DIST_BOUND are specified, then the option AGROUP must also be specified, to turn on asymmetric grouping.",
		},
		{
			name: "bad center",
			apply: func(f *File) {
				f.Options.Grouping = Grouping{Style: "asymmetric", Center: "middle", DistFormula: "cdr3_edit_distance", DistBound: "top=1"}
			},
			want: "The only allowed forms for AG_CENTER are AG_CENTER=from_filters\nand AG_CENTER=copy_filters.",
		},
		{
			name: "bad formula",
			apply: func(f *File) {
				f.Options.Grouping = Grouping{Style: "asymmetric", Center: "from_filters", DistFormula: "hamming", DistBound: "top=1"}
			},
			want: "The only allowed form for AG_DIST_FORMULA is cdr3_edit_distance.",
		},
		{
			name: "bad bound",
			apply: func(f *File) {
				f.Options.Grouping = Grouping{Style: "asymmetric", Center: "from_filters", DistFormula: "cdr3_edit_distance", DistBound: "top=x"}
			},
			want: "The only allowed forms for AG_DIST_BOUND are top=n, where n is an\ninteger, and max=d, where d is a number.",
		},
		{
			name: "pcols_show length",
			apply: func(f *File) {
				f.Columns.Parseable = []string{"n"}
				f.Options.PColsShow = []string{"a", "b"}
			},
			want: "The number of fields provided to PCOLS_SHOW has to match that for PCOLS.",
		},
		{
			name:  "pchains",
			apply: func(f *File) { f.Options.PChains = "all" },
			want:  "The only allowed values for PCHAINS are a positive integer and max.",
		},
		{
			name:  "dataset filter",
			apply: func(f *File) { f.Options.Dataset = []string{"s1", "s9"} },
			want:  "DATASET argument has s9 in it, which is not a known dataset name.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := baseFile()
			tt.apply(f)
			err := f.Sanity()
			require.Error(t, err)
			assert.True(t, verrors.Is(err, verrors.StructuralMismatch))
			assert.Equal(t, tt.want, err.Error())
		})
	}
}
