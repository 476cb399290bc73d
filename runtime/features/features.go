// Package features builds the known feature vocabulary: every column name
// that can be derived from the features declared by the loaded datasets.
//
// A features file record is "id\tname\tcategory". Both the id and the name
// are valid base names, and each expands to its role suffix crossed with the
// statistic suffixes (see core/suffix).
package features

import (
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/opal-lang/varspec/core/invariant"
	"github.com/opal-lang/varspec/core/suffix"
	"github.com/opal-lang/varspec/core/verrors"
)

// Vocabulary is the sorted, deduplicated set of feature column names.
// It is immutable once built.
type Vocabulary struct {
	names []string
}

// Build expands per-dataset feature records into a Vocabulary.
//
// Datasets are expanded concurrently; each goroutine writes only its own
// result slot. When several datasets are malformed the first one in dataset
// order is reported.
func Build(datasets [][]string) (*Vocabulary, error) {
	type slot struct {
		names []string
		err   error
	}
	results := make([]slot, len(datasets))

	var wg sync.WaitGroup
	for i := range datasets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i].names, results[i].err = expandDataset(datasets[i])
		}(i)
	}
	wg.Wait()

	total := 0
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		total += len(r.names)
	}

	merged := make([]string, 0, total)
	for _, r := range results {
		merged = append(merged, r.names...)
	}
	v := &Vocabulary{names: uniqueSort(merged)}

	invariant.Postcondition(sort.StringsAreSorted(v.names), "vocabulary must be sorted")
	return v, nil
}

// FromNames builds a Vocabulary from already expanded names.
func FromNames(names []string) *Vocabulary {
	cp := append([]string(nil), names...)
	return &Vocabulary{names: uniqueSort(cp)}
}

func expandDataset(records []string) ([]string, error) {
	out := make([]string, 0, len(records)*2*len(suffix.GeneStats))
	for _, rec := range records {
		fields := strings.Split(rec, "\t")
		if len(fields) != 3 {
			return nil, verrors.Newf(verrors.MalformedInputFile,
				"Unexpected structure of features file, at this line\n%s\nGiving up.", rec)
		}
		for _, base := range fields[:2] {
			out = suffix.Expand(out, base, fields[2])
		}
	}
	return out, nil
}

func uniqueSort(s []string) []string {
	slices.Sort(s)
	return slices.Compact(s)
}

// Contains reports whether name is a known feature column.
func (v *Vocabulary) Contains(name string) bool {
	i := sort.SearchStrings(v.names, name)
	return i < len(v.names) && v.names[i] == name
}

// Len returns the number of names.
func (v *Vocabulary) Len() int {
	return len(v.names)
}

// Names returns a copy of the sorted names.
func (v *Vocabulary) Names() []string {
	return append([]string(nil), v.names...)
}

// FoldMatches returns every name equal to x under ASCII case folding, in
// vocabulary order.
func (v *Vocabulary) FoldMatches(x string) []string {
	var out []string
	for _, n := range v.names {
		if equalFoldASCII(x, n) {
			out = append(out, n)
		}
	}
	return out
}

// equalFoldASCII compares a and b folding only ASCII letters.
func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
