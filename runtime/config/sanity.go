package config

import (
	"slices"
	"strconv"
	"strings"

	"github.com/opal-lang/varspec/core/verrors"
	"github.com/opal-lang/varspec/runtime/classify"
)

// Sanity checks option combinations that the schema cannot express. It
// returns the first violation.
func (f *File) Sanity() error {
	checks := []func() error{
		f.checkGrouping,
		f.checkPColsShow,
		f.checkPChains,
		f.checkDatasetFilter,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func mismatch(msg string) error {
	return verrors.New(verrors.StructuralMismatch, msg)
}

func (f *File) checkGrouping() error {
	g := f.Options.Grouping
	anySet := g.Center != "" || g.DistFormula != "" || g.DistBound != ""

	if g.Style == "asymmetric" && (g.Center == "" || g.DistFormula == "" || g.DistBound == "") {
		return mismatch("If the AGROUP option is used to specify asymmetric grouping, then all\n" +
			"of the options AG_CENTER, AG_DIST_FORMULA and AG_DIST_BOUND must also be specified.")
	}
	if anySet && g.Style == "symmetric" {
		return mismatch("If any of the asymmetric grouping options AG_CENTER or AG_DIST_FORMULA or\n" +
			"AG_DIST_BOUND are specified, then the option AGROUP must also be specified, to turn on " +
			"asymmetric grouping.")
	}
	if g.Style != "asymmetric" {
		return nil
	}
	if g.Center != "from_filters" && g.Center != "copy_filters" {
		return mismatch("The only allowed forms for AG_CENTER are AG_CENTER=from_filters\n" +
			"and AG_CENTER=copy_filters.")
	}
	if g.DistFormula != "cdr3_edit_distance" {
		return mismatch("The only allowed form for AG_DIST_FORMULA is cdr3_edit_distance.")
	}
	if !validDistBound(g.DistBound) {
		return mismatch("The only allowed forms for AG_DIST_BOUND are top=n, where n is an\n" +
			"integer, and max=d, where d is a number.")
	}
	return nil
}

func validDistBound(b string) bool {
	if n, ok := strings.CutPrefix(b, "top="); ok {
		_, err := strconv.ParseUint(n, 10, 64)
		return err == nil
	}
	if d, ok := strings.CutPrefix(b, "max="); ok {
		_, err := strconv.ParseFloat(d, 64)
		return err == nil
	}
	return false
}

func (f *File) checkPColsShow() error {
	if len(f.Options.PColsShow) > 0 && len(f.Options.PColsShow) != len(f.Columns.Parseable) {
		return mismatch("The number of fields provided to PCOLS_SHOW has to match that for PCOLS.")
	}
	return nil
}

func (f *File) checkPChains() error {
	_, err := classify.ParseChainBound(f.Options.PChains)
	return err
}

func (f *File) checkDatasetFilter() error {
	for _, d := range f.Options.Dataset {
		if !slices.ContainsFunc(f.Datasets, func(ds Dataset) bool { return ds.Name == d }) {
			return verrors.Newf(verrors.StructuralMismatch,
				"DATASET argument has %s in it, which is not a known dataset name.", d).WithToken(d)
		}
	}
	return nil
}
