// Package names resolves n_<name> columns, which count cells belonging to a
// named dataset, origin, donor or tag. The name must identify exactly one
// of those.
package names

import (
	"slices"
	"strings"

	"github.com/opal-lang/varspec/core/verrors"
)

const readingHint = `Suggested reading: "enclone help input" and "enclone help glossary".`

// Universes holds the four name sets an n_<name> column can refer to, plus
// the alternate barcode field names.
type Universes struct {
	Datasets    []string
	Origins     []string
	Donors      []string
	Tags        []string
	AltBCFields []string
}

// Normalize sorts and deduplicates every set in place.
func (u *Universes) Normalize() {
	for _, s := range []*[]string{&u.Datasets, &u.Origins, &u.Donors, &u.Tags, &u.AltBCFields} {
		*s = uniqueSort(*s)
	}
}

// Match records which universes contain a name.
type Match struct {
	Dataset bool
	Origin  bool
	Donor   bool
	Tag     bool
}

// Count returns the number of universes that matched.
func (m Match) Count() int {
	n := 0
	for _, b := range []bool{m.Dataset, m.Origin, m.Donor, m.Tag} {
		if b {
			n++
		}
	}
	return n
}

// Lookup reports which universes contain name.
func (u *Universes) Lookup(name string) Match {
	return Match{
		Dataset: contains(u.Datasets, name),
		Origin:  contains(u.Origins, name),
		Donor:   contains(u.Donors, name),
		Tag:     contains(u.Tags, name),
	}
}

// IsAltBCField reports whether name is an alternate barcode field.
func (u *Universes) IsAltBCField(name string) bool {
	return contains(u.AltBCFields, name)
}

// Resolve checks an n_<name> token used as a column of the given category
// ("lead" or "parseable"). It returns nil when the name identifies exactly
// one universe.
func (u *Universes) Resolve(category, token string) error {
	name := strings.TrimPrefix(token, "n_")
	m := u.Lookup(name)

	reject := func(kind verrors.Kind, what string) error {
		return verrors.Newf(kind, "You've used the %s variable %s, and yet %s %s\n\n%s",
			category, token, name, what, readingHint).WithToken(token)
	}

	switch {
	case m.Count() == 0:
		return reject(verrors.NotAName, "does not name a dataset, nor an origin,\nnor a donor, nor a tag.")
	case m.Dataset && m.Origin && m.Donor:
		return reject(verrors.AmbiguousName, "names a dataset, an origin, and a donor.  That's ambiguous.")
	case m.Dataset && m.Origin:
		return reject(verrors.AmbiguousName, "names a dataset and an origin.  That's ambiguous.")
	case m.Dataset && m.Donor:
		return reject(verrors.AmbiguousName, "names a dataset and a donor.  That's ambiguous.")
	case m.Origin && m.Donor:
		return reject(verrors.AmbiguousName, "names an origin and a donor.  That's ambiguous.")
	case m.Count() != 1:
		return reject(verrors.AmbiguousName, "names a tag and also a dataset, origin or donor.\nThat's ambiguous.")
	}
	return nil
}

func contains(s []string, x string) bool {
	return slices.Contains(s, x)
}

func uniqueSort(s []string) []string {
	slices.Sort(s)
	return slices.Compact(s)
}
