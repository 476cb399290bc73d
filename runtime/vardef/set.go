package vardef

import (
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// Set is the resolved definitions, in declaration order.
type Set struct {
	defs  []*Def
	index map[string]int
}

// Len returns the number of definitions.
func (s *Set) Len() int {
	return len(s.defs)
}

// Names returns the defined names in declaration order.
func (s *Set) Names() []string {
	out := make([]string, len(s.defs))
	for i, d := range s.defs {
		out[i] = d.Name
	}
	return out
}

// Defs returns the definitions in declaration order.
func (s *Set) Defs() []*Def {
	return append([]*Def(nil), s.defs...)
}

// Lookup returns the definition of name.
func (s *Set) Lookup(name string) (*Def, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.defs[i], true
}

// FreeVars returns the sorted base variables the definitions depend on.
// Defined names never appear: they have all been inlined.
func (s *Set) FreeVars() []string {
	seen := make(map[string]struct{})
	for _, d := range s.defs {
		for _, v := range d.Tree.Vars() {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// InlineFields replaces every field naming a definition with its inlined
// formula text. Other fields are copied unchanged.
func (s *Set) InlineFields(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		if d, ok := s.Lookup(f); ok {
			out[i] = d.Text
		} else {
			out[i] = f
		}
	}
	return out
}

// ValidateReferences calls check for each base variable of each definition,
// in declaration order, and returns the first error.
func (s *Set) ValidateReferences(check func(name string) error) error {
	for _, d := range s.defs {
		for _, v := range d.Tree.Vars() {
			if err := check(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// CanonicalDef is the serialized form of one definition.
type CanonicalDef struct {
	Name string `cbor:"1,keyasint" json:"name"`
	Text string `cbor:"2,keyasint" json:"text"`
}

// Canonical returns the definitions sorted by name.
func (s *Set) Canonical() []CanonicalDef {
	out := make([]CanonicalDef, len(s.defs))
	for i, d := range s.defs {
		out[i] = CanonicalDef{Name: d.Name, Text: d.Text}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// MarshalBinary produces the deterministic CBOR encoding of Canonical.
func (s *Set) MarshalBinary() ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}
	data, err := encMode.Marshal(s.Canonical())
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// Fingerprint is the BLAKE2b-256 hash of MarshalBinary, formatted as
// "blake2b:<hex>". It does not depend on declaration order.
func (s *Set) Fingerprint() (string, error) {
	data, err := s.MarshalBinary()
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(data)
	return fmt.Sprintf("blake2b:%x", sum), nil
}
