package config

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/opal-lang/varspec/core/verrors"
	"github.com/opal-lang/varspec/runtime/classify"
	"github.com/opal-lang/varspec/runtime/names"
	"github.com/opal-lang/varspec/runtime/vardef"
)

// Universes collects the dataset, origin, donor, tag and alternate barcode
// field names, sorted and deduplicated.
func (f *File) Universes() *names.Universes {
	u := &names.Universes{}
	for _, d := range f.Datasets {
		u.Datasets = append(u.Datasets, d.Name)
		if d.Origin != "" {
			u.Origins = append(u.Origins, d.Origin)
		}
		if d.Donor != "" {
			u.Donors = append(u.Donors, d.Donor)
		}
		u.Tags = append(u.Tags, d.Tags...)
		u.AltBCFields = append(u.AltBCFields, d.AltBCFields...)
	}
	u.Normalize()
	return u
}

// ClassifierCapabilities converts the capability section. The chain bound
// must already have passed Sanity.
func (f *File) ClassifierCapabilities() (classify.Capabilities, error) {
	bound, err := classify.ParseChainBound(f.Options.PChains)
	if err != nil {
		return classify.Capabilities{}, err
	}
	cellTypes := make([]bool, len(f.Datasets))
	for i, d := range f.Datasets {
		cellTypes[i] = d.CellTypes
	}
	return classify.Capabilities{
		HasGEX:       f.Capabilities.GEX,
		HasFB:        f.Capabilities.FB,
		InternalRun:  f.Capabilities.Internal,
		CellTypes:    cellTypes,
		DatasetCount: len(f.Datasets),
		TopFBMatrix:  f.Capabilities.TopFBMatrix,
		ChainBound:   bound,
	}, nil
}

// Pairs returns the derived variable declarations.
func (f *File) Pairs() []vardef.Pair {
	pairs := make([]vardef.Pair, len(f.VarDefs))
	for i, d := range f.VarDefs {
		pairs[i] = vardef.Pair{Name: d.Name, Source: d.Formula}
	}
	return pairs
}

// LeadAbbrevs returns the abbreviations of "abbr:name" lead columns.
func (f *File) LeadAbbrevs() []string {
	var out []string
	for _, tok := range f.Columns.Lead {
		if abbr, _, ok := strings.Cut(tok, ":"); ok {
			out = append(out, abbr)
		}
	}
	return out
}

// InfoFieldNames returns every info field plus its log10(...) form. Fields
// come from info_fields and from the header of info_file.
func (f *File) InfoFieldNames() ([]string, error) {
	fields := slices.Clone(f.InfoFields)
	if f.InfoFile != "" {
		header, err := readInfoHeader(f.path(f.InfoFile))
		if err != nil {
			return nil, err
		}
		fields = append(fields, header...)
	}

	out := make([]string, 0, 2*len(fields))
	for _, field := range fields {
		out = append(out, field, fmt.Sprintf("log10(%s)", field))
	}
	return out, nil
}

// readInfoHeader reads the CSV header of an info file. The file must carry
// vj_seq1 and vj_seq2, which key the rows and are not fields themselves.
func readInfoHeader(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, verrors.Wrap(verrors.InvalidConfig, fmt.Sprintf("cannot read info file %s", path), err)
	}
	defer func() { _ = file.Close() }()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, verrors.Newf(verrors.MalformedInputFile, "The file %s is empty.", path)
	}
	if err != nil {
		return nil, verrors.Wrap(verrors.MalformedInputFile, fmt.Sprintf("cannot parse info file %s", path), err)
	}
	if !slices.Contains(header, "vj_seq1") || !slices.Contains(header, "vj_seq2") {
		return nil, verrors.Newf(verrors.MalformedInputFile,
			"The CSV file %s needs to have fields vj_seq1 and vj_seq2.", path)
	}

	var fields []string
	for _, h := range header {
		if h != "vj_seq1" && h != "vj_seq2" {
			fields = append(fields, h)
		}
	}
	return fields, nil
}
