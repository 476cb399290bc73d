// Package config loads run files: the datasets, capabilities, options and
// column lists a validation run works on.
//
// A run file is YAML (or JSON, which is valid YAML):
//
//	version: 1.0.0
//	datasets:
//	  - name: s1
//	    origin: blood
//	    donor: d1
//	    features_file: s1/features.tsv
//	capabilities: {gex: true, fb: false}
//	columns:
//	  lvars: [n, IGHM_g]
//
// Loading checks the document against an embedded JSON Schema and the
// version against semantic versioning before decoding.
package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opal-lang/varspec/core/verrors"
)

// File is a decoded run file.
type File struct {
	Version      string       `yaml:"version"`
	Datasets     []Dataset    `yaml:"datasets"`
	Capabilities Capabilities `yaml:"capabilities"`
	Options      Options      `yaml:"options"`
	InfoFields   []string     `yaml:"info_fields"`
	InfoFile     string       `yaml:"info_file"`
	VarDefs      []VarDef     `yaml:"var_def"`
	Columns      Columns      `yaml:"columns"`
	AllBC        []string     `yaml:"all_bc"`

	// Dir resolves relative paths. Load sets it to the run file's directory.
	Dir string `yaml:"-"`
}

// Dataset describes one loaded dataset.
type Dataset struct {
	Name         string   `yaml:"name"`
	Origin       string   `yaml:"origin"`
	Donor        string   `yaml:"donor"`
	Tags         []string `yaml:"tags"`
	Features     []string `yaml:"features"`      // tab-separated id, name, category
	FeaturesFile string   `yaml:"features_file"` // same records, one per line
	CellTypes    bool     `yaml:"cell_types"`    // cell type annotation present
	AltBCFields  []string `yaml:"alt_bc_fields"`
}

// Capabilities says which kinds of data were loaded.
type Capabilities struct {
	GEX         bool `yaml:"gex"`
	FB          bool `yaml:"fb"`
	Internal    bool `yaml:"internal"`
	TopFBMatrix bool `yaml:"top_fb_matrix"`
}

// Options are the option values the sanity checks look at.
type Options struct {
	PChains   string   `yaml:"pchains"`
	PCell     bool     `yaml:"pcell"`
	PBarcode  bool     `yaml:"pbarcode"`
	PColsShow []string `yaml:"pcols_show"`
	Dataset   []string `yaml:"dataset"` // dataset filter
	Fuzzy     bool     `yaml:"fuzzy"`
	Grouping  Grouping `yaml:"grouping"`
}

// Grouping configures clonotype grouping.
type Grouping struct {
	Style       string `yaml:"style"` // "symmetric" (default) or "asymmetric"
	Center      string `yaml:"center"`
	DistFormula string `yaml:"dist_formula"`
	DistBound   string `yaml:"dist_bound"`
}

// VarDef is one derived variable declaration.
type VarDef struct {
	Name    string `yaml:"name"`
	Formula string `yaml:"formula"`
}

// Columns are the requested column lists.
type Columns struct {
	Lead      []string `yaml:"lvars"`
	Chain     []string `yaml:"cvars"`
	Global    []string `yaml:"gvars"`
	Parseable []string `yaml:"pcols"`
}

// Load reads and checks a run file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, verrors.Wrap(verrors.InvalidConfig, fmt.Sprintf("cannot read run file %s", path), err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	f.Dir = filepath.Dir(path)
	return f, nil
}

// Parse checks and decodes run file contents.
func Parse(data []byte) (*File, error) {
	if err := validateDocument(data); err != nil {
		return nil, verrors.Wrap(verrors.InvalidConfig, "run file does not match the schema", err)
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, verrors.Wrap(verrors.InvalidConfig, "cannot decode run file", err)
	}
	if err := checkVersion(f.Version); err != nil {
		return nil, verrors.Wrap(verrors.InvalidConfig, "bad run file version", err)
	}
	if f.Options.PChains == "" {
		f.Options.PChains = "max"
	}
	if f.Options.Grouping.Style == "" {
		f.Options.Grouping.Style = "symmetric"
	}
	return &f, nil
}

// path resolves p against the run file directory.
func (f *File) path(p string) string {
	if filepath.IsAbs(p) || f.Dir == "" {
		return p
	}
	return filepath.Join(f.Dir, p)
}

// Inputs returns the paths of the files the run file refers to.
func (f *File) Inputs() []string {
	var out []string
	for _, d := range f.Datasets {
		if d.FeaturesFile != "" {
			out = append(out, f.path(d.FeaturesFile))
		}
	}
	if f.InfoFile != "" {
		out = append(out, f.path(f.InfoFile))
	}
	return out
}

// FeatureDecls returns each dataset's feature records, reading
// features_file where given. Blank lines are skipped.
func (f *File) FeatureDecls() ([][]string, error) {
	decls := make([][]string, len(f.Datasets))
	for i, d := range f.Datasets {
		if d.FeaturesFile == "" {
			decls[i] = d.Features
			continue
		}
		lines, err := readLines(f.path(d.FeaturesFile))
		if err != nil {
			return nil, verrors.Wrap(verrors.InvalidConfig,
				fmt.Sprintf("cannot read features file for dataset %s", d.Name), err)
		}
		decls[i] = lines
	}
	return decls, nil
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var lines []string
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}
