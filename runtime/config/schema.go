package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://run.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// runSchema compiles the embedded schema on first use.
func runSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if compiler.Formats == nil {
			compiler.Formats = make(map[string]func(interface{}) bool)
		}
		compiler.Formats["semver"] = func(v interface{}) bool {
			s, ok := v.(string)
			if !ok {
				return true // Type validation happens separately
			}
			return semver.IsValid(canonicalVersion(s))
		}
		compiler.LoadURL = func(url string) (io.ReadCloser, error) {
			return nil, fmt.Errorf("remote $ref not allowed: %s", url)
		}
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// validateDocument checks raw YAML or JSON against the run schema. The
// document is normalized through encoding/json so the validator only sees
// JSON types.
func validateDocument(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	normalized, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("run file is not representable as JSON: %w", err)
	}
	var value interface{}
	dec := json.NewDecoder(bytes.NewReader(normalized))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return err
	}

	schema, err := runSchema()
	if err != nil {
		return fmt.Errorf("run schema compilation failed: %w", err)
	}
	return schema.Validate(value)
}

// canonicalVersion adds the "v" prefix semver requires.
func canonicalVersion(s string) string {
	if !strings.HasPrefix(s, "v") {
		return "v" + s
	}
	return s
}

// checkVersion accepts any valid v1 semantic version.
func checkVersion(version string) error {
	v := canonicalVersion(version)
	if !semver.IsValid(v) {
		return fmt.Errorf("version %q is not a semantic version", version)
	}
	if semver.Major(v) != "v1" {
		return fmt.Errorf("unsupported run file version %s (want v1.x.y)", version)
	}
	return nil
}
