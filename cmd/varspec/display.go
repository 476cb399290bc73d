package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/opal-lang/varspec/runtime"
)

// printReport renders a successful check.
func printReport(w io.Writer, file string, r *runtime.Report, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s %s\n", Colorize("ok", ColorGreen, useColor), file)
	_, _ = fmt.Fprintf(w, "  %-12s %d names\n", "features", r.Features)
	for _, l := range r.Lists {
		line := fmt.Sprintf("  %-12s %d tokens", l.Category, l.Tokens)
		if n := len(l.Deferred); n > 0 {
			line += Colorize(fmt.Sprintf(" (%d by lookup)", n), ColorGray, useColor)
		}
		_, _ = fmt.Fprintln(w, line)
	}
	if r.Derived != nil && len(r.Derived.Defs) > 0 {
		_, _ = fmt.Fprintf(w, "  %-12s %d (%s)\n", "var_def", len(r.Derived.Defs), r.Derived.Fingerprint)
	}
}

// printResolution renders resolved derived variables.
func printResolution(w io.Writer, r *runtime.Resolution, useColor bool) {
	for _, d := range r.Defs {
		_, _ = fmt.Fprintf(w, "%s = %s\n", Colorize(d.Name, ColorCyan, useColor), d.Text)
	}
	if len(r.FreeVars) > 0 {
		_, _ = fmt.Fprintf(w, "%s %s\n", Colorize("uses:", ColorGray, useColor), strings.Join(r.FreeVars, ", "))
	}
	for _, f := range r.AllBC {
		_, _ = fmt.Fprintf(w, "%s %s\n", Colorize("all_bc:", ColorGray, useColor), f)
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", Colorize("fingerprint:", ColorGray, useColor), r.Fingerprint)
}

// writeStructured encodes v as indented JSON or canonical CBOR.
func writeStructured(w io.Writer, format string, v any) error {
	var data []byte
	var err error
	switch format {
	case "json":
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	case "cbor":
		var em cbor.EncMode
		em, err = cbor.CanonicalEncOptions().EncMode()
		if err == nil {
			data, err = em.Marshal(v)
		}
	default:
		return checkFormat(format)
	}
	if err != nil {
		return &CLIError{Type: "output", Message: fmt.Sprintf("cannot encode %s output", format), Details: err.Error()}
	}
	_, err = w.Write(data)
	return err
}
