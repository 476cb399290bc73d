package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/opal-lang/varspec/core/verrors"
	"github.com/opal-lang/varspec/runtime/vardef"
)

// CLIError represents a formatted CLI error with context
type CLIError struct {
	Type    string // "usage", "io", "output"
	Message string
	Details string // Additional context
	Hint    string // How to fix it
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString("\n")
		b.WriteString(e.Details)
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	var cycle *vardef.CycleError
	var verr *verrors.Error
	var cliErr *CLIError
	switch {
	case errors.As(err, &cycle):
		formatCycleError(w, cycle, useColor)
	case errors.As(err, &cliErr):
		formatCLIError(w, cliErr, useColor)
	case errors.As(err, &verr):
		formatValidationError(w, verr, useColor)
	default:
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
	}
}

// formatValidationError prints the diagnostic text unchanged, followed by
// its kind and cause.
func formatValidationError(w io.Writer, err *verrors.Error, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)
	_, _ = fmt.Fprintf(w, "%s\n", Colorize("  Kind: "+string(err.Kind), ColorGray, useColor))
	if err.Token != "" {
		_, _ = fmt.Fprintf(w, "%s\n", Colorize("  Token: "+err.Token, ColorGray, useColor))
	}
	if err.Cause != nil {
		_, _ = fmt.Fprintf(w, "%s\n", Colorize("  Cause: "+err.Cause.Error(), ColorGray, useColor))
	}
}

func formatCycleError(w io.Writer, err *vardef.CycleError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
	_, _ = fmt.Fprintf(w, "%s\n", Colorize("  Cycle: "+err.Path(), ColorYellow, useColor))
}

// formatCLIError formats CLI errors
func formatCLIError(w io.Writer, err *CLIError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)

	if err.Details != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", err.Details)
	}

	if err.Hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), err.Hint)
	}
}
