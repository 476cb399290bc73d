// Command varspec checks report column lists and derived variables declared
// in a run file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opal-lang/varspec/runtime"
	"github.com/opal-lang/varspec/runtime/config"
)

// app holds the global flags and the process streams.
type app struct {
	file    string
	debug   bool
	noColor bool
	fuzzy   bool
	format  string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		FormatError(a.stderr, err, ShouldUseColor(a.noColor))
		stop()
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "varspec",
		Short:         "Validate report column variables and derived variables",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	rootCmd.PersistentFlags().StringVarP(&a.file, "file", "f", "varspec.yaml", "Path to the run file (- for stdin)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug output")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&a.fuzzy, "fuzzy", false, "Suggest fuzzy matches for unknown variables")
	rootCmd.PersistentFlags().StringVar(&a.format, "format", "text", "Output format: text, json or cbor")

	rootCmd.AddCommand(newCheckCmd(a), newResolveCmd(a), newFeaturesCmd(a))
	return rootCmd
}

func newCheckCmd(a *app) *cobra.Command {
	var watchFlag bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check every column list and derived variable in the run file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(a.format); err != nil {
				return err
			}
			if !watchFlag {
				return a.check(cmd.Context())
			}
			if a.file == "-" {
				return &CLIError{
					Type:    "usage",
					Message: "cannot watch standard input",
					Hint:    "Pass the run file path with --file",
				}
			}
			return watch(cmd.Context(), a, func() error { return a.check(cmd.Context()) })
		},
	}
	cmd.Flags().BoolVar(&watchFlag, "watch", false, "Re-run the check whenever the run file or its inputs change")
	return cmd
}

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Resolve derived variables and print their inlined formulas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(a.format); err != nil {
				return err
			}
			f, err := a.load()
			if err != nil {
				return err
			}
			res, err := runtime.Resolve(f)
			if err != nil {
				return err
			}
			if a.format != "text" {
				return writeStructured(a.stdout, a.format, res)
			}
			printResolution(a.stdout, res, ShouldUseColor(a.noColor))
			return nil
		},
	}
}

func newFeaturesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "List every feature column name the datasets provide",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(a.format); err != nil {
				return err
			}
			f, err := a.load()
			if err != nil {
				return err
			}
			vocab, err := runtime.BuildVocabulary(f)
			if err != nil {
				return err
			}
			if a.format != "text" {
				return writeStructured(a.stdout, a.format, vocab.Names())
			}
			for _, name := range vocab.Names() {
				_, _ = fmt.Fprintln(a.stdout, name)
			}
			return nil
		},
	}
}

// check runs one full check and prints the report.
func (a *app) check(ctx context.Context) error {
	f, err := a.load()
	if err != nil {
		return err
	}
	report, err := runtime.Check(ctx, f, runtime.Options{
		Fuzzy:  a.fuzzy,
		Logger: runtime.NewLogger(a.stderr, a.debug),
	})
	if err != nil {
		return err
	}
	if a.format != "text" {
		return writeStructured(a.stdout, a.format, report)
	}
	printReport(a.stdout, a.file, report, ShouldUseColor(a.noColor))
	return nil
}

// load reads the run file, or standard input for "-". Relative paths in a
// run file read from standard input resolve against the working directory.
func (a *app) load() (*config.File, error) {
	if a.file != "-" {
		return config.Load(a.file)
	}
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return nil, &CLIError{Type: "io", Message: "cannot read standard input", Details: err.Error()}
	}
	return config.Parse(data)
}

func checkFormat(format string) error {
	switch format {
	case "text", "json", "cbor":
		return nil
	}
	return &CLIError{
		Type:    "usage",
		Message: fmt.Sprintf("unsupported format %q", format),
		Hint:    "Use --format text, json or cbor",
	}
}
