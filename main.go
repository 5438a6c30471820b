// Package main implements unstablegen, a code generator that gates Go API
// behind per-feature build tags.
//
// A declaration marked with the `//unstable:api` directive is emitted twice:
// exported, in a file compiled only with the feature's build tag, and
// unexported, in a file compiled only without it. Code in the package keeps
// compiling either way while importers only see the API when they opt in.
//
// Usage:
//
//	unstablegen [flags] [dir...]
//	unstablegen features [flags] [dir...]
//
// Flags:
//
//	--config <path>
//	    Configuration file (default: nearest unstablegen.toml)
//	--source-tag <tag>
//	    Build tag that marks annotated sources (default: "unstablegen")
//	--jobs <n>
//	    Files processed at once (default: GOMAXPROCS)
//	--dry-run
//	    Report what would be written without writing
//	--no-aliases
//	    Do not declare hidden names in the enabled build
//
// Example:
//
//	//go:generate go run github.com/ecordell/unstablegen .
//
// Directive Format:
//
//	//unstable:api
//	//unstable:api feature:"risky-function"
//	//unstable:api feature:"risky-function" issue:"#123"
//
// The first form gates the item behind the catch-all `unstable` feature
// (build tag `unstable`); the others behind `unstable-risky-function`
// (build tag `unstable_risky_function`).
//
// Example source:
//
//	//go:build unstablegen
//
//	package risky
//
//	// RiskyFunction does risky things.
//	//unstable:api feature:"risky-function"
//	func RiskyFunction() {}
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ecordell/unstablegen/config"
	"github.com/ecordell/unstablegen/diag"
	"github.com/ecordell/unstablegen/generate"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// flags shared by every command.
type rootFlags struct {
	configPath string
	sourceTag  string
	jobs       int
	verbose    bool
	quiet      bool

	dryRun    bool
	noAliases bool
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "unstablegen [flags] [dir...]",
		Short:         "Gate exported Go API behind per-feature build tags",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load(cmd)
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}
			res, err := generate.New(cfg).Run(cmd.Context(), args...)
			if res != nil {
				printWarnings(cmd.ErrOrStderr(), res.Warnings)
				if cfg.DryRun {
					printDryRun(cmd.OutOrStdout(), res)
				}
			}
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "configuration file (default: nearest "+config.FileName+")")
	pf.StringVar(&f.sourceTag, "source-tag", "", "build tag that marks annotated sources")
	pf.IntVar(&f.jobs, "jobs", 0, "files processed at once (default: GOMAXPROCS)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "log every processed item")
	pf.BoolVarP(&f.quiet, "quiet", "q", false, "only log errors")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "report what would be written without writing")
	cmd.Flags().BoolVar(&f.noAliases, "no-aliases", false, "do not declare hidden names in the enabled build")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(newFeaturesCmd(f))
	return cmd
}

// load builds the configuration: flags over the configuration file over
// defaults. It also installs the logger.
func (f *rootFlags) load(cmd *cobra.Command) (*config.Config, error) {
	generate.SetLogger(newLogger(f.verbose, f.quiet))

	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.Load(f.configPath)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("source-tag") {
		if f.sourceTag == "" {
			return nil, errors.New("--source-tag must not be empty")
		}
		cfg.SourceTag = f.sourceTag
	}
	if flags.Changed("jobs") {
		if f.jobs < 0 {
			return nil, errors.New("--jobs must not be negative")
		}
		cfg.Jobs = f.jobs
	}
	if flags.Lookup("dry-run") != nil && flags.Changed("dry-run") {
		cfg.DryRun = f.dryRun
	}
	if flags.Lookup("no-aliases") != nil && flags.Changed("no-aliases") {
		cfg.InternalAliases = !f.noAliases
	}
	if cfg.Path != "" {
		generate.Logger().Debug("loaded configuration", zap.String("path", cfg.Path))
	}
	return cfg, nil
}

func newLogger(verbose, quiet bool) *zap.Logger {
	level := zapcore.InfoLevel
	switch {
	case verbose:
		level = zapcore.DebugLevel
	case quiet:
		level = zapcore.ErrorLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level.SetLevel(level)
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	faintColor   = color.New(color.Faint)
)

// report prints every error in err, one per line, and returns err.
func report(w io.Writer, err error) error {
	for _, e := range multierr.Errors(err) {
		var d *diag.Diagnostic
		if errors.As(e, &d) {
			printDiagnostic(w, d)
			continue
		}
		fmt.Fprintf(w, "%s: %v\n", errorColor.Sprint("error"), e)
	}
	return err
}

func printWarnings(w io.Writer, diags diag.List) {
	for _, d := range diags {
		printDiagnostic(w, d)
	}
}

func printDiagnostic(w io.Writer, d *diag.Diagnostic) {
	sev := errorColor.Sprint(d.Severity)
	if d.Severity == diag.SevWarning {
		sev = warningColor.Sprint(d.Severity)
	}
	if d.Pos.IsValid() {
		fmt.Fprintf(w, "%s: %s: %s %s\n", d.Pos, sev, d.Message, faintColor.Sprintf("[%s]", d.Code))
		return
	}
	fmt.Fprintf(w, "%s: %s %s\n", sev, d.Message, faintColor.Sprintf("[%s]", d.Code))
}

func printDryRun(w io.Writer, res *generate.Result) {
	for _, f := range res.Files {
		fmt.Fprintf(w, "would write %s\n", f.Path)
	}
	for _, path := range res.Removed {
		fmt.Fprintf(w, "would remove %s\n", path)
	}
}
