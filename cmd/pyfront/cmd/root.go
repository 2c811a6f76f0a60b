// Package cmd implements the pyfront command tree.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hassan/pyfront/internal/compiler"
	"github.com/hassan/pyfront/internal/config"
	"github.com/hassan/pyfront/internal/diag"
)

var (
	cfgFile string
	verbose bool

	appConfig *config.Config
	logger    *slog.Logger
)

// errProblems is returned when the input had diagnostics. They have
// already been printed, so Execute does not print it again.
var errProblems = errors.New("problems found")

var rootCmd = &cobra.Command{
	Use:   "pyfront",
	Short: "pyfront - front end for a Python-syntax language",
	Long: `pyfront runs the front end of a compiler for a Python-syntax language:
an indentation-sensitive lexer, a recursive-descent parser with error
recovery, and a semantic analyzer that resolves names against a scope tree.

Pass "-" as a file to read from standard input.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errProblems) {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $PYFRONT_CONFIG or ./pyfront.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline timings to stderr")
}

// setup loads the configuration and creates the logger before any
// subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		appConfig, err = config.Load(cfgFile)
	} else {
		appConfig, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	level := appConfig.Log.Level
	if verbose {
		level = "debug"
	}
	logger = newLogger(cmd.ErrOrStderr(), level)
	logger.Debug("config loaded", "file", cfgFile, "workers", appConfig.Batch.Workers)
	return nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func newCompiler() *compiler.Compiler {
	return compiler.New(appConfig, logger)
}

func newRenderer(w io.Writer) *diag.Renderer {
	return diag.NewRenderer(w, diag.UseColor(appConfig.Output.Color, w))
}

// readSource reads a file argument, or standard input for "-".
func readSource(cmd *cobra.Command, path string) (string, string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), path, nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}
