package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hassan/pyfront/internal/parser/ast"
)

var parseFormat string

var dumpers = map[string]func(io.Writer, ast.Node) error{
	"text": ast.Fprint,
	"json": ast.FprintJSON,
	"yaml": ast.FprintYAML,
}

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Print the syntax tree of a file",
	Long: `Parses a file and prints its syntax tree as indented text, JSON or YAML.

The parser recovers from errors statement by statement; when there are
errors the tree holds every statement that parsed cleanly and the errors
are printed to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "output format: text, json or yaml (default from config)")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	format := parseFormat
	if format == "" {
		format = appConfig.Output.Format
	}
	dump, ok := dumpers[format]
	if !ok {
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}

	source, filename, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}

	res := newCompiler().Parse(source, filename)
	if res.Module != nil {
		if err := dump(cmd.OutOrStdout(), res.Module); err != nil {
			return err
		}
	}
	if !res.OK() {
		newRenderer(cmd.ErrOrStderr()).Render(source, res.Diagnostics)
		return errProblems
	}
	return nil
}
