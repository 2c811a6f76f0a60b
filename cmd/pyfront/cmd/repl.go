package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hassan/pyfront/internal/diag"
	"github.com/hassan/pyfront/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive checker",
	Long: `Starts an interactive session. Every statement entered is checked
together with everything accepted before it; the inferred types of
expressions and new names are printed, and rejected input is discarded.

Compound statements continue until an empty line. Type ':help' for
session commands.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return repl.Start(newCompiler(), os.Stdout, Version, diag.UseColor(appConfig.Output.Color, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
