package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hassan/pyfront/internal/symtab"
)

var showUnused bool

var scopesCmd = &cobra.Command{
	Use:   "scopes <file>",
	Short: "Print the scope tree of a file",
	Long: `Checks a file and prints its scope tree: every scope with the symbols it
binds, their inferred types and flags.

With --unused, local variables of functions and comprehensions that are
never read are listed as well. Module and class names are not reported,
nor are parameters and names starting with an underscore.`,
	Args: cobra.ExactArgs(1),
	RunE: runScopes,
}

func init() {
	scopesCmd.Flags().BoolVar(&showUnused, "unused", false, "list local variables that are never read")
	rootCmd.AddCommand(scopesCmd)
}

func runScopes(cmd *cobra.Command, args []string) error {
	source, filename, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}

	res := newCompiler().Check(source, filename)
	out := cmd.OutOrStdout()
	if res.Table != nil {
		fmt.Fprint(out, res.Table.DebugString())
		if showUnused {
			for _, sym := range unusedLocals(res.Table) {
				fmt.Fprintf(out, "unused: %s '%s' at %s\n", sym.Kind, sym.Name, sym.Pos.LineColumn())
			}
		}
	}
	if !res.OK() {
		newRenderer(cmd.ErrOrStderr()).Render(source, res.Diagnostics)
		return errProblems
	}
	return nil
}

func unusedLocals(table *symtab.Table) []*symtab.Symbol {
	var unused []*symtab.Symbol
	for id := 0; id < table.Len(); id++ {
		scope := table.Scope(symtab.ScopeID(id))
		if scope.IsModule() || scope.IsClass() {
			continue
		}
		for _, sym := range scope.UnusedSymbols() {
			if sym.Kind == symtab.SymbolParameter || strings.HasPrefix(sym.Name, "_") || sym.Rebindable() {
				continue
			}
			unused = append(unused, sym)
		}
	}
	return unused
}
