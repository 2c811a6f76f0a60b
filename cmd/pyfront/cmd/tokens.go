package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hassan/pyfront/internal/diag"
	"github.com/hassan/pyfront/internal/lexer"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Print the token stream of a file",
	Long: `Tokenizes a file and prints one token per line with its position,
type and source text. INDENT, DEDENT and NEWLINE tokens are included.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	source, filename, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}

	tokens, err := newCompiler().Tokenize(source, filename)
	if err != nil {
		if d, ok := diag.FromError(err); ok {
			newRenderer(cmd.ErrOrStderr()).Render(source, []diag.Diagnostic{d})
			return errProblems
		}
		return err
	}

	out := cmd.OutOrStdout()
	for _, tok := range tokens {
		fmt.Fprintf(out, "%-8s %-12s %s\n", tok.Position.LineColumn(), tok.Type, tokenText(tok))
	}
	return nil
}

func tokenText(tok lexer.Token) string {
	switch tok.Type {
	case lexer.TokenNewline, lexer.TokenIndent, lexer.TokenDedent, lexer.TokenEOF:
		return ""
	case lexer.TokenString:
		return fmt.Sprintf("%s %q", tok.Lexeme, tok.Value)
	}
	return tok.Lexeme
}
