// Package repl provides an interactive checker.
//
// Every accepted input is appended to a session module and the whole
// module is checked again, so later inputs see earlier bindings. Input
// that fails any stage is reported and discarded; the session module
// always checks cleanly.
package repl

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hassan/pyfront/internal/compiler"
	"github.com/hassan/pyfront/internal/diag"
	"github.com/hassan/pyfront/internal/lexer"
	"github.com/hassan/pyfront/internal/parser/ast"
	"github.com/hassan/pyfront/internal/semantic"
)

// Filename is the name diagnostics report for session input.
const Filename = "<stdin>"

// Session is the accumulated state of an interactive run.
type Session struct {
	compiler *compiler.Compiler
	out      io.Writer
	renderer *diag.Renderer

	source string
	stmts  int

	// last is the most recent clean result.
	last *compiler.Result
}

// NewSession creates an empty session writing to out.
func NewSession(c *compiler.Compiler, out io.Writer, color bool) *Session {
	return &Session{
		compiler: c,
		out:      out,
		renderer: diag.NewRenderer(out, color),
	}
}

// Source returns the accepted input so far.
func (s *Session) Source() string {
	return s.source
}

// Eval checks input in the context of the session. It reports whether
// the input was accepted.
//
// For an accepted input it prints the inferred type of every expression
// statement and every name the input bound; otherwise it prints the
// diagnostics.
func (s *Session) Eval(input string) bool {
	if strings.TrimSpace(input) == "" {
		return true
	}
	candidate := s.source + strings.TrimRight(input, "\n") + "\n"
	res := s.compiler.Check(candidate, Filename)
	diags := s.fresh(res.Diagnostics)
	if !res.OK() {
		s.renderer.Render(candidate, diags)
		return false
	}
	s.renderer.Render(candidate, diags)

	before := s.bound()
	newStmts := res.Module.Body[s.stmts:]
	s.source = candidate
	s.stmts = len(res.Module.Body)
	s.last = res

	for _, stmt := range newStmts {
		if e, ok := stmt.(*ast.ExprStmt); ok {
			fmt.Fprintf(s.out, "=> %s\n", res.Analyzer.TypeOf(e.Value))
		}
	}
	for _, sym := range res.Table.Root().LocalSymbols() {
		if !before[sym.Name] {
			fmt.Fprintf(s.out, "%s: %s\n", sym.Name, sym.Type)
		}
	}
	return true
}

// fresh drops warnings about input accepted earlier, which were already
// shown.
func (s *Session) fresh(diags []diag.Diagnostic) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range diags {
		if d.Severity == diag.SeverityWarning && d.Pos.Offset < len(s.source) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// bound returns the names the session module binds.
func (s *Session) bound() map[string]bool {
	names := make(map[string]bool)
	if s.last == nil {
		return names
	}
	for _, sym := range s.last.Table.Root().LocalSymbols() {
		names[sym.Name] = true
	}
	return names
}

// Reset forgets all accepted input.
func (s *Session) Reset() {
	s.source = ""
	s.stmts = 0
	s.last = nil
}

// Command runs a ":" meta-command. It reports false for an unknown one.
func (s *Session) Command(line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(s.out, "REPL Commands:")
		fmt.Fprintln(s.out, "  :help, :h, :?     Show this help")
		fmt.Fprintln(s.out, "  :names            Show module-level names and their types")
		fmt.Fprintln(s.out, "  :scopes           Show the scope tree")
		fmt.Fprintln(s.out, "  :source           Show the accepted input")
		fmt.Fprintln(s.out, "  :tokens <code>    Tokenize code without adding it")
		fmt.Fprintln(s.out, "  :ast <code>       Show the syntax tree of code without adding it")
		fmt.Fprintln(s.out, "  :reset            Forget all input")
		fmt.Fprintln(s.out, "  exit, quit        Exit the REPL")

	case ":names":
		if s.last == nil {
			fmt.Fprintln(s.out, "(no names)")
			return true
		}
		for _, sym := range s.last.Table.Root().LocalSymbols() {
			fmt.Fprintf(s.out, "%s: %s\n", sym.Name, sym.Type)
		}

	case ":scopes":
		if s.last == nil {
			fmt.Fprintln(s.out, "(empty)")
			return true
		}
		fmt.Fprint(s.out, s.last.Table.DebugString())

	case ":source":
		fmt.Fprint(s.out, s.source)

	case ":tokens":
		tokens, err := s.compiler.Tokenize(arg+"\n", Filename)
		if err != nil {
			s.report(arg+"\n", err)
			return true
		}
		for _, tok := range tokens {
			fmt.Fprintln(s.out, tok)
		}

	case ":ast":
		res := s.compiler.Parse(arg+"\n", Filename)
		if !res.OK() {
			s.renderer.Render(res.Source, res.Diagnostics)
			return true
		}
		ast.Fprint(s.out, res.Module)

	case ":reset":
		s.Reset()
		fmt.Fprintln(s.out, "Session cleared")

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type :help for commands)\n", cmd)
		return false
	}
	return true
}

func (s *Session) report(source string, err error) {
	if d, ok := diag.FromError(err); ok {
		s.renderer.Render(source, []diag.Diagnostic{d})
		return
	}
	fmt.Fprintf(s.out, "Error: %v\n", err)
}

// Completions returns the keywords, builtins and session names that
// start with the last word of line.
func (s *Session) Completions(line string) []string {
	if line == "" || line[len(line)-1] == ' ' || line[len(line)-1] == '\t' {
		return nil
	}
	i := len(line)
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(line[:i])
		if !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			break
		}
		i -= size
	}
	head, word := line[:i], line[i:]
	if word == "" {
		return nil
	}

	seen := make(map[string]bool)
	var matches []string
	add := func(name string) {
		if strings.HasPrefix(name, word) && !seen[name] {
			seen[name] = true
			matches = append(matches, head+name)
		}
	}
	for _, kw := range lexer.Keywords() {
		add(kw)
	}
	for _, name := range semantic.Builtins {
		add(name)
	}
	for _, name := range s.compiler.Config().Analyzer.ExtraBuiltins {
		add(name)
	}
	for name := range s.bound() {
		add(name)
	}
	sort.Strings(matches)
	return matches
}

// NeedsMoreInput reports whether input is an incomplete statement: an
// open bracket or triple-quoted string, a trailing backslash or colon,
// or a block or decorator that has not been closed by a blank line.
func NeedsMoreInput(input string) bool {
	trimmed := strings.TrimRight(input, " \t\n")
	if trimmed == "" {
		return false
	}
	if strings.HasSuffix(trimmed, "\\") {
		return true
	}

	tokens, err := lexer.Tokenize(trimmed+"\n", Filename)
	if err != nil {
		var se *lexer.SyntaxError
		return errors.As(err, &se) && se.Kind == lexer.ErrUnterminatedString &&
			strings.Contains(se.Message, "triple-quoted")
	}

	depth := 0
	opensBlock := false
	var last lexer.TokenType
	for _, tok := range tokens {
		switch tok.Type {
		case lexer.TokenLeftParen, lexer.TokenLeftBracket, lexer.TokenLeftBrace:
			depth++
		case lexer.TokenRightParen, lexer.TokenRightBracket, lexer.TokenRightBrace:
			depth--
		case lexer.TokenIndent:
			opensBlock = true
		case lexer.TokenNewline, lexer.TokenDedent, lexer.TokenEOF, lexer.TokenComment:
			continue
		}
		last = tok.Type
	}
	if depth > 0 || last == lexer.TokenColon {
		return true
	}
	if len(tokens) > 0 && tokens[0].Type == lexer.TokenAt {
		opensBlock = true
	}

	// An open block ends at the first empty line.
	lines := strings.Split(strings.TrimRight(input, " \t"), "\n")
	return opensBlock && strings.TrimSpace(lines[len(lines)-1]) != ""
}
