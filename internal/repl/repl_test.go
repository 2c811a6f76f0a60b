package repl

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/peterh/liner"

	"github.com/hassan/pyfront/internal/compiler"
	"github.com/hassan/pyfront/internal/config"
)

func newSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return NewSession(compiler.New(nil, nil), &out, false), &out
}

// scripted returns a prompt function that replays lines and then EOF.
func scripted(lines ...string) (func(string) (string, error), *[]string) {
	var prompts []string
	i := 0
	return func(p string) (string, error) {
		prompts = append(prompts, p)
		if i >= len(lines) {
			return "", io.EOF
		}
		line := lines[i]
		i++
		if line == "^C" {
			return "", liner.ErrPromptAborted
		}
		return line, nil
	}, &prompts
}

func TestSession_Eval(t *testing.T) {
	s, out := newSession(t)

	if !s.Eval("x = 1") {
		t.Fatalf("Eval(x = 1) rejected: %s", out)
	}
	if got := out.String(); got != "x: int\n" {
		t.Errorf("output = %q, want %q", got, "x: int\n")
	}

	out.Reset()
	if !s.Eval("x + 2.5") {
		t.Fatalf("Eval(x + 2.5) rejected: %s", out)
	}
	if got := out.String(); got != "=> float\n" {
		t.Errorf("output = %q, want %q", got, "=> float\n")
	}

	out.Reset()
	if s.Eval("print(y)") {
		t.Errorf("Eval(print(y)) accepted, want rejection")
	}
	if !strings.Contains(out.String(), "Undefined variable 'y'") {
		t.Errorf("output = %q, want undefined variable diagnostic", out.String())
	}
	if got := s.Source(); got != "x = 1\nx + 2.5\n" {
		t.Errorf("Source() = %q, rejected input was kept", got)
	}

	out.Reset()
	if s.Eval("x = 2") {
		t.Errorf("Eval(x = 2) accepted, want redeclaration")
	}
	if !strings.Contains(out.String(), "Redeclaration of 'x'") {
		t.Errorf("output = %q, want redeclaration diagnostic", out.String())
	}
}

func TestSession_Warnings(t *testing.T) {
	s, out := newSession(t)

	if !s.Eval("if 0:\n    pass") {
		t.Fatalf("Eval rejected a warning-only input: %s", out)
	}
	if !strings.Contains(out.String(), "<stdin>:1:4: Warning: Condition is always false") {
		t.Errorf("output = %q, want the warning", out.String())
	}

	out.Reset()
	if !s.Eval("y = 1") {
		t.Fatalf("Eval(y = 1) rejected: %s", out)
	}
	if got := out.String(); got != "y: int\n" {
		t.Errorf("output = %q, want the earlier warning not repeated", got)
	}
}

func TestSession_EvalBlock(t *testing.T) {
	s, out := newSession(t)

	if !s.Eval("def double(n):\n    return n * 2\n") {
		t.Fatalf("Eval(def) rejected: %s", out)
	}
	if got := out.String(); got != "double: Callable[[Any], Any]\n" {
		t.Errorf("output = %q", got)
	}

	out.Reset()
	if !s.Eval("double(3)") {
		t.Fatalf("Eval(double(3)) rejected: %s", out)
	}
	if got := out.String(); got != "=> Any\n" {
		t.Errorf("output = %q, want %q", got, "=> Any\n")
	}
}

func TestSession_Commands(t *testing.T) {
	tests := []struct {
		name     string
		setup    string
		command  string
		contains string
		known    bool
	}{
		{"help", "", ":help", ":scopes", true},
		{"names empty", "", ":names", "(no names)", true},
		{"names", "total = 1.5", ":names", "total: float", true},
		{"scopes", "def f():\n    pass", ":scopes", "function scope f", true},
		{"source", "a = 'x'", ":source", "a = 'x'", true},
		{"tokens", "", ":tokens a + 1", "IDENTIFIER(a)", true},
		{"tokens error", "", ":tokens a = 'x", "SyntaxError", true},
		{"ast", "", ":ast x = 1", "Assign", true},
		{"ast error", "", ":ast x = (", "ParseError", true},
		{"unknown", "", ":frobnicate", "Unknown command: :frobnicate", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out := newSession(t)
			if tt.setup != "" && !s.Eval(tt.setup) {
				t.Fatalf("setup rejected: %s", out)
			}
			out.Reset()

			if got := s.Command(tt.command); got != tt.known {
				t.Errorf("Command(%q) = %v, want %v", tt.command, got, tt.known)
			}
			if !strings.Contains(out.String(), tt.contains) {
				t.Errorf("Command(%q) output = %q, want it to contain %q", tt.command, out.String(), tt.contains)
			}
		})
	}
}

func TestSession_Reset(t *testing.T) {
	s, out := newSession(t)
	s.Eval("x = 1")
	s.Command(":reset")
	out.Reset()

	if !s.Eval("x = 2") {
		t.Errorf("Eval after reset rejected: %s", out)
	}
}

func TestSession_Completions(t *testing.T) {
	cfg := config.Default()
	cfg.Analyzer.ExtraBuiltins = []string{"__name__"}
	var out bytes.Buffer
	s := NewSession(compiler.New(cfg, nil), &out, false)
	s.Eval("counter = 0")

	tests := []struct {
		line     string
		expected []string
	}{
		{"whi", []string{"while"}},
		{"x = pr", []string{"x = print"}},
		{"co", []string{"continue", "counter"}},
		{"print(__n", []string{"print(__name__"}},
		{"x = ", nil},
		{"", nil},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := s.Completions(tt.line)
			if strings.Join(got, "|") != strings.Join(tt.expected, "|") {
				t.Errorf("Completions(%q) = %v, want %v", tt.line, got, tt.expected)
			}
		})
	}
}

func TestNeedsMoreInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"simple", "x = 1", false},
		{"empty", "", false},
		{"open paren", "print(1,", true},
		{"open dict", "d = {'a':", true},
		{"closed", "print(1, 2)", false},
		{"colon", "if x:", true},
		{"comment after colon", "if x:  # note", true},
		{"comment ending in colon", "x = 1  # note:", false},
		{"block body", "if x:\n    pass", true},
		{"block closed", "if x:\n    pass\n", false},
		{"decorator", "@dec", true},
		{"backslash", "x = 1 + \\", true},
		{"triple quote", "s = '''abc", true},
		{"bad string", "s = 'abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsMoreInput(tt.input); got != tt.expected {
				t.Errorf("NeedsMoreInput(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoop(t *testing.T) {
	s, out := newSession(t)
	prompt, prompts := scripted(
		"x = 1",
		"",
		"if x:",
		"    y = x",
		"",
		"^C",
		":names",
		"exit",
		"never read",
	)
	var history []string

	if err := Loop(s, prompt, func(h string) { history = append(history, h) }, out); err != nil {
		t.Fatalf("Loop() error = %v", err)
	}

	if got := strings.Join(history, "|"); got != "x = 1|if x:\n    y = x" {
		t.Errorf("history = %q", got)
	}
	expectedPrompts := []string{Prompt, Prompt, Prompt, ContinuationPrompt, ContinuationPrompt, Prompt, Prompt, Prompt}
	if strings.Join(*prompts, "|") != strings.Join(expectedPrompts, "|") {
		t.Errorf("prompts = %q, want %q", *prompts, expectedPrompts)
	}
	for _, want := range []string{"x: int\n", "y: int\n", "^C\n"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output = %q, want it to contain %q", out.String(), want)
		}
	}
}

func TestLoop_EOFAndErrors(t *testing.T) {
	s, out := newSession(t)
	prompt, _ := scripted("print(1,", "^C")
	if err := Loop(s, prompt, func(string) {}, out); err != nil {
		t.Fatalf("Loop() error = %v", err)
	}
	if !strings.Contains(out.String(), "^C (cleared)") {
		t.Errorf("output = %q, want cleared buffer", out.String())
	}

	failing := func(string) (string, error) { return "", errors.New("tty gone") }
	if err := Loop(s, failing, func(string) {}, out); err == nil {
		t.Errorf("Loop() error = nil, want read failure")
	}
}
