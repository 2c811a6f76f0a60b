package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/hassan/pyfront/internal/compiler"
)

const (
	Prompt             = ">>> "
	ContinuationPrompt = "... "
)

// Start runs an interactive session on the terminal with line editing,
// history and tab completion. It returns when the user exits.
func Start(c *compiler.Compiler, out io.Writer, version string, color bool) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	session := NewSession(c, out, color)
	line.SetCompleter(session.Completions)

	historyFile := historyPath()
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(out, "pyfront %s interactive checker\n", version)
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit, ':help' for commands")
	fmt.Fprintln(out, "")

	return Loop(session, line.Prompt, line.AppendHistory, out)
}

// Loop reads input through prompt until EOF or an exit command and feeds
// it to session. Multi-line statements are collected until complete.
// remember is called with every complete input.
func Loop(session *Session, prompt func(string) (string, error), remember func(string), out io.Writer) error {
	var buffer strings.Builder

	for {
		current := Prompt
		if buffer.Len() > 0 {
			current = ContinuationPrompt
		}
		input, err := prompt(current)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				if buffer.Len() > 0 {
					fmt.Fprintln(out, "^C (cleared)")
				} else {
					fmt.Fprintln(out, "^C")
				}
				buffer.Reset()
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		trimmed := strings.TrimSpace(input)
		if buffer.Len() == 0 {
			if trimmed == "exit" || trimmed == "quit" {
				return nil
			}
			if strings.HasPrefix(trimmed, ":") {
				session.Command(trimmed)
				continue
			}
			if trimmed == "" {
				continue
			}
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(input)

		full := buffer.String()
		if NeedsMoreInput(full) {
			continue
		}

		remember(strings.TrimRight(full, "\n"))
		session.Eval(full)
		buffer.Reset()
	}
}

func historyPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, ".pyfront_history")
}
