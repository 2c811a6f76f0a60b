package diag

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

// Color palette
var (
	colorError    = lipgloss.Color("#EF4444") // Red
	colorWarning  = lipgloss.Color("#EAB308") // Yellow
	colorLocation = lipgloss.Color("#06B6D4") // Cyan
	colorMuted    = lipgloss.Color("#6B7280") // Gray
	colorCaret    = lipgloss.Color("#F59E0B") // Amber
)

// Renderer prints diagnostics with the offending source line and a caret
// under the reported column.
//
// EXAMPLE:
//
//	main.py:2:7: SemanticError: Undefined variable 'y'
//	 2 | print(y)
//	   |       ^
type Renderer struct {
	w io.Writer

	location lipgloss.Style
	kind     lipgloss.Style
	warning  lipgloss.Style
	gutter   lipgloss.Style
	caret    lipgloss.Style
}

// NewRenderer creates a renderer writing to w. Without color the output
// is plain text.
func NewRenderer(w io.Writer, color bool) *Renderer {
	lr := lipgloss.NewRenderer(w)
	if color {
		lr.SetColorProfile(termenv.ANSI256)
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}

	return &Renderer{
		w:        w,
		location: lr.NewStyle().Foreground(colorLocation),
		kind:     lr.NewStyle().Foreground(colorError).Bold(true),
		warning:  lr.NewStyle().Foreground(colorWarning).Bold(true),
		gutter:   lr.NewStyle().Foreground(colorMuted),
		caret:    lr.NewStyle().Foreground(colorCaret).Bold(true),
	}
}

// Render writes every diagnostic against source.
func (r *Renderer) Render(source string, diags []Diagnostic) error {
	lines := splitLines(source)
	for _, d := range diags {
		if err := r.render(lines, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) render(lines []string, d Diagnostic) error {
	kind := r.kind
	if d.Severity == SeverityWarning {
		kind = r.warning
	}
	header := r.location.Render(d.Pos.String()+":") + " " + kind.Render(d.Kind+":") + " " + d.Message
	if _, err := fmt.Fprintln(r.w, header); err != nil {
		return err
	}

	if d.Pos.Line < 1 || d.Pos.Line > len(lines) {
		return nil
	}
	line := lines[d.Pos.Line-1]
	number := strconv.Itoa(d.Pos.Line)
	blank := strings.Repeat(" ", len(number))

	pad, width := caretLayout(line, d)
	_, err := fmt.Fprintf(r.w, " %s %s\n %s %s%s\n",
		r.gutter.Render(number+" |"), line,
		r.gutter.Render(blank+" |"), pad, r.caret.Render(caretText(width)))
	return err
}

// caretLayout returns the whitespace that puts the caret under the
// reported column, and the caret's display width. Tabs are kept as tabs
// so that the terminal expands them the same way on both lines.
func caretLayout(line string, d Diagnostic) (string, int) {
	var pad strings.Builder
	var under strings.Builder
	col := 1
	for _, r := range line {
		switch {
		case col < d.Pos.Column:
			if r == '\t' {
				pad.WriteByte('\t')
			} else {
				pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
			}
		case d.End.Line == d.Pos.Line && col < d.End.Column:
			under.WriteRune(r)
		}
		col++
	}
	for ; col < d.Pos.Column; col++ {
		pad.WriteByte(' ')
	}
	width := runewidth.StringWidth(under.String())
	if width < 1 {
		width = 1
	}
	return pad.String(), width
}

func caretText(width int) string {
	return "^" + strings.Repeat("~", width-1)
}

func splitLines(source string) []string {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Fprint writes diagnostics one per line in the plain
// "<kind>: <message> at <line>:<column>" form, prefixed by the file name
// when one is known.
func Fprint(w io.Writer, diags []Diagnostic) error {
	for _, d := range diags {
		prefix := ""
		if d.Pos.Filename != "" {
			prefix = d.Pos.Filename + ": "
		}
		if _, err := fmt.Fprintln(w, prefix+d.String()); err != nil {
			return err
		}
	}
	return nil
}

// UseColor resolves an output.color setting ("auto", "always" or
// "never") for w. Auto enables color only on a terminal and honors
// NO_COLOR.
func UseColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
