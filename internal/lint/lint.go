// Package lint runs warning passes over a module that parsed cleanly.
//
// Lint findings never stop the pipeline and never make a check fail;
// they point at code that is legal but almost certainly not what was
// meant, such as statements after a return or an if whose condition is a
// constant.
package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hassan/pyfront/internal/lexer"
	"github.com/hassan/pyfront/internal/parser/ast"
)

// Finding is one warning.
type Finding struct {
	// Pass is the name of the pass that reported it.
	Pass    string
	Message string
	Pos     lexer.Position
	End     lexer.Position
}

// String formats the finding as "Warning: <message> at <line>:<column>".
func (f Finding) String() string {
	return "Warning: " + f.Message + " at " + f.Pos.LineColumn()
}

// Pass is one independent check over a module.
type Pass interface {
	// Name is the identifier used to disable the pass in configuration.
	Name() string

	// Run returns the pass's findings for mod in any order.
	Run(mod *ast.Module) []Finding
}

// DefaultPasses returns a fresh instance of every built-in pass.
func DefaultPasses() []Pass {
	return []Pass{
		&ConstantConditionPass{},
		&UnreachablePass{},
	}
}

// PassNames lists the names of the built-in passes.
func PassNames() []string {
	passes := DefaultPasses()
	names := make([]string, len(passes))
	for i, p := range passes {
		names[i] = p.Name()
	}
	return names
}

// Linter runs a list of passes.
type Linter struct {
	passes []Pass
}

// New creates a linter with the built-in passes, minus the disabled ones.
func New(disabled ...string) *Linter {
	off := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		off[name] = true
	}
	l := &Linter{}
	for _, p := range DefaultPasses() {
		if !off[p.Name()] {
			l.passes = append(l.passes, p)
		}
	}
	return l
}

// AddPass appends a custom pass.
func (l *Linter) AddPass(pass Pass) {
	l.passes = append(l.passes, pass)
}

// Passes returns the names of the passes that will run, in order.
func (l *Linter) Passes() []string {
	names := make([]string, len(l.passes))
	for i, p := range l.passes {
		names[i] = p.Name()
	}
	return names
}

// Run applies every pass to mod and returns the findings in source
// order, together with per-pass counts.
func (l *Linter) Run(mod *ast.Module) ([]Finding, *Stats) {
	stats := NewStats()
	if mod == nil {
		return nil, stats
	}

	var findings []Finding
	for _, pass := range l.passes {
		found := pass.Run(mod)
		stats.PassExecutions[pass.Name()]++
		stats.Findings[pass.Name()] += len(found)
		findings = append(findings, found...)
	}
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Pos.Before(findings[j].Pos)
	})
	return findings, stats
}

// Stats counts what each pass did during one Run.
type Stats struct {
	Findings       map[string]int
	PassExecutions map[string]int
}

// NewStats creates an empty stats tracker.
func NewStats() *Stats {
	return &Stats{
		Findings:       make(map[string]int),
		PassExecutions: make(map[string]int),
	}
}

// Total is the number of findings over all passes.
func (s *Stats) Total() int {
	total := 0
	for _, n := range s.Findings {
		total += n
	}
	return total
}

// String returns a summary like "constant-condition=1 unreachable=0",
// sorted by pass name.
func (s *Stats) String() string {
	names := make([]string, 0, len(s.PassExecutions))
	for name := range s.PassExecutions {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, s.Findings[name])
	}
	return strings.Join(parts, " ")
}
