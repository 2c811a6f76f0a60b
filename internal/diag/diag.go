// Package diag converts the errors of every pipeline stage into one
// stage-neutral Diagnostic and renders them for people.
package diag

import (
	"errors"
	"unicode/utf8"

	"github.com/hassan/pyfront/internal/lexer"
	"github.com/hassan/pyfront/internal/lint"
	"github.com/hassan/pyfront/internal/parser"
	"github.com/hassan/pyfront/internal/semantic"
)

// Stage identifies the pipeline stage that produced a diagnostic.
type Stage int

const (
	StageLexer Stage = iota
	StageParser
	StageAnalyzer
	StageLint
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageLexer:
		return "lexer"
	case StageParser:
		return "parser"
	case StageAnalyzer:
		return "analyzer"
	case StageLint:
		return "lint"
	default:
		return "unknown"
	}
}

// Kind returns the error kind name the stage reports under.
func (s Stage) Kind() string {
	switch s {
	case StageLexer:
		return "SyntaxError"
	case StageParser:
		return "ParseError"
	case StageAnalyzer:
		return "SemanticError"
	case StageLint:
		return "Warning"
	default:
		return "Error"
	}
}

// Severity tells errors from warnings.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// String returns "error" or "warning".
func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Stage    Stage
	Severity Severity

	// Kind is "SyntaxError", "ParseError", "SemanticError" or "Warning".
	Kind string

	// Code refines Kind, e.g. "UndefinedVariable" or "unreachable".
	// Parse errors have none.
	Code string

	Message string
	Pos     lexer.Position

	// End is just past the offending text when it is known, otherwise the
	// zero Position.
	End lexer.Position
}

// String formats the diagnostic as "<kind>: <message> at <line>:<column>".
func (d Diagnostic) String() string {
	return d.Kind + ": " + d.Message + " at " + d.Pos.LineColumn()
}

// Error implements error.
func (d Diagnostic) Error() string {
	return d.String()
}

// FromSyntax converts a lexical error.
func FromSyntax(err *lexer.SyntaxError) Diagnostic {
	return Diagnostic{
		Stage:   StageLexer,
		Kind:    StageLexer.Kind(),
		Code:    err.Kind.String(),
		Message: err.Message,
		Pos:     err.Pos,
	}
}

// FromParse converts a parse error.
func FromParse(err *parser.ParseError) Diagnostic {
	return Diagnostic{
		Stage:   StageParser,
		Kind:    StageParser.Kind(),
		Message: err.Message,
		Pos:     err.Pos,
	}
}

// FromSemantic converts a semantic error. Errors about a name underline
// the name.
func FromSemantic(err *semantic.Error) Diagnostic {
	d := Diagnostic{
		Stage:   StageAnalyzer,
		Kind:    StageAnalyzer.Kind(),
		Code:    err.Kind.String(),
		Message: err.Message,
		Pos:     err.Pos,
	}
	if err.Name != "" {
		d.End = err.Pos
		d.End.Column += utf8.RuneCountInString(err.Name)
		d.End.Offset += len(err.Name)
	}
	return d
}

// FromFinding converts a lint finding into a warning.
func FromFinding(f lint.Finding) Diagnostic {
	return Diagnostic{
		Stage:    StageLint,
		Severity: SeverityWarning,
		Kind:     StageLint.Kind(),
		Code:     f.Pass,
		Message:  f.Message,
		Pos:      f.Pos,
		End:      f.End,
	}
}

// FromFindings converts a linter's findings.
func FromFindings(findings []lint.Finding) []Diagnostic {
	out := make([]Diagnostic, len(findings))
	for i, f := range findings {
		out[i] = FromFinding(f)
	}
	return out
}

// Count returns the number of errors and warnings in diags.
func Count(diags []Diagnostic) (errs, warnings int) {
	for _, d := range diags {
		if d.Severity == SeverityWarning {
			warnings++
		} else {
			errs++
		}
	}
	return errs, warnings
}

// FromError converts any stage error. It reports false for errors that
// do not come from the pipeline, such as I/O failures.
func FromError(err error) (Diagnostic, bool) {
	var syntaxErr *lexer.SyntaxError
	var parseErr *parser.ParseError
	var semanticErr *semantic.Error
	switch {
	case errors.As(err, &syntaxErr):
		return FromSyntax(syntaxErr), true
	case errors.As(err, &parseErr):
		return FromParse(parseErr), true
	case errors.As(err, &semanticErr):
		return FromSemantic(semanticErr), true
	}
	return Diagnostic{}, false
}

// FromParseErrors converts a parser's error list.
func FromParseErrors(errs []*parser.ParseError) []Diagnostic {
	out := make([]Diagnostic, len(errs))
	for i, err := range errs {
		out[i] = FromParse(err)
	}
	return out
}

// FromSemanticErrors converts an analyzer's error list.
func FromSemanticErrors(errs []*semantic.Error) []Diagnostic {
	out := make([]Diagnostic, len(errs))
	for i, err := range errs {
		out[i] = FromSemantic(err)
	}
	return out
}
