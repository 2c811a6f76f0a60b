// Package lexer turns Python-syntax source text into a token sequence.
//
// The lexer is indentation sensitive: leading whitespace of every logical
// line is compared against a stack of open block widths and converted into
// synthetic INDENT and DEDENT tokens. Tokenization is fail-fast; the first
// lexical problem aborts with a *SyntaxError carrying its position.
package lexer

import "strconv"

// Position is a location in the source text.
//
// Line and Column are 1-based; Column counts runes, not bytes, so
// "x = 'héllo'" places the closing quote at column 11. Offset is the
// 0-based byte offset into the source and is what positions are ordered by.
// The zero value is an invalid position.
type Position struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

// String formats the position as "file:line:column", or "line:column"
// when no filename is known.
func (p Position) String() string {
	if p.Filename == "" {
		return p.LineColumn()
	}
	return p.Filename + ":" + p.LineColumn()
}

// LineColumn formats the position as "line:column".
func (p Position) LineColumn() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// IsValid reports whether the position has a line number.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Before reports whether p comes before other in the source.
func (p Position) Before(other Position) bool {
	return p.Offset < other.Offset
}

// After reports whether p comes after other in the source.
func (p Position) After(other Position) bool {
	return p.Offset > other.Offset
}

// Span is the source range from Start to End. End is exclusive.
type Span struct {
	Start Position
	End   Position
}

// String formats the span, collapsing the end to a column when the span
// stays on one line: "main.py:4:1-9".
func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return s.Start.String() + "-" + strconv.Itoa(s.End.Column)
	}
	return s.Start.String() + "-" + s.End.LineColumn()
}

// IsValid reports whether both ends are valid and ordered.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() && !s.End.Before(s.Start)
}

// Contains reports whether pos lies within the span.
func (s Span) Contains(pos Position) bool {
	return !pos.Before(s.Start) && pos.Before(s.End)
}

// Length is the number of source bytes covered by the span.
func (s Span) Length() int {
	if !s.IsValid() {
		return 0
	}
	return s.End.Offset - s.Start.Offset
}
