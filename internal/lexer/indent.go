package lexer

// scanIndentation measures the leading whitespace of a logical line and
// queues the INDENT or DEDENT tokens it implies.
//
// Blank lines and comment-only lines never touch the indentation stack;
// their comments are still queued and their newlines are swallowed.
//
// EXAMPLE:
//
//	if x:        # stack [0]
//	    y = 1    # stack [0 4]  -> INDENT
//	        z    # stack [0 4 8] -> INDENT
//	w            # stack [0]    -> DEDENT DEDENT
func (l *Lexer) scanIndentation() *SyntaxError {
	for {
		l.begin()
		width := 0
		var sawSpace, sawTab bool
	measure:
		for !l.isAtEnd() {
			switch l.source[l.current] {
			case ' ':
				sawSpace = true
				width++
			case '\t':
				sawTab = true
				width++
			case '\f':
				width = 0
			default:
				break measure
			}
			l.current++
		}

		if l.isAtEnd() {
			l.atLineStart = false
			return nil
		}

		switch c := l.source[l.current]; {
		case c == '\n':
			l.current++
			l.newline()
			continue
		case c == '\r' && l.peekAt(1) == '\n':
			l.current += 2
			l.newline()
			continue
		case c == '#':
			l.begin()
			l.scanComment()
			continue
		}

		l.atLineStart = false
		if width == 0 {
			return l.applyIndent(0)
		}

		if sawSpace && sawTab {
			return l.indentError(ErrMixedIndentation, "inconsistent use of tabs and spaces in indentation")
		}
		ch := byte(' ')
		if sawTab {
			ch = '\t'
		}
		if l.indentChar != 0 && l.indentChar != ch {
			return l.indentError(ErrMixedIndentation, "inconsistent use of tabs and spaces in indentation")
		}
		l.indentChar = ch
		return l.applyIndent(width)
	}
}

// applyIndent compares width with the top of the indentation stack.
func (l *Lexer) applyIndent(width int) *SyntaxError {
	l.begin()
	top := l.indents[len(l.indents)-1]
	switch {
	case width == top:
		return nil
	case width > top:
		l.indents = append(l.indents, width)
		tok := l.makeToken(TokenIndent)
		tok.Lexeme = l.source[l.lineStart:l.current]
		l.pending = append(l.pending, tok)
		return nil
	}

	for width < top {
		l.indents = l.indents[:len(l.indents)-1]
		l.pending = append(l.pending, l.makeToken(TokenDedent))
		top = l.indents[len(l.indents)-1]
	}
	if width != top {
		return l.indentError(ErrInconsistentDedent, "unindent does not match any outer indentation level")
	}
	if len(l.indents) == 1 {
		l.indentChar = 0
	}
	return nil
}

func (l *Lexer) indentError(kind ErrorKind, msg string) *SyntaxError {
	l.begin()
	return l.errorf(kind, "%s", msg)
}
