package lexer

import (
	"strings"

	"github.com/tydi-lang/tilc/pkg/ilerrors"
)

// Lexer scans TIL source text into a flat token stream. It follows the
// single-character-recovery policy of spec.md §4.4: a byte that starts no
// valid token is reported as a *ilerrors.Error and skipped, and scanning
// continues so the lexer always emits as many valid tokens as possible
// before EOF rather than aborting on the first bad byte.
type Lexer struct {
	src  []byte
	pos  int
	line int
	col  int
}

// New returns a Lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: []byte(src), pos: 0, line: 1, col: 1}
}

// ScanAll consumes the entire source and returns every token (terminated by
// a trailing EOF token) plus any lex errors encountered along the way.
func (l *Lexer) ScanAll() ([]Token, []*ilerrors.Error) {
	var tokens []Token
	var errs []*ilerrors.Error

	for {
		l.skipTrivia()
		if l.atEnd() {
			tokens = append(tokens, Token{Kind: EOF, Span: l.spanFrom(l.pos)})
			return tokens, errs
		}
		tok, err := l.scanOne()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) advance() byte {
	b := l.src[l.pos]
	l.pos++
	if b == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return b
}

func (l *Lexer) spanFrom(startByte int) ilerrors.Span {
	return ilerrors.Span{StartByte: startByte, EndByte: l.pos, StartLine: l.line, StartCol: l.col}
}

// skipTrivia consumes whitespace, "//" line comments, and "/// ... ///"
// block comments. Doc comments ("# ... #") are not trivia: they are
// significant tokens surfaced to the parser so it can attach them to the
// following declaration or port (spec.md §6.1).
func (l *Lexer) skipTrivia() {
	for {
		switch {
		case !l.atEnd() && isSpace(l.peek()):
			l.advance()
		case l.peek() == '/' && l.peekAt(1) == '/' && l.peekAt(2) == '/':
			l.skipBlockComment()
		case l.peek() == '/' && l.peekAt(1) == '/':
			l.skipLineComment()
		default:
			return
		}
	}
}

func (l *Lexer) skipLineComment() {
	for !l.atEnd() && l.peek() != '\n' {
		l.advance()
	}
}

func (l *Lexer) skipBlockComment() {
	l.advance()
	l.advance()
	l.advance()
	for {
		if l.atEnd() {
			return
		}
		if l.peek() == '/' && l.peekAt(1) == '/' && l.peekAt(2) == '/' {
			l.advance()
			l.advance()
			l.advance()
			return
		}
		l.advance()
	}
}

// scanOne recognizes and consumes exactly one token starting at the current
// position, which is known (by skipTrivia having already run) to be neither
// whitespace nor a line/block comment.
func (l *Lexer) scanOne() (Token, *ilerrors.Error) {
	start := l.pos
	startLine, startCol := l.line, l.col
	c := l.peek()

	switch {
	case c == '#':
		return l.scanDocComment(start, startLine, startCol)
	case c == '"':
		return l.scanPathFragment(start, startLine, startCol)
	case isDigit(c):
		return l.scanNumber(start, startLine, startCol), nil
	case isIdentStart(c):
		return l.scanIdentifier(start, startLine, startCol), nil
	default:
		return l.scanOperator(start, startLine, startCol)
	}
}

func (l *Lexer) scanDocComment(start, startLine, startCol int) (Token, *ilerrors.Error) {
	l.advance() // opening '#'
	contentStart := l.pos
	for !l.atEnd() && l.peek() != '#' {
		l.advance()
	}
	if l.atEnd() {
		return Token{}, ilerrors.ParsingError("unterminated doc comment").WithSpan(l.mkSpan(start, startLine, startCol))
	}
	text := string(l.src[contentStart:l.pos])
	l.advance() // closing '#'
	return Token{Kind: DocComment, Text: strings.TrimSpace(text), Span: l.mkSpan(start, startLine, startCol)}, nil
}

func (l *Lexer) scanPathFragment(start, startLine, startCol int) (Token, *ilerrors.Error) {
	l.advance() // opening quote
	contentStart := l.pos
	for !l.atEnd() && l.peek() != '"' && l.peek() != '\n' {
		l.advance()
	}
	if l.atEnd() || l.peek() == '\n' {
		return Token{}, ilerrors.ParsingError("unterminated path fragment string").WithSpan(l.mkSpan(start, startLine, startCol))
	}
	text := string(l.src[contentStart:l.pos])
	l.advance() // closing quote
	return Token{Kind: PathFragment, Text: text, Span: l.mkSpan(start, startLine, startCol)}, nil
}

// scanNumber handles integer, float, and version literals. A version
// literal is two-or-more dots' worth of digit groups ("3.1.4"); a single
// dot yields a float; no dot yields an integer. The dot is only consumed as
// part of the number when immediately followed by a digit, so that "3."
// followed by a non-digit leaves the Dot token for the operator scanner.
func (l *Lexer) scanNumber(start, startLine, startCol int) Token {
	l.consumeDigits()
	groups := 1
	for l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance() // '.'
		l.consumeDigits()
		groups++
	}
	text := string(l.src[start:l.pos])
	kind := IntegerLit
	switch {
	case groups >= 3:
		kind = VersionLit
	case groups == 2:
		kind = FloatLit
	}
	return Token{Kind: kind, Text: text, Span: l.mkSpan(start, startLine, startCol)}
}

func (l *Lexer) consumeDigits() {
	for isDigit(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) scanIdentifier(start, startLine, startCol int) Token {
	for isIdentPart(l.peek()) {
		l.advance()
	}
	text := string(l.src[start:l.pos])
	kind := Identifier
	if kw, ok := keywords[text]; ok {
		kind = kw
	}
	return Token{Kind: kind, Text: text, Span: l.mkSpan(start, startLine, startCol)}
}

func (l *Lexer) scanOperator(start, startLine, startCol int) (Token, *ilerrors.Error) {
	two := func(k Kind) (Token, *ilerrors.Error) {
		l.advance()
		l.advance()
		return Token{Kind: k, Text: string(l.src[start:l.pos]), Span: l.mkSpan(start, startLine, startCol)}, nil
	}
	one := func(k Kind) (Token, *ilerrors.Error) {
		l.advance()
		return Token{Kind: k, Text: string(l.src[start:l.pos]), Span: l.mkSpan(start, startLine, startCol)}, nil
	}

	c := l.peek()
	n := l.peekAt(1)
	switch {
	case c == '-' && n == '-':
		return two(DashDash)
	case c == ':' && n == ':':
		return two(ColonColon)
	case c == '>' && n == '=':
		return two(Ge)
	case c == '<' && n == '=':
		return two(Le)
	case c == '=' && n == '=':
		return two(Eq)
	case c == '=':
		return one(Assign)
	case c == '.':
		return one(Dot)
	case c == '*':
		return one(Star)
	case c == '+':
		return one(Plus)
	case c == '-':
		return one(Minus)
	case c == '/':
		return one(Slash)
	case c == '%':
		return one(Percent)
	case c == '>':
		return one(Gt)
	case c == '<':
		return one(Lt)
	case c == '(':
		return one(LParen)
	case c == ')':
		return one(RParen)
	case c == '{':
		return one(LBrace)
	case c == '}':
		return one(RBrace)
	case c == ':':
		return one(Colon)
	case c == ',':
		return one(Comma)
	case c == ';':
		return one(Semicolon)
	default:
		l.advance()
		return Token{}, ilerrors.ParsingError("unexpected character %q", c).WithSpan(l.mkSpan(start, startLine, startCol))
	}
}

func (l *Lexer) mkSpan(startByte, startLine, startCol int) ilerrors.Span {
	return ilerrors.Span{StartByte: startByte, EndByte: l.pos, StartLine: startLine, StartCol: startCol}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
