// Package scanner implements the lexical analyzer for loxide: a lazy
// sequence of tokens produced from a source buffer, reporting lexical
// diagnostics to a sink and continuing past errors.
//
// The scanning loop is a go/scanner-style cursor: a current rune plus a
// reading offset, peek without consuming, sized for the small, C-like
// Lox token set.
package scanner

import (
	"strconv"

	"github.com/mna/loxide/lang/diag"
	"github.com/mna/loxide/lang/token"
)

// Scanner tokenizes a single source buffer for the parser to consume.
type Scanner struct {
	src  []byte
	errs *diag.ErrorList

	cur  rune // current character, -1 at EOF
	off  int  // byte offset of cur
	roff int  // reading offset, i.e. the offset right after cur

	hadError bool
}

// Init prepares s to scan src, reporting lexical diagnostics to errs.
func (s *Scanner) Init(src []byte, errs *diag.ErrorList) {
	s.src = src
	s.errs = errs
	s.off = 0
	s.roff = 0
	s.hadError = false
	s.advance()
}

// HadError reports whether any lexical error was encountered since Init.
func (s *Scanner) HadError() bool { return s.hadError }

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}
	s.off = s.roff
	s.cur = rune(s.src[s.roff])
	s.roff++
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) match(c byte) bool {
	if s.cur == rune(c) {
		s.advance()
		return true
	}
	return false
}

func (s *Scanner) error(span token.Span, format string, args ...any) {
	s.hadError = true
	s.errs.Add(diag.Lexical, span, format, args...)
}

// Next scans and returns the next token. Once EOF has been returned, every
// subsequent call keeps returning EOF.
func (s *Scanner) Next() token.Token {
	s.skipWhitespaceAndComments()

	start := s.off
	span := token.Span{Offset: start}

	if s.cur == -1 {
		return token.Token{Kind: token.EOF, Span: span}
	}

	c := s.cur
	switch {
	case isAlpha(c):
		return s.identifier(start)
	case isDigit(c):
		return s.number(start)
	case c == '"':
		return s.string(start)
	}

	s.advance()
	mk := func(k token.Kind) token.Token {
		sp := token.Span{Offset: start, Len: s.off - start}
		return token.Token{Kind: k, Lexeme: sp.Slice(s.src), Span: sp}
	}

	switch c {
	case '(':
		return mk(token.LPAREN)
	case ')':
		return mk(token.RPAREN)
	case '{':
		return mk(token.LBRACE)
	case '}':
		return mk(token.RBRACE)
	case ',':
		return mk(token.COMMA)
	case '.':
		return mk(token.DOT)
	case '-':
		return mk(token.MINUS)
	case '+':
		return mk(token.PLUS)
	case ';':
		return mk(token.SEMI)
	case '*':
		return mk(token.STAR)
	case '/':
		return mk(token.SLASH)
	case '!':
		if s.match('=') {
			return mk(token.BANGEQ)
		}
		return mk(token.BANG)
	case '=':
		if s.match('=') {
			return mk(token.EQEQ)
		}
		return mk(token.EQ)
	case '<':
		if s.match('=') {
			return mk(token.LTEQ)
		}
		return mk(token.LT)
	case '>':
		if s.match('=') {
			return mk(token.GTEQ)
		}
		return mk(token.GT)
	default:
		sp := token.Span{Offset: start, Len: s.off - start}
		s.error(sp, "unexpected character %q", c)
		return token.Token{Kind: token.ILLEGAL, Lexeme: sp.Slice(s.src), Span: sp}
	}
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch {
		case s.cur == ' ' || s.cur == '\t' || s.cur == '\r' || s.cur == '\n':
			s.advance()
		case s.cur == '/' && s.peek() == '/':
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
		default:
			return
		}
	}
}

func (s *Scanner) identifier(start int) token.Token {
	for isAlpha(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	sp := token.Span{Offset: start, Len: s.off - start}
	lit := sp.Slice(s.src)
	return token.Token{Kind: token.LookupIdent(lit), Lexeme: lit, Span: sp}
}

func (s *Scanner) number(start int) token.Token {
	for isDigit(s.cur) {
		s.advance()
	}
	if s.cur == '.' && isDigit(rune(s.peek())) {
		s.advance() // consume '.'
		for isDigit(s.cur) {
			s.advance()
		}
	}
	sp := token.Span{Offset: start, Len: s.off - start}
	lit := sp.Slice(s.src)
	n, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		s.error(sp, "invalid number literal %q", lit)
	}
	return token.Token{Kind: token.NUMBER, Lexeme: lit, Span: sp, Value: token.Literal{Num: n}}
}

func (s *Scanner) string(start int) token.Token {
	s.advance() // consume opening quote
	for s.cur != '"' && s.cur != -1 {
		s.advance()
	}
	if s.cur == -1 {
		sp := token.Span{Offset: start, Len: s.off - start}
		s.error(sp, "unterminated string")
		return token.Token{Kind: token.ILLEGAL, Lexeme: sp.Slice(s.src), Span: sp}
	}
	s.advance() // consume closing quote
	sp := token.Span{Offset: start, Len: s.off - start}
	lit := sp.Slice(s.src)
	val := lit[1 : len(lit)-1]
	return token.Token{Kind: token.STRING, Lexeme: lit, Span: sp, Value: token.Literal{Str: val}}
}

func isAlpha(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

// ScanAll tokenizes src entirely and returns the list of tokens, including
// the trailing EOF token. Lexical errors are reported to errs; scanning
// continues past them.
func ScanAll(src []byte, errs *diag.ErrorList) []token.Token {
	var s Scanner
	s.Init(src, errs)
	var toks []token.Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}
