package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Scanner performs lexical analysis on Sug source code.
// It produces a lazy stream of tokens with their spans; whitespace and
// comments never reach the caller.
type Scanner struct {
	source

	tok    Token  // token type
	lit    string // identifier name, byte digits, or error message
	tokPos Pos    // token start position
	endPos Pos    // position immediately after the token

	pending string // lexical error waiting to be surfaced as _Error
	user    func(pos Pos, msg string)

	litBuf strings.Builder
}

// NewScanner creates a new Scanner for the given source.
// The errh function is called for each lexical error; if nil, errors are
// only visible as _Error tokens.
func NewScanner(filename string, src io.Reader, errh func(pos Pos, msg string)) *Scanner {
	s := &Scanner{user: errh}
	s.source = *newSource(filename, src, s.lexError)
	return s
}

// lexError records a lexical error; the token being scanned becomes _Error.
func (s *Scanner) lexError(pos Pos, msg string) {
	if s.pending == "" {
		s.pending = msg
	}
	if s.user != nil {
		s.user(pos, msg)
	}
}

// Next advances to the next token.
func (s *Scanner) Next() {
redo:
	s.skipWhitespace()

	s.tokPos = s.pos()

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanByte()

	case isOperatorStart(s.ch):
		if s.scanOperator() {
			goto redo
		}

	default:
		s.error(fmt.Sprintf("unexpected character %q", s.ch))
		s.nextch()
		s.tok = _Error
	}

	s.endPos = s.pos()
	if s.pending != "" {
		s.tok = _Error
		s.lit = s.pending
		s.pending = ""
	}
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.tok
}

// Literal returns the current token's literal value.
func (s *Scanner) Literal() string {
	return s.lit
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

// Span returns the source range of the current token.
func (s *Scanner) Span() Span {
	return Span{Lo: s.tokPos, Hi: s.endPos}
}

func (s *Scanner) skipWhitespace() {
	for isWhitespace(s.ch) {
		s.nextch()
	}
}

func (s *Scanner) startLit() {
	s.litBuf.Reset()
	s.litBuf.WriteRune(s.ch)
}

func (s *Scanner) continueLit() {
	s.litBuf.WriteRune(s.ch)
}

// scanIdent scans an identifier or keyword.
func (s *Scanner) scanIdent() {
	s.startLit()
	s.nextch()

	for isLetter(s.ch) || isDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}

	s.lit = s.litBuf.String()
	s.tok = LookupKeyword(s.lit)
}

// scanByte scans a decimal byte literal. Values above 255 are rejected.
func (s *Scanner) scanByte() {
	pos := s.pos()
	s.startLit()
	s.nextch()
	for isDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}
	s.lit = s.litBuf.String()
	s.tok = _Byte

	if _, err := strconv.ParseUint(s.lit, 10, 8); err != nil {
		s.lexError(pos, fmt.Sprintf("byte literal %s out of range", s.lit))
	}
}

// scanOperator scans an operator or delimiter.
// Returns true if a comment was skipped (caller should rescan).
func (s *Scanner) scanOperator() bool {
	ch := s.ch
	s.nextch()

	switch ch {
	case '+':
		s.tok = _Add
	case '-':
		if s.ch == '>' {
			s.nextch()
			s.tok = _Arrow
		} else {
			s.tok = _Sub
		}
	case '*':
		s.tok = _Mul
	case '/':
		if s.ch == '/' {
			s.skipLineComment()
			return true
		}
		s.tok = _Div
	case '%':
		s.tok = _Rem
	case '&':
		if s.ch != '&' {
			s.error("unexpected character '&' (did you mean &&?)")
			s.tok = _Error
			break
		}
		s.nextch()
		s.tok = _AndAnd
	case '|':
		if s.ch != '|' {
			s.error("unexpected character '|' (did you mean ||?)")
			s.tok = _Error
			break
		}
		s.nextch()
		s.tok = _OrOr
	case '<':
		if s.ch == '=' {
			s.nextch()
			s.tok = _Leq
		} else {
			s.tok = _Lss
		}
	case '>':
		if s.ch == '=' {
			s.nextch()
			s.tok = _Geq
		} else {
			s.tok = _Gtr
		}
	case '=':
		// Two-character lookahead: "==" is always one token, so "===" scans
		// as "==" followed by "=".
		if s.ch == '=' {
			s.nextch()
			s.tok = _Eql
		} else {
			s.tok = _Assign
		}
	case '!':
		if s.ch == '=' {
			s.nextch()
			s.tok = _Neq
		} else {
			s.tok = _Not
		}
	case ':':
		s.tok = _Colon
	case '(':
		s.tok = _Lparen
	case ')':
		s.tok = _Rparen
	case '{':
		s.tok = _Lbrace
	case '}':
		s.tok = _Rbrace
	case ';':
		s.tok = _Semi
	}

	s.lit = s.tok.String()
	return false
}

// skipLineComment skips a line comment (from // to end of line).
func (s *Scanner) skipLineComment() {
	s.nextch()
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
}
