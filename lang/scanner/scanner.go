// Package scanner tokenizes MindLang source text for the parser to
// consume. Its overall shape — a byte-at-a-time Scanner reading into a
// token.File, reporting through a go/scanner-compatible ErrorList — is
// adapted from the lexer this module's ambient stack was grounded on.
package scanner

import (
	"bytes"
	"fmt"
	"go/scanner"
	"unicode"
	"unicode/utf8"

	"github.com/mna/mindlang/lang/token"
)

type (
	Error     = scanner.Error
	ErrorList = scanner.ErrorList
)

var PrintError = scanner.PrintError

// TokenAndValue combines a token kind with its scanned value.
type TokenAndValue struct {
	Token token.Token
	Value token.Value
}

// ScanSource tokenizes a single source buffer and returns every token
// through EOF, along with any lexical errors encountered. The returned
// error, if non-nil, is a go/scanner ErrorList.
func ScanSource(filename string, src []byte) (*token.File, []TokenAndValue, error) {
	var (
		s      Scanner
		tokVal token.Value
		el     ErrorList
	)

	fs := token.NewFileSet()
	file := fs.AddFile(filename, len(src))
	s.Init(file, src, el.Add)

	var toks []TokenAndValue
	for {
		tok := s.Scan(&tokVal)
		toks = append(toks, TokenAndValue{Token: tok, Value: tokVal})
		if tok == token.EOF {
			break
		}
	}
	el.Sort()
	return file, toks, el.Err()
}

// Scanner tokenizes one source file.
type Scanner struct {
	file *token.File
	src  []byte
	err  func(pos token.Position, msg string)

	cur  rune
	off  int
	roff int
}

// Init prepares s to tokenize src, backed by file.
func (s *Scanner) Init(file *token.File, src []byte, errHandler func(token.Position, string)) {
	s.file = file
	s.src = src
	s.err = errHandler
	s.cur = ' '
	s.off = 0
	s.roff = 0
	s.advance()
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		if s.cur == '\n' {
			s.file.AddLine(s.off)
		}
		s.cur = -1
		return
	}

	s.off = s.roff
	if s.cur == '\n' {
		s.file.AddLine(s.off)
	}

	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
	}
	s.roff += w
	s.cur = r
}

func (s *Scanner) advanceIf(matches ...byte) bool {
	if bytes.ContainsRune(matches, s.cur) {
		s.advance()
		return true
	}
	return false
}

func (s *Scanner) error(off int, msg string) {
	if s.err != nil {
		s.err(s.file.Position(s.file.Pos(off)), msg)
	}
}

func (s *Scanner) errorf(off int, format string, args ...any) {
	s.error(off, fmt.Sprintf(format, args...))
}

// Scan returns the next token in the source file, filling tokVal.
func (s *Scanner) Scan(tokVal *token.Value) (tok token.Token) {
	s.skipWhitespaceAndComments()

	pos := s.file.Pos(s.off)
	start := s.off

	switch cur := s.cur; {
	case isIdentStart(cur):
		lit := s.ident()
		tok = token.Lookup(lit)
		*tokVal = token.Value{Raw: lit, Pos: pos}

	case isDecimal(cur), cur == '-' && isDecimal(rune(s.peek())):
		lit := s.number()
		tok = token.NUMBER
		*tokVal = token.Value{Raw: lit, Pos: pos}

	default:
		s.advance()
		switch cur {
		case '"':
			lit, val := s.shortString()
			tok = token.STRING
			*tokVal = token.Value{Raw: lit, Pos: pos, String: val}

		case '\'':
			lit, val := s.quotedIdent()
			tok = token.QIDENT
			*tokVal = token.Value{Raw: lit, Pos: pos, String: val}

		case '`':
			lit := s.repr()
			tok = token.REPR
			*tokVal = token.Value{Raw: lit, Pos: pos}

		case '+':
			tok, *tokVal = token.PLUS, token.Value{Raw: "+", Pos: pos}
		case '-':
			tok, *tokVal = token.MINUS, token.Value{Raw: "-", Pos: pos}
		case '*':
			tok = token.STAR
			if s.advanceIf('*') {
				tok = token.STARSTAR
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}
		case '/':
			tok = token.SLASH
			if s.advanceIf('/') {
				tok = token.SLASHSLASH
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}
		case '%':
			tok, *tokVal = token.PERCENT, token.Value{Raw: "%", Pos: pos}
		case '&':
			tok = token.AMP
			if s.advanceIf('&') {
				tok = token.ANDAND
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}
		case '|':
			tok = token.PIPE
			if s.advanceIf('|') {
				tok = token.OROR
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}
		case '^':
			tok, *tokVal = token.CARET, token.Value{Raw: "^", Pos: pos}
		case '~':
			tok, *tokVal = token.TILDE, token.Value{Raw: "~", Pos: pos}
		case '!':
			tok = token.BANG
			if s.advanceIf('=') {
				tok = token.NEQ
				if s.advanceIf('=') {
					tok = token.STRICTNEQ
				}
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}
		case '<':
			tok = token.LT
			if s.advanceIf('=') {
				tok = token.LE
			} else if s.advanceIf('<') {
				tok = token.SHL
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}
		case '>':
			tok = token.GT
			if s.advanceIf('=') {
				tok = token.GE
			} else if s.advanceIf('>') {
				tok = token.SHR
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}
		case '=':
			tok = token.ASSIGN
			if s.advanceIf('=') {
				tok = token.EQ
				if s.advanceIf('=') {
					tok = token.STRICTEQ
				}
			}
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}
		case '$':
			tok, *tokVal = token.DOLLAR, token.Value{Raw: "$", Pos: pos}
		case '.':
			tok, *tokVal = token.DOT, token.Value{Raw: ".", Pos: pos}
		case ',':
			tok, *tokVal = token.COMMA, token.Value{Raw: ",", Pos: pos}
		case ':':
			tok, *tokVal = token.COLON, token.Value{Raw: ":", Pos: pos}
		case ';':
			tok, *tokVal = token.SEMI, token.Value{Raw: ";", Pos: pos}
		case '?':
			tok, *tokVal = token.QUESTION, token.Value{Raw: "?", Pos: pos}
		case '(':
			tok, *tokVal = token.LPAREN, token.Value{Raw: "(", Pos: pos}
		case ')':
			tok, *tokVal = token.RPAREN, token.Value{Raw: ")", Pos: pos}
		case '{':
			tok, *tokVal = token.LBRACE, token.Value{Raw: "{", Pos: pos}
		case '}':
			tok, *tokVal = token.RBRACE, token.Value{Raw: "}", Pos: pos}
		case -1:
			tok, *tokVal = token.EOF, token.Value{Raw: "", Pos: pos}
		default:
			s.errorf(start, "illegal character %#U", cur)
			tok, *tokVal = token.ILLEGAL, token.Value{Raw: string(cur), Pos: pos}
		}
	}
	return tok
}

func (s *Scanner) ident() string {
	start := s.off
	for isIdentCont(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch {
		case isWhitespace(s.cur):
			s.advance()
		case s.cur == '#' && s.peek() == '*':
			s.advance()
			s.blockComment()
		case s.cur == '#':
			s.advance()
			s.lineComment()
		default:
			return
		}
	}
}

func isWhitespace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }

func isIdentStart(r rune) bool {
	return r == '_' || r == '@' ||
		r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' ||
		r >= utf8.RuneSelf && unicode.IsLetter(r)
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || r == '-' || isDecimal(r)
}

func isDecimal(r rune) bool { return r >= '0' && r <= '9' }
