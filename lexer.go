package main

import (
	"fmt"
	"unicode/utf8"
)

// TokenType is the kind of a scanned token.
type TokenType string

const (
	IDENTIFIER TokenType = "IDENTIFIER"
	INTEGER    TokenType = "INTEGER"
	DECIMAL    TokenType = "DECIMAL"
	CHARACTER  TokenType = "CHARACTER"
	STRING     TokenType = "STRING"
	OPERATOR   TokenType = "OPERATOR"
)

// Token is one lexeme of fern source. Literal is the raw source text of the
// token (quotes and escapes included for character and string literals), and
// Offset is the byte index of its first character in the input.
type Token struct {
	Type    TokenType
	Literal string
	Offset  int
}

// Lexer scans fern source text into a token sequence.
type Lexer struct {
	input string
	pos   int
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Lex scans the whole input, skipping whitespace between tokens. The first
// malformed character aborts the scan.
func (l *Lexer) Lex() ([]Token, error) {
	var tokens []Token
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == ' ' || c == '\t' || c == '\n' {
			l.pos++
			continue
		}
		tok, err := l.lexToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

func (l *Lexer) lexToken() (Token, error) {
	c := l.input[l.pos]
	switch {
	case isLetter(c) || c == '@':
		return l.lexIdentifier(), nil
	case isDigit(c) || (c == '-' && isDigit(l.byteAt(1))):
		return l.lexNumber(), nil
	case c == '\'':
		return l.lexCharacter()
	case c == '"':
		return l.lexString()
	default:
		return l.lexOperator()
	}
}

func (l *Lexer) lexIdentifier() Token {
	start := l.pos
	l.pos++
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if !isLetter(c) && !isDigit(c) && c != '-' && c != '_' {
			break
		}
		l.pos++
	}
	return l.emit(IDENTIFIER, start)
}

// lexNumber scans an optionally negative integer or decimal literal. A
// decimal point is consumed only when a digit follows it, so "1." scans as
// the integer 1 followed by the "." operator.
func (l *Lexer) lexNumber() Token {
	start := l.pos
	if l.input[l.pos] == '-' {
		l.pos++
	}
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.byteAt(0) == '.' && isDigit(l.byteAt(1)) {
		l.pos += 2
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
		return l.emit(DECIMAL, start)
	}
	return l.emit(INTEGER, start)
}

func (l *Lexer) lexCharacter() (Token, error) {
	start := l.pos
	l.pos++ // opening quote
	if l.pos >= len(l.input) {
		return Token{}, &SourceError{Msg: "expected closing single quote", Offset: l.pos}
	}
	if l.input[l.pos] == '\\' {
		if err := l.lexEscape(); err != nil {
			return Token{}, err
		}
	} else {
		_, size := utf8.DecodeRuneInString(l.input[l.pos:])
		l.pos += size
	}
	if l.pos >= len(l.input) || l.input[l.pos] != '\'' {
		return Token{}, &SourceError{Msg: "expected closing single quote", Offset: l.pos}
	}
	l.pos++
	return l.emit(CHARACTER, start), nil
}

func (l *Lexer) lexString() (Token, error) {
	start := l.pos
	l.pos++ // opening quote
	for {
		if l.pos >= len(l.input) {
			return Token{}, &SourceError{Msg: "unterminated string", Offset: l.pos}
		}
		switch l.input[l.pos] {
		case '"':
			l.pos++
			return l.emit(STRING, start), nil
		case '\\':
			if err := l.lexEscape(); err != nil {
				return Token{}, err
			}
		default:
			l.pos++
		}
	}
}

// lexEscape consumes a backslash and its escape character. The caller has
// already seen the backslash at the current position.
func (l *Lexer) lexEscape() error {
	l.pos++
	if l.pos >= len(l.input) {
		return &SourceError{Msg: "unterminated escape sequence", Offset: l.pos}
	}
	c := l.input[l.pos]
	switch c {
	case 'b', 'n', 'r', 't', '\'', '"', '\\':
		l.pos++
		return nil
	default:
		return &SourceError{Msg: fmt.Sprintf("invalid escape character %q", c), Offset: l.pos}
	}
}

func (l *Lexer) lexOperator() (Token, error) {
	start := l.pos
	c := l.input[l.pos]
	switch c {
	case '+', '-', '*', '/', '^', ';', '(', ')', '.', '[', ']', ',', ':':
		l.pos++
		return l.emit(OPERATOR, start), nil
	case '<', '>', '!', '=':
		l.pos++
		if l.byteAt(0) == '=' {
			l.pos++
		}
		return l.emit(OPERATOR, start), nil
	case '&':
		l.pos++
		if l.byteAt(0) == '&' {
			l.pos++
		}
		return l.emit(OPERATOR, start), nil
	case '|':
		l.pos++
		if l.byteAt(0) == '|' {
			l.pos++
		}
		return l.emit(OPERATOR, start), nil
	default:
		return Token{}, &SourceError{Msg: fmt.Sprintf("invalid character %q", c), Offset: l.pos}
	}
}

func (l *Lexer) emit(typ TokenType, start int) Token {
	return Token{Type: typ, Literal: l.input[start:l.pos], Offset: start}
}

// byteAt returns the byte at pos+offset, or 0 past the end of input.
func (l *Lexer) byteAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
