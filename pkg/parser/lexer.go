package parser

import (
	"strings"
	"unicode/utf8"
)

const eof = -1

// Lexer converts a JSONSelection expression into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go"
// technique: a small cursor machine over the input string.
//
// Whitespace and #-comments (running to end of line) are skipped between
// tokens; token spans always refer to byte offsets in the original input.
type Lexer struct {
	input   string
	length  int
	start   int // start position of current token
	current int // current position in input
	width   int // width of last rune read
	err     *ParseError
}

// NewLexer creates a new lexer over the input string.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Tokenize scans the whole input and returns the token stream, excluding the
// terminating EOF token. It returns the first lexical error encountered.
func Tokenize(input string) ([]Token, *ParseError) {
	l := NewLexer(input)
	var tokens []Token
	for {
		t := l.Next()
		if t.Type == TokenError {
			return nil, l.err
		}
		if t.Type == TokenEOF {
			return tokens, nil
		}
		tokens = append(tokens, t)
	}
}

// Next returns the next token from the input. When the end of the input is
// reached, Next returns TokenEOF for all subsequent calls.
func (l *Lexer) Next() Token {
	l.skipSpacesAndComments()

	ch := l.nextRune()
	if ch == eof {
		return l.eofToken()
	}

	switch ch {
	case '$':
		return l.newToken(TokenDollar)
	case '@':
		return l.newToken(TokenAt)
	case '.':
		return l.newToken(TokenDot)
	case ',':
		return l.newToken(TokenComma)
	case ':':
		return l.newToken(TokenColon)
	case '*':
		return l.newToken(TokenStar)
	case '{':
		return l.newToken(TokenLBrace)
	case '}':
		return l.newToken(TokenRBrace)
	case '[':
		return l.newToken(TokenLBracket)
	case ']':
		return l.newToken(TokenRBracket)
	case '(':
		return l.newToken(TokenLParen)
	case ')':
		return l.newToken(TokenRParen)
	case '-':
		if l.acceptRune('>') {
			return l.newToken(TokenArrow)
		}
		if l.accept(isDigit) {
			l.backup()
			return l.scanNumber()
		}
		return l.errorToken("unexpected '-'")
	case '"', '\'':
		return l.scanString(ch)
	}

	if isDigit(ch) {
		l.backup()
		return l.scanNumber()
	}
	if isIdentStart(ch) {
		l.backup()
		return l.scanIdent()
	}

	return l.errorToken("unexpected character " + string(ch))
}

// scanString reads a single- or double-quoted string literal. The opening
// quote has already been consumed. Escapes: \n becomes a newline, any other
// escaped character stands for itself.
func (l *Lexer) scanString(quote rune) Token {
	var b strings.Builder
	for {
		ch := l.nextRune()
		switch ch {
		case eof:
			return l.errorToken("unterminated string literal")
		case '\\':
			esc := l.nextRune()
			if esc == eof {
				return l.errorToken("unterminated string literal")
			}
			if esc == 'n' {
				b.WriteByte('\n')
			} else {
				b.WriteRune(esc)
			}
		case quote:
			t := l.newToken(TokenString)
			t.Value = b.String()
			return t
		default:
			b.WriteRune(ch)
		}
	}
}

// scanNumber reads an integer or decimal number, optionally signed.
// Format: "-"? [0-9]+ ("." [0-9]+)? | "-"? "." [0-9]+
func (l *Lexer) scanNumber() Token {
	l.acceptRune('-')
	hasInt := l.acceptAll(isDigit)
	beforeDot := l.current
	if l.acceptRune('.') {
		if !l.acceptAll(isDigit) {
			if !hasInt {
				return l.errorToken("malformed number literal")
			}
			// The dot belongs to a following path step, not the number.
			l.current = beforeDot
			l.width = 0
		}
	} else if !hasInt {
		return l.errorToken("malformed number literal")
	}
	return l.newToken(TokenNumber)
}

// scanIdent reads an identifier: [a-zA-Z_][a-zA-Z0-9_]*.
func (l *Lexer) scanIdent() Token {
	l.accept(isIdentStart)
	l.acceptAll(isIdentPart)
	return l.newToken(TokenIdent)
}

// Helper methods

func (l *Lexer) eofToken() Token {
	return Token{Type: TokenEOF, Start: l.current, End: l.current}
}

func (l *Lexer) errorToken(message string) Token {
	t := Token{Type: TokenError, Start: l.start, End: l.current}
	if l.err == nil {
		l.err = &ParseError{Message: message, Offset: t.Start}
	}
	return t
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:  tt,
		Value: l.input[l.start:l.current],
		Start: l.start,
		End:   l.current,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.current >= l.length {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
	l.width = 0
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool { return c == r })
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

func (l *Lexer) skipSpacesAndComments() {
	for {
		l.acceptAll(isWhitespace)
		if l.acceptRune('#') {
			for {
				ch := l.nextRune()
				if ch == eof || ch == '\n' {
					break
				}
			}
			continue
		}
		break
	}
	l.start = l.current
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}
