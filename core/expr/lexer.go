package expr

import (
	"unicode"
	"unicode/utf8"
)

// ASCII character lookup tables for fast classification
var (
	isWhitespace     [128]bool
	isDigit          [128]bool
	isIdentStart     [128]bool
	isIdentPart      [128]bool
	singleCharTokens [128]TokenType
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f'
		isDigit[i] = '0' <= ch && ch <= '9'
		isIdentStart[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
		isIdentPart[i] = isIdentStart[i] || isDigit[i] || ch == '.'
		singleCharTokens[i] = ILLEGAL
	}

	singleCharTokens['('] = LPAREN
	singleCharTokens[')'] = RPAREN
	singleCharTokens[','] = COMMA
	singleCharTokens['+'] = PLUS
	singleCharTokens['-'] = MINUS
	singleCharTokens['*'] = MULTIPLY
	singleCharTokens['/'] = DIVIDE
	singleCharTokens['%'] = MODULO
	singleCharTokens['^'] = CARET
}

// Lexer splits a formula into tokens.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokens lexes the whole input. The final token is always EOF.
func (l *Lexer) Tokens() []Token {
	tokens := make([]Token, 0, len(l.input)/2+1)
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}

// Next returns the next token.
func (l *Lexer) Next() Token {
	l.skipWhitespace()
	start := l.pos
	if l.pos >= len(l.input) {
		return l.token(EOF, start)
	}

	ch := l.input[l.pos]
	if ch >= utf8.RuneSelf {
		r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
		if unicode.IsLetter(r) {
			return l.lexIdentifier(start)
		}
		l.pos += utf8.RuneLen(r)
		return l.token(ILLEGAL, start)
	}

	switch {
	case isIdentStart[ch]:
		return l.lexIdentifier(start)
	case isDigit[ch]:
		return l.lexNumber(start)
	case ch == '.' && l.pos+1 < len(l.input) && l.input[l.pos+1] < utf8.RuneSelf && isDigit[l.input[l.pos+1]]:
		return l.lexNumber(start)
	case ch == '`':
		return l.lexQuotedIdentifier(start)
	}

	if tt, n := l.twoCharOperator(); n == 2 {
		l.pos += 2
		return l.token(tt, start)
	}

	switch ch {
	case '<':
		l.pos++
		return l.token(LT, start)
	case '>':
		l.pos++
		return l.token(GT, start)
	case '!':
		l.pos++
		return l.token(NOT, start)
	}

	l.pos++
	return l.token(singleCharTokens[ch], start)
}

func (l *Lexer) twoCharOperator() (TokenType, int) {
	if l.pos+1 >= len(l.input) {
		return ILLEGAL, 0
	}
	switch l.input[l.pos : l.pos+2] {
	case "==":
		return EQ_EQ, 2
	case "!=":
		return NOT_EQ, 2
	case "<=":
		return LT_EQ, 2
	case ">=":
		return GT_EQ, 2
	case "&&":
		return AND_AND, 2
	case "||":
		return OR_OR, 2
	}
	return ILLEGAL, 0
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch >= utf8.RuneSelf || !isWhitespace[ch] {
			return
		}
		l.pos++
	}
}

func (l *Lexer) lexIdentifier(start int) Token {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch < utf8.RuneSelf {
			if !isIdentPart[ch] {
				break
			}
			l.pos++
			continue
		}
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.pos += size
	}
	return l.token(IDENTIFIER, start)
}

// lexQuotedIdentifier reads `name`, which may hold characters that are
// operators elsewhere, as in `IGHM_g_%`. The token text excludes the quotes.
func (l *Lexer) lexQuotedIdentifier(start int) Token {
	l.pos++ // opening backtick
	for l.pos < len(l.input) && l.input[l.pos] != '`' {
		l.pos++
	}
	if l.pos >= len(l.input) || l.pos == start+1 {
		// Unterminated or empty.
		if l.pos < len(l.input) {
			l.pos++
		}
		return l.token(ILLEGAL, start)
	}
	tok := Token{
		Type:     IDENTIFIER,
		Text:     l.input[start+1 : l.pos],
		Position: Position{Offset: start, Column: start + 1},
	}
	l.pos++ // closing backtick
	return tok
}

func (l *Lexer) lexNumber(start int) Token {
	l.digits()
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		l.pos++
		l.digits()
	}
	if l.pos < len(l.input) && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		save := l.pos
		l.pos++
		if l.pos < len(l.input) && (l.input[l.pos] == '+' || l.input[l.pos] == '-') {
			l.pos++
		}
		if l.pos < len(l.input) && isDigitByte(l.input[l.pos]) {
			l.digits()
		} else {
			l.pos = save
		}
	}
	return l.token(NUMBER, start)
}

func (l *Lexer) digits() {
	for l.pos < len(l.input) && isDigitByte(l.input[l.pos]) {
		l.pos++
	}
}

func isDigitByte(ch byte) bool {
	return ch < utf8.RuneSelf && isDigit[ch]
}

func (l *Lexer) token(tt TokenType, start int) Token {
	return Token{
		Type:     tt,
		Text:     l.input[start:l.pos],
		Position: Position{Offset: start, Column: start + 1},
	}
}
