package expr

// TokenType represents lexical tokens of the formula language
type TokenType int

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENTIFIER // CD19_ab, u1, `IGHM_g_%`
	NUMBER     // 5, 0.25, 1e-3

	// Punctuation
	LPAREN // (
	RPAREN // )
	COMMA  // ,

	// Arithmetic operators
	PLUS     // +
	MINUS    // -
	MULTIPLY // *
	DIVIDE   // /
	MODULO   // %
	CARET    // ^

	// Comparison operators
	EQ_EQ  // ==
	NOT_EQ // !=
	LT     // <
	LT_EQ  // <=
	GT     // >
	GT_EQ  // >=

	// Logical operators
	AND_AND // &&
	OR_OR   // ||
	NOT     // !
)

// Token represents a lexical token
type Token struct {
	Type     TokenType
	Text     string
	Position Position
}

// Position is a byte offset into the formula source.
type Position struct {
	Offset int
	Column int // 1-based
}

// String returns the token text (for testing and debugging)
func (t Token) String() string {
	return t.Text
}

var tokenNames = map[TokenType]string{
	EOF:        "end of formula",
	ILLEGAL:    "illegal character",
	IDENTIFIER: "identifier",
	NUMBER:     "number",
	LPAREN:     "'('",
	RPAREN:     "')'",
	COMMA:      "','",
	PLUS:       "'+'",
	MINUS:      "'-'",
	MULTIPLY:   "'*'",
	DIVIDE:     "'/'",
	MODULO:     "'%'",
	CARET:      "'^'",
	EQ_EQ:      "'=='",
	NOT_EQ:     "'!='",
	LT:         "'<'",
	LT_EQ:      "'<='",
	GT:         "'>'",
	GT_EQ:      "'>='",
	AND_AND:    "'&&'",
	OR_OR:      "'||'",
	NOT:        "'!'",
}

func tokenName(t TokenType) string {
	if n, ok := tokenNames[t]; ok {
		return n
	}
	return "token"
}
