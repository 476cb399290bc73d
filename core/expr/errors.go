package expr

import (
	"fmt"
	"strings"
)

// ParseError represents a formula compile error with location information
type ParseError struct {
	Position Position
	Message  string
	Source   string
	Got      TokenType
}

// Error returns the message followed by a caret snippet:
//
//	missing ')' at column 6
//	  (a + b
//	        ^
func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at column %d", e.Message, e.Position.Column)
	if e.Source != "" {
		b.WriteString("\n  ")
		b.WriteString(e.Source)
		b.WriteString("\n  ")
		b.WriteString(strings.Repeat(" ", e.Position.Offset))
		b.WriteString("^")
	}
	return b.String()
}
