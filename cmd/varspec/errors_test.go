package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opal-lang/varspec/core/verrors"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "generic",
			err:  errors.New("boom"),
			want: "Error: boom\n",
		},
		{
			name: "cli",
			err:  &CLIError{Type: "usage", Message: "bad flag", Details: "more", Hint: "try again"},
			want: "Error: bad flag\n\nmore\nHint: try again\n",
		},
		{
			name: "validation",
			err:  verrors.New(verrors.DuplicateDirective, "Only one instance of the lead variable nd<k> is allowed.").WithToken("nd2"),
			want: "Error: Only one instance of the lead variable nd<k> is allowed.\n" +
				"  Kind: DUPLICATE_DIRECTIVE\n" +
				"  Token: nd2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FormatError(&buf, tt.err, false)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestFormatErrorNil(t *testing.T) {
	var buf bytes.Buffer
	FormatError(&buf, nil, true)
	assert.Empty(t, buf.String())
}

func TestColorize(t *testing.T) {
	assert.Equal(t, "x", Colorize("x", ColorRed, false))
	assert.Equal(t, ColorRed+"x"+ColorReset, Colorize("x", ColorRed, true))
}

func TestShouldUseColor(t *testing.T) {
	assert.False(t, ShouldUseColor(true))
	t.Setenv("NO_COLOR", "1")
	assert.False(t, ShouldUseColor(false))
}

func TestCLIErrorText(t *testing.T) {
	err := &CLIError{Message: "a", Details: "b", Hint: "c"}
	assert.Equal(t, "a\nb\nc", err.Error())
}
