package invariant_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/varspec/core/invariant"
)

// panicMessage runs fn and returns the recovered panic message.
func panicMessage(t *testing.T, fn func()) (msg string) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		msg = fmt.Sprintf("%v", r)
	}()
	fn()
	return ""
}

func TestPassingAssertionsDoNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		invariant.Precondition(true, "ok")
		invariant.Postcondition(len("CD19_ab") > 0, "ok")
		invariant.Invariant(1 < 2, "ok")
		invariant.NotNil(&struct{}{}, "def")
		invariant.NotNil([]string{"a"}, "names")
		invariant.InRange(0, 0, 10, "round")
		invariant.InRange(10, 0, 10, "round")
		invariant.ExpectNoError(nil, "recompile")
	})
}

func TestViolationKinds(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
		want []string
	}{
		{
			name: "precondition",
			fn:   func() { invariant.Precondition(false, "records must not be nil") },
			want: []string{"PRECONDITION VIOLATION", "records must not be nil"},
		},
		{
			name: "postcondition",
			fn:   func() { invariant.Postcondition(false, "vocabulary must be sorted") },
			want: []string{"POSTCONDITION VIOLATION", "vocabulary must be sorted"},
		},
		{
			name: "invariant with args",
			fn:   func() { invariant.Invariant(false, "round %d exceeds %d defs", 5, 4) },
			want: []string{"INVARIANT VIOLATION", "round 5 exceeds 4 defs"},
		},
		{
			name: "typed nil",
			fn: func() {
				var p *string
				invariant.NotNil(p, "def")
			},
			want: []string{"PRECONDITION VIOLATION", "def must not be nil"},
		},
		{
			name: "out of range",
			fn:   func() { invariant.InRange(11, 0, 10, "index") },
			want: []string{"must be in range [0, 10]", "got 11"},
		},
		{
			name: "unexpected error",
			fn:   func() { invariant.ExpectNoError(errors.New("unexpected token"), "recompile B") },
			want: []string{"POSTCONDITION VIOLATION", "recompile B must not fail: unexpected token"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := panicMessage(t, tt.fn)
			for _, w := range tt.want {
				assert.Contains(t, msg, w)
			}
		})
	}
}

func TestViolationIncludesCallerLocation(t *testing.T) {
	msg := panicMessage(t, func() { invariant.Precondition(false, "stack") })
	assert.Contains(t, msg, "invariant_test.go:")
}

func ExampleInvariant() {
	defs := []string{"A", "B", "C"}
	for round := 0; round < 2; round++ {
		invariant.Invariant(round <= len(defs), "substitution must terminate")
		fmt.Println("round", round)
	}
	// Output:
	// round 0
	// round 1
}
