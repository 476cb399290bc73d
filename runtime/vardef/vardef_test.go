package vardef

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/varspec/core/expr"
	"github.com/opal-lang/varspec/core/verrors"
)

func resolve(t *testing.T, pairs ...Pair) *Set {
	t.Helper()
	set, err := Resolve(pairs, nil)
	require.NoError(t, err)
	return set
}

func text(t *testing.T, s *Set, name string) string {
	t.Helper()
	d, ok := s.Lookup(name)
	require.True(t, ok, "no definition %s", name)
	return d.Text
}

func TestResolveInlinesReference(t *testing.T) {
	s := resolve(t, Pair{"A", "5"}, Pair{"B", "A+1"})

	assert.Equal(t, "5", text(t, s, "A"))
	assert.Equal(t, "(5) + 1", text(t, s, "B"))

	b, _ := s.Lookup("B")
	assert.False(t, b.Tree.References("A"))
	assert.Equal(t, "A+1", b.Source)
}

func TestResolveQuotedCallName(t *testing.T) {
	s := resolve(t, Pair{"A", "1"}, Pair{"B", "`x y`(A)"})
	assert.Equal(t, "`x y`((1))", text(t, s, "B"))

	_, err := expr.Compile(text(t, s, "B"))
	assert.NoError(t, err)
}

func TestResolveKeepsPrecedence(t *testing.T) {
	s := resolve(t,
		Pair{"sum", "u_mean + r_mean"},
		Pair{"scaled", "sum * 2"},
	)
	assert.Equal(t, "(u_mean + r_mean) * 2", text(t, s, "scaled"))
}

func TestResolveChainDeclaredBackwards(t *testing.T) {
	s := resolve(t,
		Pair{"C", "B * 2"},
		Pair{"B", "A + 1"},
		Pair{"A", "x"},
	)
	assert.Equal(t, "((x) + 1) * 2", text(t, s, "C"))
	assert.Equal(t, []string{"C", "B", "A"}, s.Names())
}

func TestResolveDiamond(t *testing.T) {
	s := resolve(t,
		Pair{"A", "x"},
		Pair{"B", "A + 1"},
		Pair{"C", "A * 2"},
		Pair{"D", "B - C"},
	)
	assert.Equal(t, "((x) + 1) - ((x) * 2)", text(t, s, "D"))
}

func TestResolveOrderIndependent(t *testing.T) {
	forward := resolve(t,
		Pair{"A", "x"},
		Pair{"B", "A + 1"},
		Pair{"C", "A * 2"},
		Pair{"D", "B - C"},
	)
	backward := resolve(t,
		Pair{"D", "B - C"},
		Pair{"C", "A * 2"},
		Pair{"B", "A + 1"},
		Pair{"A", "x"},
	)

	if diff := cmp.Diff(forward.Canonical(), backward.Canonical()); diff != "" {
		t.Errorf("canonical mismatch (-forward +backward):\n%s", diff)
	}

	f1, err := forward.Fingerprint()
	require.NoError(t, err)
	f2, err := backward.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, f1, f2)
	assert.Regexp(t, `^blake2b:[0-9a-f]{64}$`, f1)
}

func TestFingerprintChangesWithText(t *testing.T) {
	a, err := resolve(t, Pair{"A", "x + 1"}).Fingerprint()
	require.NoError(t, err)
	b, err := resolve(t, Pair{"A", "x + 2"}).Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestFreeVarsNeverContainDefinedNames(t *testing.T) {
	s := resolve(t,
		Pair{"A", "u_mean"},
		Pair{"B", "A / r_mean"},
		Pair{"C", "log(B) + A"},
	)
	free := s.FreeVars()
	assert.Equal(t, []string{"r_mean", "u_mean"}, free)
	for _, name := range s.Names() {
		assert.NotContains(t, free, name)
	}
}

func TestResolveCycle(t *testing.T) {
	_, err := Resolve([]Pair{
		{"A", "B + 1"},
		{"B", "C * 2"},
		{"C", "A - 1"},
	}, nil)
	require.Error(t, err)
	assert.Equal(t, "VAR_DEF arguments define a circular chain of dependencies.", err.Error())
	assert.True(t, verrors.Is(err, verrors.CircularDependency))

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"A", "B", "C", "A"}, cycleErr.Cycle)
	assert.Equal(t, "A -> B -> C -> A", cycleErr.Path())
}

func TestResolveSelfReference(t *testing.T) {
	_, err := Resolve([]Pair{{"x1", "y"}, {"A", "A + 1"}}, nil)
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"A", "A"}, cycleErr.Cycle)
}

func TestResolveDuplicateName(t *testing.T) {
	_, err := Resolve([]Pair{{"A", "1"}, {"A", "2"}}, nil)
	require.Error(t, err)
	assert.True(t, verrors.Is(err, verrors.StructuralMismatch))
	assert.Equal(t, "VAR_DEF variable A is defined more than once.", err.Error())
}

func TestResolveCompileError(t *testing.T) {
	_, err := Resolve([]Pair{{"A", "1 +"}}, nil)
	require.Error(t, err)
	assert.True(t, verrors.Is(err, verrors.StructuralMismatch))

	var perr *expr.ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestResolveUsesCompileFunc(t *testing.T) {
	var calls []string
	compile := func(src string) (*expr.Expr, error) {
		calls = append(calls, src)
		return expr.Compile(src)
	}
	_, err := Resolve([]Pair{{"A", "2"}, {"B", "A ^ 2"}}, compile)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "A ^ 2", "(2) ^ 2"}, calls)
}

func TestResolveRecompileFailurePanics(t *testing.T) {
	compile := func(src string) (*expr.Expr, error) {
		if src == "(2) + 1" {
			return nil, fmt.Errorf("refused")
		}
		return expr.Compile(src)
	}
	assert.Panics(t, func() {
		_, _ = Resolve([]Pair{{"A", "2"}, {"B", "A + 1"}}, compile)
	})
}

func TestInlineFields(t *testing.T) {
	s := resolve(t, Pair{"A", "5"}, Pair{"B", "A+1"})
	got := s.InlineFields([]string{"n", "B", "u_mean", "A"})
	assert.Equal(t, []string{"n", "(5) + 1", "u_mean", "5"}, got)
}

func TestValidateReferences(t *testing.T) {
	s := resolve(t, Pair{"A", "u_mean"}, Pair{"B", "A + bogus"})

	var seen []string
	err := s.ValidateReferences(func(name string) error {
		seen = append(seen, name)
		if name == "bogus" {
			return fmt.Errorf("unknown variable %s", name)
		}
		return nil
	})
	require.EqualError(t, err, "unknown variable bogus")
	assert.Equal(t, []string{"u_mean", "bogus"}, seen)
}

func TestEmptySet(t *testing.T) {
	s := resolve(t)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.FreeVars())
	assert.Equal(t, []string{"x"}, s.InlineFields([]string{"x"}))
}
