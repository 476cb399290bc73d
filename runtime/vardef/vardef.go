// Package vardef resolves derived variables (VAR_DEF name=formula).
//
// Definitions may refer to each other. Resolve rejects circular chains and
// then inlines every referenced definition until each formula mentions only
// base variables:
//
//	A=5, B=A+1   =>   B = (5) + 1
//
// Inlining rewrites the formula trees; a referenced definition is inserted as
// a parenthesized copy so operator precedence is kept.
package vardef

import (
	"fmt"

	"github.com/opal-lang/varspec/core/expr"
	"github.com/opal-lang/varspec/core/invariant"
	"github.com/opal-lang/varspec/core/verrors"
)

// Pair is one definition as written.
type Pair struct {
	Name   string
	Source string
}

// CompileFunc turns formula text into a tree.
type CompileFunc func(source string) (*expr.Expr, error)

// Def is a resolved definition.
type Def struct {
	Name   string
	Source string     // as written
	Text   string     // fully inlined formula
	Tree   *expr.Expr // compiled Text
}

// Resolve compiles, checks and inlines the definitions. A nil compile uses
// expr.Compile.
func Resolve(pairs []Pair, compile CompileFunc) (*Set, error) {
	if compile == nil {
		compile = expr.Compile
	}

	n := len(pairs)
	index := make(map[string]int, n)
	trees := make([]*expr.Expr, n)
	for i, p := range pairs {
		if _, dup := index[p.Name]; dup {
			return nil, verrors.Newf(verrors.StructuralMismatch,
				"VAR_DEF variable %s is defined more than once.", p.Name).WithToken(p.Name)
		}
		index[p.Name] = i

		tree, err := compile(p.Source)
		if err != nil {
			return nil, verrors.Wrap(verrors.StructuralMismatch,
				fmt.Sprintf("VAR_DEF argument %s=%s is not a valid formula.", p.Name, p.Source), err).
				WithToken(p.Name)
		}
		invariant.NotNil(tree, "compiled tree")
		trees[i] = tree
	}

	g := dependencies(pairs, index, trees)
	reach := g.closure()
	for i := range reach {
		if reach[i][i] {
			cycle := g.findCycle(i)
			invariant.Invariant(cycle != nil, "closure reports %s on a cycle but search found none", pairs[i].Name)
			return nil, newCycleError(cycle)
		}
	}

	trees = inline(pairs, trees, compile)

	set := &Set{index: index, defs: make([]*Def, n)}
	for i, p := range pairs {
		set.defs[i] = &Def{Name: p.Name, Source: p.Source, Text: trees[i].String(), Tree: trees[i]}
	}
	return set, nil
}

// dependencies builds the edge list: uses[j] holds every definition whose
// name appears among j's variables.
func dependencies(pairs []Pair, index map[string]int, trees []*expr.Expr) *graph {
	g := &graph{names: make([]string, len(pairs)), uses: make([][]int, len(pairs))}
	for j, p := range pairs {
		g.names[j] = p.Name
		for _, v := range trees[j].Vars() {
			if i, ok := index[v]; ok {
				g.uses[j] = append(g.uses[j], i)
			}
		}
	}
	return g
}

// inline substitutes definitions into each other until no formula refers to
// a defined name. Each pass over an acyclic set removes at least one level of
// nesting, so n+1 passes always suffice.
func inline(pairs []Pair, trees []*expr.Expr, compile CompileFunc) []*expr.Expr {
	n := len(pairs)
	for round := 0; ; round++ {
		invariant.Invariant(round <= n+1, "inlining did not settle after %d rounds", round)

		progress := false
		for i, def := range pairs {
			for j := range trees {
				if !trees[j].References(def.Name) {
					continue
				}
				sub := trees[i]
				rewritten := trees[j].Rewrite(func(e *expr.Expr) *expr.Expr {
					if e.Kind == expr.KindIdent && e.Name == def.Name {
						return expr.Paren(sub.Clone())
					}
					return e
				})
				text := rewritten.String()
				recompiled, err := compile(text)
				invariant.ExpectNoError(err, fmt.Sprintf("recompiling inlined formula %q", text))
				trees[j] = recompiled
				progress = true
			}
		}
		if !progress {
			return trees
		}
	}
}
