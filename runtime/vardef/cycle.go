package vardef

import (
	"strings"

	"github.com/opal-lang/varspec/core/verrors"
)

const circularMessage = "VAR_DEF arguments define a circular chain of dependencies."

// CycleError reports derived variables that depend on themselves.
type CycleError struct {
	Cycle []string // e.g. ["A", "B", "C", "A"]
	err   *verrors.Error
}

func newCycleError(cycle []string) *CycleError {
	return &CycleError{
		Cycle: cycle,
		err:   verrors.New(verrors.CircularDependency, circularMessage).WithToken(cycle[0]),
	}
}

func (e *CycleError) Error() string {
	return e.err.Error()
}

func (e *CycleError) Unwrap() error {
	return e.err
}

// Path renders the cycle as "A -> B -> A".
func (e *CycleError) Path() string {
	return strings.Join(e.Cycle, " -> ")
}

// graph holds dependency edges between definitions: uses[j] lists the
// definitions j refers to, in reference order.
type graph struct {
	names []string
	uses  [][]int
}

// closure computes reach[i][j]: j depends, directly or transitively, on i.
// It relaxes every edge until nothing changes.
func (g *graph) closure() [][]bool {
	n := len(g.names)
	reach := make([][]bool, n)
	for i := range reach {
		reach[i] = make([]bool, n)
	}
	for {
		progress := false
		for j, deps := range g.uses {
			for _, i := range deps {
				if !reach[i][j] {
					reach[i][j] = true
					progress = true
				}
				for l := 0; l < n; l++ {
					if reach[l][i] && !reach[l][j] {
						reach[l][j] = true
						progress = true
					}
					if reach[j][l] && !reach[i][l] {
						reach[i][l] = true
						progress = true
					}
				}
			}
		}
		if !progress {
			return reach
		}
	}
}

// findCycle returns one dependency cycle reachable from start, or nil.
func (g *graph) findCycle(start int) []string {
	return g.detect(start, nil, make(map[int]bool))
}

// detect performs depth-first search; a back edge to a node on the current
// path closes a cycle.
func (g *graph) detect(node int, path []int, visiting map[int]bool) []string {
	if visiting[node] {
		begin := 0
		for k, p := range path {
			if p == node {
				begin = k
				break
			}
		}
		cycle := make([]string, 0, len(path)-begin+1)
		for _, p := range path[begin:] {
			cycle = append(cycle, g.names[p])
		}
		return append(cycle, g.names[node])
	}

	visiting[node] = true
	path = append(path, node)
	for _, dep := range g.uses[node] {
		if cycle := g.detect(dep, path, visiting); cycle != nil {
			return cycle
		}
	}
	delete(visiting, node)
	return nil
}
