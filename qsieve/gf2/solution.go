package gf2

import "sort"

// Dependency records that variable is the sum, mod 2, of the variables
// in factors (a pivot row with more than one nonzero entry after
// diagonalization).
type Dependency struct {
	Variable int
	Factors  map[int]bool
}

// Solution classifies a diagonalized system's columns into four
// disjoint sets, ready for Substitute to assemble a concrete {0,1}
// assignment from a choice of free-variable values.
type Solution struct {
	Vars            map[int]bool
	FreeVariables   map[int]bool
	LonelyVariables map[int]bool
	Constants       map[int]bool
	Dependencies    []Dependency
}

// ProduceSolution classifies the columns of a diagonalized system:
// rows with exactly one nonzero entry pin that column to zero
// (constants); the remaining nonzero rows, read from the bottom up,
// each define their pivot variable as the XOR of the later columns
// that are not already constants, introducing a free variable for
// every column that is neither a pivot nor a constant; every other
// column is lonely: one touched by no row at all, or the pivot of a
// row whose remaining entries are all constants.
func ProduceSolution(system *System) Solution {
	constants := make(map[int]bool)

	for _, row := range system.Rows {
		term, ok := row.LeastTerm()
		if !ok {
			break
		}
		if len(row.Items) == 1 {
			constants[term] = true
		}
	}

	dependentVars := make(map[int]bool)
	freeVariables := make(map[int]bool)
	var relations []Dependency

	for i := len(system.Rows) - 1; i >= 0; i-- {
		row := system.Rows[i]
		if len(row.Items) < 2 {
			continue
		}
		rightSide := make(map[int]bool)
		for _, item := range row.Items[1:] {
			if !constants[item] {
				rightSide[item] = true
			}
		}
		// a single free variable on the right side is still a valid
		// dependency; only a tail consisting entirely of constants
		// leaves the pivot with nothing to depend on.
		if len(rightSide) == 0 {
			continue
		}

		pivot := row.Items[0]
		dependentVars[pivot] = true
		for item := range rightSide {
			if !dependentVars[item] {
				freeVariables[item] = true
			}
		}
		relations = append(relations, Dependency{Variable: pivot, Factors: rightSide})
	}

	participating := make(map[int]bool)
	for v := range dependentVars {
		participating[v] = true
	}
	for v := range freeVariables {
		participating[v] = true
	}
	for v := range constants {
		participating[v] = true
	}

	lonelyVariables := make(map[int]bool)
	vars := make(map[int]bool)
	for _, v := range system.XLabels {
		vars[v] = true
		if !participating[v] {
			lonelyVariables[v] = true
		}
	}

	return Solution{
		Vars:            vars,
		FreeVariables:   freeVariables,
		LonelyVariables: lonelyVariables,
		Constants:       constants,
		Dependencies:    relations,
	}
}

// SortedFreeVariables returns the free variable indices in ascending
// order, the iteration order Substitute's caller should use to line up
// freeVars with FreeVariables.
func (s Solution) SortedFreeVariables() []int {
	out := make([]int, 0, len(s.FreeVariables))
	for v := range s.FreeVariables {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Substitute assigns freeVars (in SortedFreeVariables order) to the
// free variables, optionally sets every lonely variable to true, then
// walks the dependency list to fill in every dependent variable as the
// XOR of its factors. Constants are left false (their zero value).
func (s Solution) Substitute(freeVars []bool, includeLonelies bool) []bool {
	if len(freeVars) != len(s.FreeVariables) {
		panic("gf2: Substitute: free variable count mismatch")
	}
	answer := make([]bool, len(s.Vars))

	for i, idx := range s.SortedFreeVariables() {
		answer[idx] = freeVars[i]
	}

	if includeLonelies {
		for v := range s.LonelyVariables {
			answer[v] = true
		}
	}

	for _, dep := range s.Dependencies {
		sum := false
		first := true
		for idx := range dep.Factors {
			if first {
				sum = answer[idx]
				first = false
				continue
			}
			sum = sum != answer[idx]
		}
		answer[dep.Variable] = sum
	}

	return answer
}
