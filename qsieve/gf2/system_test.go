package gf2

import "testing"

func TestShouldSolve(t *testing.T) {
	// system:
	// 1 1 0 0 0
	// 0 0 1 0 0
	system := WithLabels(
		[][]Term{
			{{Index: 0, Count: 1}, {Index: 1, Count: 1}},
			{{Index: 2, Count: 1}},
		},
		[]int{0, 1, 2, 3, 4},
		[]int{0, 1},
	)

	system.Diagonalize()
	sol := ProduceSolution(system)

	if !sol.FreeVariables[1] || len(sol.FreeVariables) != 1 {
		t.Fatalf("expected free variables {1}, got %v", sol.FreeVariables)
	}
	if !sol.LonelyVariables[3] || !sol.LonelyVariables[4] || len(sol.LonelyVariables) != 2 {
		t.Fatalf("expected lonely variables {3,4}, got %v", sol.LonelyVariables)
	}
	if !sol.Constants[2] || len(sol.Constants) != 1 {
		t.Fatalf("expected constants {2}, got %v", sol.Constants)
	}
	if len(sol.Dependencies) != 1 || sol.Dependencies[0].Variable != 0 || !sol.Dependencies[0].Factors[1] {
		t.Fatalf("expected single dependency var=0 factors={1}, got %v", sol.Dependencies)
	}
}

func TestFastPivot(t *testing.T) {
	system := WithLabels(
		[][]Term{
			{{Index: 0, Count: 1}, {Index: 1, Count: 1}},
			{{Index: 0, Count: 1}, {Index: 1, Count: 1}, {Index: 2, Count: 1}},
			{{Index: 2, Count: 1}, {Index: 3, Count: 1}},
			{{Index: 1, Count: 1}, {Index: 2, Count: 1}, {Index: 4, Count: 1}},
		},
		[]int{0, 1, 2, 3, 4},
		[]int{2, 3, 5, 7},
	)

	result, err := system.FastPivot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected exactly one dependency, got %d: %v", len(result), result)
	}

	got := make(map[int]bool)
	for _, v := range result[0] {
		got[v] = true
	}
	want := map[int]bool{0: true, 1: true, 4: true}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for v := range want {
		if !got[v] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestFastPivotRejectsNarrowMatrix(t *testing.T) {
	system := WithLabels(
		[][]Term{
			{{Index: 0, Count: 1}},
			{{Index: 1, Count: 1}},
		},
		[]int{0, 1},
		[]int{2, 3},
	)
	if _, err := system.FastPivot(); err != ErrNotWideEnough {
		t.Fatalf("expected ErrNotWideEnough, got %v", err)
	}
}

func TestTransposeRoundTrip(t *testing.T) {
	system := WithLabels(
		[][]Term{
			{{Index: 0, Count: 1}, {Index: 1, Count: 1}},
			{{Index: 1, Count: 1}},
		},
		[]int{0, 1},
		[]int{10, 11},
	)
	transposed := system.Transpose()
	if len(transposed.Rows) != 2 || len(transposed.XLabels) != 2 {
		t.Fatalf("unexpected transpose shape: %+v", transposed)
	}
	// column 0 appeared only in row labelled 10.
	if !transposed.Rows[0].Contains(10) || transposed.Rows[0].Contains(11) {
		t.Fatalf("unexpected transposed row 0: %v", transposed.Rows[0])
	}
	// column 1 appeared in both rows.
	if !transposed.Rows[1].Contains(10) || !transposed.Rows[1].Contains(11) {
		t.Fatalf("unexpected transposed row 1: %v", transposed.Rows[1])
	}
	// transposing back restores the original rows.
	back := transposed.Transpose()
	for i, r := range system.Rows {
		if !back.Rows[i].Equal(r) {
			t.Fatalf("row %d after round trip: %v, want %v", i, back.Rows[i].Items, r.Items)
		}
	}
}
