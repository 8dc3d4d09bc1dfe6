package transform

import (
	"testing"
)

func TestGaussianPreservesConstantGrid(t *testing.T) {
	rows, cols := 10, 10
	data := make([]int32, rows*cols)
	for i := range data {
		data[i] = 7
	}

	out := Gaussian(data, rows, cols, 2.0)
	for i, v := range out {
		if v != 7 {
			t.Fatalf("constant grid changed at index %d: got %d, want 7", i, v)
		}
	}
}

func TestGaussianZeroSigmaCopies(t *testing.T) {
	data := []int32{1, 2, 3, 4}
	out := Gaussian(data, 2, 2, 0)

	for i := range data {
		if out[i] != data[i] {
			t.Fatalf("expected copy at index %d: got %d, want %d", i, out[i], data[i])
		}
	}

	// The result must be an independent grid, not a view of the input.
	out[0] = 99
	if data[0] != 1 {
		t.Fatal("Gaussian with zero sigma aliased the input slice")
	}
}

func TestGaussianSpreadsSpike(t *testing.T) {
	rows, cols := 11, 11
	data := make([]int32, rows*cols)
	center := 5*cols + 5
	data[center] = 1000

	out := Gaussian(data, rows, cols, 1.5)

	if out[center] >= 1000 {
		t.Fatalf("spike not attenuated: got %d", out[center])
	}
	if out[center] <= 0 {
		t.Fatalf("spike vanished entirely: got %d", out[center])
	}

	// Neighbors of the spike pick up intensity and the smoothing is
	// symmetric around the center.
	left, right := out[center-1], out[center+1]
	up, down := out[center-cols], out[center+cols]
	if left == 0 || right == 0 || up == 0 || down == 0 {
		t.Fatalf("spike neighbors untouched: %d %d %d %d", left, right, up, down)
	}
	if left != right || up != down || left != up {
		t.Fatalf("smoothing not symmetric: %d %d %d %d", left, right, up, down)
	}
}

func TestRotate90SingleTurn(t *testing.T) {
	// 2x3 grid:
	//   1 2 3
	//   4 5 6
	in := []int32{1, 2, 3, 4, 5, 6}

	out, rows, cols := Rotate90(in, 2, 3, 1)

	if rows != 3 || cols != 2 {
		t.Fatalf("expected shape 3x2, got %dx%d", rows, cols)
	}
	// One counter-clockwise turn:
	//   3 6
	//   2 5
	//   1 4
	want := []int32{3, 6, 2, 5, 1, 4}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("rotated grid mismatch at %d: got %v, want %v", i, out, want)
		}
	}
}

func TestRotate90FullCircleIsIdentity(t *testing.T) {
	in := []int32{1, 2, 3, 4, 5, 6, 7, 8}

	out, rows, cols := Rotate90(in, 2, 4, 4)

	if rows != 2 || cols != 4 {
		t.Fatalf("expected shape 2x4, got %dx%d", rows, cols)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("four turns changed the grid: got %v, want %v", out, in)
		}
	}
}

func TestRotate90NegativeTurns(t *testing.T) {
	in := []int32{1, 2, 3, 4, 5, 6}

	cw, rows, cols := Rotate90(in, 2, 3, -1)
	ccw3, rows3, cols3 := Rotate90(in, 2, 3, 3)

	if rows != rows3 || cols != cols3 {
		t.Fatalf("shape mismatch: %dx%d vs %dx%d", rows, cols, rows3, cols3)
	}
	for i := range cw {
		if cw[i] != ccw3[i] {
			t.Fatalf("one clockwise turn should equal three counter-clockwise turns: %v vs %v", cw, ccw3)
		}
	}
}

func TestRotate90DoesNotMutateInput(t *testing.T) {
	in := []int32{1, 2, 3, 4}
	Rotate90(in, 2, 2, 1)

	want := []int32{1, 2, 3, 4}
	for i := range want {
		if in[i] != want[i] {
			t.Fatalf("input mutated: got %v, want %v", in, want)
		}
	}
}
