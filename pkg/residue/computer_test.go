package residue

import (
	"math"
	"testing"

	"dicomresidue/internal/models"
)

// makeDataset builds an in-memory dataset for computer tests.
func makeDataset(rows, cols int, pixel func(i int) int32) *models.Dataset {
	pixels := make([]int32, rows*cols)
	for i := range pixels {
		pixels[i] = pixel(i)
	}
	return &models.Dataset{
		Path:          "test.dcm",
		Pixels:        pixels,
		Rows:          rows,
		Cols:          cols,
		BitsAllocated: 16,
	}
}

func TestComputeSubtractionLaw(t *testing.T) {
	a := makeDataset(4, 5, func(i int) int32 { return int32(3*i + 7) })
	b := makeDataset(4, 5, func(i int) int32 { return int32(i * i % 50) })

	r, err := Compute(a, b)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if r.Rows != 4 || r.Cols != 5 {
		t.Fatalf("shape not preserved: got %dx%d, want 4x5", r.Rows, r.Cols)
	}
	for i := range r.Data {
		if want := a.Pixels[i] - b.Pixels[i]; r.Data[i] != want {
			t.Fatalf("residue law broken at %d: got %d, want %d", i, r.Data[i], want)
		}
	}
	if r.Source != a {
		t.Fatal("residue source should be the first operand")
	}
}

func TestComputeIdenticalInputsAreZero(t *testing.T) {
	a := makeDataset(8, 8, func(i int) int32 { return int32(i) })
	b := makeDataset(8, 8, func(i int) int32 { return int32(i) })

	r, err := Compute(a, b)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	for i, v := range r.Data {
		if v != 0 {
			t.Fatalf("residue of identical inputs not zero at %d: got %d", i, v)
		}
	}
}

func TestComputeAntiCommutative(t *testing.T) {
	a := makeDataset(6, 6, func(i int) int32 { return int32(1000 - i) })
	b := makeDataset(6, 6, func(i int) int32 { return int32(i % 17) })

	ab, err := Compute(a, b)
	if err != nil {
		t.Fatalf("Compute(a,b) failed: %v", err)
	}
	ba, err := Compute(b, a)
	if err != nil {
		t.Fatalf("Compute(b,a) failed: %v", err)
	}

	for i := range ab.Data {
		if ab.Data[i] != -ba.Data[i] {
			t.Fatalf("anti-commutativity broken at %d: %d vs %d", i, ab.Data[i], ba.Data[i])
		}
	}
}

func TestComputeNoUnsignedWraparound(t *testing.T) {
	// B larger than A everywhere; the difference must come out negative
	// rather than wrapping like 16-bit unsigned arithmetic would.
	a := makeDataset(2, 2, func(i int) int32 { return 10 })
	b := makeDataset(2, 2, func(i int) int32 { return 65535 })

	r, err := Compute(a, b)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	for i, v := range r.Data {
		if v != -65525 {
			t.Fatalf("expected -65525 at %d, got %d", i, v)
		}
	}
}

func TestComputeRejectsShapeMismatch(t *testing.T) {
	a := makeDataset(4, 4, func(i int) int32 { return 1 })
	b := makeDataset(4, 5, func(i int) int32 { return 1 })

	if _, err := Compute(a, b); err == nil {
		t.Fatal("expected error for mismatched shapes")
	}
}

func TestDiffRejectsLengthMismatch(t *testing.T) {
	if _, err := Diff([]int32{1, 2}, []int32{1}); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

func TestSummarize(t *testing.T) {
	r := &models.ResidueVolume{
		Data: []int32{-2, 0, 5, 1},
		Rows: 2,
		Cols: 2,
	}

	m := Summarize(r)

	if m.Min != -2 {
		t.Errorf("Min: got %d, want -2", m.Min)
	}
	if m.Max != 5 {
		t.Errorf("Max: got %d, want 5", m.Max)
	}
	if m.NonZero != 3 {
		t.Errorf("NonZero: got %d, want 3", m.NonZero)
	}
	if math.Abs(m.Mean-1.0) > 1e-9 {
		t.Errorf("Mean: got %v, want 1.0", m.Mean)
	}
	// Sample standard deviation of {-2, 0, 5, 1} is sqrt(26/3).
	if want := math.Sqrt(26.0 / 3.0); math.Abs(m.StdDev-want) > 1e-9 {
		t.Errorf("StdDev: got %v, want %v", m.StdDev, want)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	m := Summarize(&models.ResidueVolume{})
	if m.Min != 0 || m.Max != 0 || m.NonZero != 0 {
		t.Fatalf("empty residue should summarize to zeros, got %+v", m)
	}
}
