// Package geometry decides whether two loaded datasets are comparable
// voxel for voxel. Comparability is exact: every dimension and the bit
// depth must match, with no tolerance.
package geometry

import (
	"fmt"

	"dicomresidue/internal/models"
)

// IncompatibleGeometryError reports two datasets that cannot be
// subtracted voxel-wise, carrying both shapes for the operator.
type IncompatibleGeometryError struct {
	Reason string
	ShapeA [2]int
	ShapeB [2]int
}

func (e *IncompatibleGeometryError) Error() string {
	return fmt.Sprintf("incompatible geometry: %s (shapes %dx%d vs %dx%d)",
		e.Reason, e.ShapeA[0], e.ShapeA[1], e.ShapeB[0], e.ShapeB[1])
}

// Validate returns nil when the two datasets have identical, well-formed
// shapes and matching bit depth. A zero-sized or malformed shape is
// rejected outright, never treated as equal by coincidence.
func Validate(a, b *models.Dataset) error {
	if err := checkWellFormed(a, b); err != nil {
		return err
	}
	if a.Rows != b.Rows || a.Cols != b.Cols {
		return &IncompatibleGeometryError{
			Reason: "shapes differ",
			ShapeA: a.Shape(),
			ShapeB: b.Shape(),
		}
	}
	if a.BitsAllocated != b.BitsAllocated {
		return &IncompatibleGeometryError{
			Reason: fmt.Sprintf("bit depth differs (%d vs %d)", a.BitsAllocated, b.BitsAllocated),
			ShapeA: a.Shape(),
			ShapeB: b.Shape(),
		}
	}
	return nil
}

func checkWellFormed(a, b *models.Dataset) error {
	for _, d := range []*models.Dataset{a, b} {
		if d.Rows <= 0 || d.Cols <= 0 {
			return &IncompatibleGeometryError{
				Reason: fmt.Sprintf("malformed shape in %s", d.Path),
				ShapeA: a.Shape(),
				ShapeB: b.Shape(),
			}
		}
		if len(d.Pixels) != d.Rows*d.Cols {
			return &IncompatibleGeometryError{
				Reason: fmt.Sprintf("pixel count does not match shape in %s", d.Path),
				ShapeA: a.Shape(),
				ShapeB: b.Shape(),
			}
		}
	}
	return nil
}

// SamePosition reports whether both datasets carry an identical
// ImagePositionPatient. Two files at the exact same position are usually
// the same acquisition read twice; the pipeline can be configured to
// refuse such pairs. Datasets without position information never match.
func SamePosition(a, b *models.Dataset) bool {
	if len(a.Position) == 0 || len(a.Position) != len(b.Position) {
		return false
	}
	for i := range a.Position {
		if a.Position[i] != b.Position[i] {
			return false
		}
	}
	return true
}
