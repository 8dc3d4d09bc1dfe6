// Package residue computes the voxel-wise difference of two loaded
// datasets and summarizes the result for reporting.
package residue

import (
	"fmt"

	"dicomresidue/internal/models"
)

// Compute returns the signed voxel-wise residue A minus B. Both datasets
// must already have passed geometry validation; a shape mismatch here is
// a programming error and is still refused rather than computed over.
//
// Arithmetic happens in int32, wide enough that no combination of 8-bit
// or 16-bit source values can wrap. The sign convention is fixed by the
// caller's operand order: the pipeline passes the lexicographically
// first discovered file as A.
func Compute(a, b *models.Dataset) (*models.ResidueVolume, error) {
	if a.Rows != b.Rows || a.Cols != b.Cols {
		return nil, fmt.Errorf("residue of mismatched shapes %v and %v", a.Shape(), b.Shape())
	}
	data, err := Diff(a.Pixels, b.Pixels)
	if err != nil {
		return nil, err
	}
	return &models.ResidueVolume{
		Data:   data,
		Rows:   a.Rows,
		Cols:   a.Cols,
		Source: a,
	}, nil
}

// Diff subtracts b from a element-wise. It is the pure core of Compute,
// shared with the smoothed-residue path which operates on filtered grids
// rather than datasets.
func Diff(a, b []int32) ([]int32, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("residue of mismatched lengths %d and %d", len(a), len(b))
	}
	out := make([]int32, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out, nil
}
