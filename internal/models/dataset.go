package models

import (
	"github.com/GoogleCloudPlatform/go-dicom-parser/dicom"
)

// Dataset represents a single loaded DICOM image. It is produced by the
// loader and treated as immutable afterwards: later stages read from it
// and derive new values, they never write back into it.
type Dataset struct {
	// Path is the file the dataset was loaded from
	Path string

	// Pixels holds the decoded intensity values in row-major order.
	// Values are widened to int32 on load so that signed and unsigned
	// sources share one representation.
	Pixels []int32

	// Rows and Cols are the image dimensions in voxels
	Rows int
	Cols int

	// BitsAllocated is the storage size per voxel in the source file (8 or 16)
	BitsAllocated int

	// PixelRepresentation is 0 for unsigned and 1 for two's complement
	// storage, as defined by the DICOM standard
	PixelRepresentation int

	// Position is the ImagePositionPatient triple (x, y, z in mm),
	// or nil when the source file does not carry the tag
	Position []float64

	// Meta is the full parsed tag map of the source file. It is shared
	// read-only with the persister, which copies it before overriding.
	Meta *dicom.DataSet
}

// Shape returns the dataset dimensions as a (rows, cols) pair.
func (d *Dataset) Shape() [2]int {
	return [2]int{d.Rows, d.Cols}
}

// ResidueVolume is the voxel-wise difference of two equal-shape datasets.
// It is created by the residue computer and consumed once by the persister.
type ResidueVolume struct {
	// Data holds the signed differences in row-major order
	Data []int32

	// Rows and Cols are the residue dimensions, equal to the input shape
	// unless the residue was rotated afterwards
	Rows int
	Cols int

	// Source is the dataset whose metadata the output file is derived from
	Source *Dataset
}
