package residue

import (
	"gonum.org/v1/gonum/stat"

	"dicomresidue/internal/models"
)

// Metrics summarizes a residue volume for operator reporting. A residue
// that is all zeros, or one with an unexpectedly large spread, is often
// the fastest hint that the wrong pair of files was compared.
type Metrics struct {
	// Min and Max are the extreme signed differences
	Min int32
	Max int32

	// Mean and StdDev describe the residue distribution
	Mean   float64
	StdDev float64

	// NonZero counts voxels where the two inputs differ
	NonZero int
}

// Summarize computes Metrics over the residue data.
func Summarize(r *models.ResidueVolume) Metrics {
	m := Metrics{}
	if len(r.Data) == 0 {
		return m
	}

	vals := make([]float64, len(r.Data))
	m.Min = r.Data[0]
	m.Max = r.Data[0]
	for i, v := range r.Data {
		vals[i] = float64(v)
		if v < m.Min {
			m.Min = v
		}
		if v > m.Max {
			m.Max = v
		}
		if v != 0 {
			m.NonZero++
		}
	}
	m.Mean, m.StdDev = stat.MeanStdDev(vals, nil)
	return m
}
