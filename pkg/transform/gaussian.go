// Package transform provides the pixel-grid transformations applied
// around residue computation: gaussian smoothing of the inputs and
// quarter-turn rotation of the result.
package transform

import (
	"math"
)

// Gaussian smooths a row-major grid with a separable gaussian kernel of
// the given standard deviation and returns a new grid; the input is not
// modified. The kernel radius is 4 sigma rounded, and edges are handled
// by clamping coordinates to the grid, so a constant grid stays constant.
// Sigma of zero or less returns an unsmoothed copy.
func Gaussian(data []int32, rows, cols int, sigma float64) []int32 {
	out := make([]int32, len(data))
	if sigma <= 0 || rows <= 0 || cols <= 0 {
		copy(out, data)
		return out
	}

	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2

	// Horizontal pass into a float buffer, then vertical pass rounding
	// back to int32.
	tmp := make([]float64, len(data))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				cc := clamp(c+k, cols-1)
				sum += kernel[k+radius] * float64(data[r*cols+cc])
			}
			tmp[r*cols+c] = sum
		}
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				rr := clamp(r+k, rows-1)
				sum += kernel[k+radius] * tmp[rr*cols+c]
			}
			out[r*cols+c] = int32(math.Round(sum))
		}
	}
	return out
}

// gaussianKernel builds a normalized 1D kernel of radius 4 sigma.
func gaussianKernel(sigma float64) []float64 {
	radius := int(4*sigma + 0.5)
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := range kernel {
		x := float64(i - radius)
		kernel[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func clamp(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}
