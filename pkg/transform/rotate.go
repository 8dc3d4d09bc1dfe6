package transform

// Rotate90 rotates a row-major grid counter-clockwise by the given
// number of quarter turns and returns the rotated grid with its new
// shape. Negative turn counts rotate clockwise. The input grid is not
// modified.
func Rotate90(data []int32, rows, cols, quarterTurns int) ([]int32, int, int) {
	turns := ((quarterTurns % 4) + 4) % 4

	out := make([]int32, len(data))
	copy(out, data)
	for t := 0; t < turns; t++ {
		out, rows, cols = rotateOnce(out, rows, cols)
	}
	return out, rows, cols
}

// rotateOnce performs a single counter-clockwise quarter turn: the last
// column of the input becomes the first row of the output.
func rotateOnce(data []int32, rows, cols int) ([]int32, int, int) {
	out := make([]int32, len(data))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out[(cols-1-c)*rows+r] = data[r*cols+c]
		}
	}
	return out, cols, rows
}
