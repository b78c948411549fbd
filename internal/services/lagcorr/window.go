package lagcorr

// Windows is a lazy view of all fixed-size sliding windows over a value
// array. Window i covers data[i : i+size); no window is ever copied out of
// the backing array, so callers must treat the returned slices as read-only.
type Windows struct {
	data []float64
	size int
}

// Slide builds the sliding-window view. A series of length N with window
// size W yields N-W+1 windows; shorter inputs yield zero windows.
func Slide(data []float64, size int) Windows {
	return Windows{data: data, size: size}
}

// Count returns the number of windows.
func (w Windows) Count() int {
	if w.size <= 0 || len(w.data) < w.size {
		return 0
	}
	return len(w.data) - w.size + 1
}

// At returns the i-th window as a view into the backing array.
func (w Windows) At(i int) []float64 {
	return w.data[i : i+w.size]
}
