package user_image

import "fmt"

// CalculateWidth returns the width that keeps w:h at target height t.
// The result is truncated toward zero, never rounded.
func CalculateWidth(w, h, t int) (int, error) {
	if w <= 0 || h <= 0 || t <= 0 {
		return 0, fmt.Errorf("%w: width=%d height=%d target=%d", ErrInvalidDimension, w, h, t)
	}

	return int(float64(t) * float64(w) / float64(h)), nil
}
