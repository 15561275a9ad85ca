// Package timecode converts between "MM:SS" timecodes and seconds.
package timecode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTimecode is returned for input that does not split into exactly
// two integer fields. Callers that want tolerant behavior must handle it
// explicitly; Parse never silently substitutes zero.
var ErrInvalidTimecode = errors.New("invalid timecode, expected MM:SS")

// Parse converts "MM:SS" to seconds. The seconds field may exceed 59 and is
// treated literally, so "01:90" parses to 150.
func Parse(text string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, text)
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, text)
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, text)
	}
	if minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, text)
	}
	return float64(minutes*60 + seconds), nil
}

// Format renders seconds as "MM:SS" for display, truncating sub-second
// precision.
func Format(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
