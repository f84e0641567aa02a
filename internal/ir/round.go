package ir

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Epsilon is the tolerance used for threshold comparisons on rounded times
// and meter values.
const Epsilon = 0.0001

// Round3 rounds x to three decimal places (milliseconds).
func Round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

// Millis converts seconds to integer milliseconds.
func Millis(x float64) int64 {
	return int64(math.Round(x * 1000))
}

// NormalizeID trims and NFC-normalises an identifier so that visually
// identical actor or action ids typed on different platforms compare equal.
func NormalizeID(id string) string {
	return norm.NFC.String(strings.TrimSpace(id))
}
