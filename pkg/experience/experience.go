// Package experience converts an accumulated XP count into a level and the
// progress made toward the next one.
//
// The cumulative XP needed to reach a level is
//
//	(5/6) * level * (2*level^2 + 27*level + 91)
//
// Results are exact for XP up to 2^52. Beyond that float64 can no longer
// represent every XP value and a result may land one level off near a
// threshold.
package experience

import "math"

const thresholdScale float64 = 5.0 / 6.0

// Threshold returns the cumulative XP required to reach level.
func Threshold(level float64) float64 {
	// Every product is converted explicitly so the compiler never fuses it
	// into an FMA, which would change results between architectures.
	poly := float64(2*level*level) + float64(27*level) + 91
	return float64(thresholdScale*level) * poly
}

// XPForLevel returns the smallest whole XP value that reaches level.
func XPForLevel(level uint64) uint64 {
	return uint64(math.Ceil(Threshold(float64(level))))
}

// Level returns the highest level whose threshold does not exceed xp.
//
// It gallops an upper bound and then bisects, and returns the same value as
// ScanLevel for every input.
func Level(xp uint64) uint64 {
	target := float64(xp)

	// Threshold(lo) <= target < Threshold(hi)
	lo, hi := uint64(0), uint64(1)
	for Threshold(float64(hi)) <= target {
		lo = hi
		hi *= 2
	}

	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if Threshold(float64(mid)) <= target {
			lo = mid
		} else {
			hi = mid
		}
	}

	return lo
}

// ScanLevel walks the thresholds one level at a time until one exceeds xp.
// It is linear in the resulting level and is kept as the reference that
// Level is checked against.
func ScanLevel(xp uint64) uint64 {
	target := float64(xp)

	var level uint64
	for target >= Threshold(float64(level+1)) {
		level++
	}

	return level
}

func percentage(xp uint64, level uint64) uint8 {
	last := Threshold(float64(level))
	next := Threshold(float64(level + 1))

	p := (float64(xp) - last) / (next - last) * 100
	switch {
	case p <= 0:
		return 0
	case p >= MaxPercentage+1:
		return MaxPercentage
	}

	return uint8(p)
}
