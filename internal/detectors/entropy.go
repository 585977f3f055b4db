package detectors

import "math"

// DefaultEntropyThreshold is the minimum Shannon entropy, in bits per
// character, a candidate must exceed before it is sent for live validation.
const DefaultEntropyThreshold = 4.5

// Entropy returns the Shannon entropy (base 2) of the character distribution
// of s. The empty string has entropy 0.
func Entropy(s string) float64 {
	if s == "" {
		return 0
	}
	count := map[rune]int{}
	n := 0
	for _, r := range s {
		count[r]++
		n++
	}
	H := 0.0
	for _, c := range count {
		p := float64(c) / float64(n)
		H += -p * math.Log2(p)
	}
	return H
}

// HighEntropy reports whether s is strictly above threshold.
func HighEntropy(s string, threshold float64) bool {
	if s == "" {
		return false
	}
	return Entropy(s) > threshold
}
