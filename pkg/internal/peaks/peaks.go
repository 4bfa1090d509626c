// Package peaks finds candidate discharge instants in a pulse train.
package peaks

import "sort"

// Detect returns the indices of local maxima of x in increasing order. A
// sample is a maximum when it rises from its left neighbour and does not rise
// into its right neighbour; the first and last samples never qualify. When
// mpd > 1, maxima are visited from the highest down and every lower maximum
// within mpd samples of a kept one is discarded. No amplitude threshold is
// applied.
func Detect(x []float64, mpd int) []int {
	n := len(x)
	if n < 3 {
		return nil
	}

	var ind []int
	for i := 1; i < n-1; i++ {
		if x[i]-x[i-1] > 0 && x[i+1]-x[i] <= 0 {
			ind = append(ind, i)
		}
	}
	if len(ind) == 0 || mpd <= 1 {
		return ind
	}

	byHeight := append([]int(nil), ind...)
	sort.SliceStable(byHeight, func(a, b int) bool {
		return x[byHeight[a]] > x[byHeight[b]]
	})

	blocked := make([]bool, n)
	kept := make([]int, 0, len(byHeight))
	for _, p := range byHeight {
		if blocked[p] {
			continue
		}
		kept = append(kept, p)
		lo, hi := p-mpd, p+mpd
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		for i := lo; i <= hi; i++ {
			blocked[i] = true
		}
	}
	sort.Ints(kept)
	return kept
}
