package types

import "sort"

// DischargeTrain is an ordered set of unique sample indices at which a motor
// unit fired. Every method keeps the indices strictly increasing.
type DischargeTrain []int

// NewDischargeTrain builds a valid train from arbitrary indices: values outside
// [0, n) are dropped, the rest are sorted and deduplicated.
func NewDischargeTrain(indices []int, n int) DischargeTrain {
	out := make(DischargeTrain, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= n {
			continue
		}
		out = append(out, idx)
	}
	sort.Ints(out)
	return out.dedupe()
}

func (d DischargeTrain) dedupe() DischargeTrain {
	if len(d) < 2 {
		return d
	}
	w := 1
	for i := 1; i < len(d); i++ {
		if d[i] != d[w-1] {
			d[w] = d[i]
			w++
		}
	}
	return d[:w]
}

// Valid reports whether the train is strictly increasing and within [0, n).
func (d DischargeTrain) Valid(n int) bool {
	for i, idx := range d {
		if idx < 0 || idx >= n {
			return false
		}
		if i > 0 && idx <= d[i-1] {
			return false
		}
	}
	return true
}

// Search returns the insertion position of idx.
func (d DischargeTrain) Search(idx int) int {
	return sort.SearchInts(d, idx)
}

// Contains reports whether idx is part of the train.
func (d DischargeTrain) Contains(idx int) bool {
	i := d.Search(idx)
	return i < len(d) && d[i] == idx
}

// Insert returns a train with idx added in sorted position. The second return
// value is false when idx was already present.
func (d DischargeTrain) Insert(idx int) (DischargeTrain, bool) {
	i := d.Search(idx)
	if i < len(d) && d[i] == idx {
		return d, false
	}
	out := make(DischargeTrain, 0, len(d)+1)
	out = append(out, d[:i]...)
	out = append(out, idx)
	out = append(out, d[i:]...)
	return out, true
}

// Remove returns a train without idx. The second return value is false when
// idx was not present.
func (d DischargeTrain) Remove(idx int) (DischargeTrain, bool) {
	i := d.Search(idx)
	if i >= len(d) || d[i] != idx {
		return d, false
	}
	out := make(DischargeTrain, 0, len(d)-1)
	out = append(out, d[:i]...)
	out = append(out, d[i+1:]...)
	return out, true
}

// Clone returns a copy of the train.
func (d DischargeTrain) Clone() DischargeTrain {
	if d == nil {
		return nil
	}
	out := make(DischargeTrain, len(d))
	copy(out, d)
	return out
}
