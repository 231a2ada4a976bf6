package core

// Range is the half-open index interval [From, To) of bars in view
type Range struct {
	From int
	To   int
}

// Len returns the number of indices in the range
func (r Range) Len() int {
	if r.To <= r.From {
		return 0
	}
	return r.To - r.From
}

// Contains reports whether i lies inside the range
func (r Range) Contains(i int) bool {
	return i >= r.From && i < r.To
}

// Intersects reports whether the closed index span [a, b] overlaps the range
func (r Range) Intersects(a, b int) bool {
	if a > b {
		a, b = b, a
	}
	return b >= r.From && a < r.To
}

// Clamp limits the range to [0, n)
func (r Range) Clamp(n int) Range {
	if r.From < 0 {
		r.From = 0
	}
	if r.To > n {
		r.To = n
	}
	if r.To < r.From {
		r.To = r.From
	}
	return r
}
