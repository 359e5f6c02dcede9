package date

import "iter"

// Years is an inclusive range of calendar years.
type Years struct{ From, To int }

// Contains return true if d falls in the range (boundaries included).
func (r Years) Contains(d Date) bool { return d.Year() >= r.From && d.Year() <= r.To }

// All iterates over every year of the range in ascending order.
func (r Years) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for y := r.From; y <= r.To; y++ {
			if !yield(y) {
				return
			}
		}
	}
}

// Len is the number of years in the range, 0 when To is before From.
func (r Years) Len() int {
	if r.To < r.From {
		return 0
	}
	return r.To - r.From + 1
}
