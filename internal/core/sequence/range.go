package sequence

// Range is a contiguous block of values reserved exclusively for one caller.
// First and Last are inclusive.
type Range struct {
	Name  string
	First int64
	Last  int64
}

// RangeEndingAt derives the block of count values that ends at last.
// This is how a post-increment counter value maps back to the caller's block.
func RangeEndingAt(name string, last, count int64) Range {
	return Range{Name: name, First: last - count + 1, Last: last}
}

// Len returns the number of values in the block.
func (r Range) Len() int64 {
	if r.Last < r.First {
		return 0
	}
	return r.Last - r.First + 1
}

// Values returns the block as an ordered slice.
func (r Range) Values() []int64 {
	n := r.Len()
	out := make([]int64, 0, n)
	for v := r.First; v <= r.Last; v++ {
		out = append(out, v)
	}
	return out
}

// Contains reports whether v belongs to the block.
func (r Range) Contains(v int64) bool {
	return v >= r.First && v <= r.Last
}

// Overlaps reports whether the two blocks share at least one value.
func (r Range) Overlaps(other Range) bool {
	return r.Len() > 0 && other.Len() > 0 && r.First <= other.Last && other.First <= r.Last
}

// Preview is the non-binding result of PreviewNext.
// It is a separate type so that a preview cannot be used where an allocated
// value is expected; call AllocateNext or AllocateBatch at commit time.
type Preview struct {
	Name string
	Next int64
}

// IsReservation is always false: a preview reserves nothing.
func (Preview) IsReservation() bool { return false }
