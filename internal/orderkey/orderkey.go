// Package orderkey implements sparse floating point order keys.
//
// Keys are spaced Spacing apart when a list is renumbered so later moves can
// land between two neighbours without touching any other row. Each midpoint
// insertion halves the gap; after roughly fifty insertions at the same
// boundary float64 runs out of distinct values and Exhausted reports true.
// Callers should renumber the list when that happens.
package orderkey

import "math"

// Spacing is the gap between consecutive renumbered keys.
const Spacing = 1000.0

// At returns the key for a list position, plus an offset for rows that share
// a position (children of a group).
func At(position, offset int) float64 {
	return float64(position)*Spacing + float64(offset)
}

// Before returns a key ahead of first.
func Before(first float64) float64 { return first - Spacing }

// After returns a key behind last.
func After(last float64) float64 { return last + Spacing }

// Between returns the midpoint of lo and hi.
func Between(lo, hi float64) float64 { return (lo + hi) / 2 }

// Exhausted reports whether no key strictly between lo and hi can be formed.
func Exhausted(lo, hi float64) bool {
	if lo > hi {
		lo, hi = hi, lo
	}
	mid := Between(lo, hi)
	return !(mid > lo && mid < hi) || math.IsInf(mid, 0) || math.IsNaN(mid)
}

// Neighbours picks the key for a slot given the nearest set keys on either
// side. A nil side means no set key exists there.
func Neighbours(lo, hi *float64) float64 {
	switch {
	case lo != nil && hi != nil:
		return Between(*lo, *hi)
	case lo != nil:
		return After(*lo)
	case hi != nil:
		return Before(*hi)
	default:
		return 0
	}
}

// Spread returns count evenly spaced keys for inserting several rows in one
// go between after and before. A zero bound means the list is open on that
// side.
func Spread(after, before float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	keys := make([]float64, count)
	switch {
	case after == 0 && before == 0:
		for i := range keys {
			keys[i] = Spacing * float64(i+1)
		}
	case before == 0:
		for i := range keys {
			keys[i] = after + Spacing*float64(i+1)
		}
	case after == 0:
		gap := before / float64(count+1)
		for i := range keys {
			keys[i] = gap * float64(i+1)
		}
	default:
		gap := (before - after) / float64(count+1)
		for i := range keys {
			keys[i] = after + gap*float64(i+1)
		}
	}
	return keys
}
