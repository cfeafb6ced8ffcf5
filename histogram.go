package reusedistance

import (
	"fmt"
	"io"
	"sort"
)

// Histogram holds a count of how many times each reuse distance has been
// observed for one producer id. Misses are recorded at key 0 by Update,
// which is why MissCount sums both the dedicated miss counter and
// counts[0]: this mirrors the original tool's quirk of reporting misses
// through the same Update path used for ordinary distances, and print
// paths must not double count it.
type Histogram struct {
	counts    map[uint64]uint64
	accesses  uint64
	missCount uint64
}

// NewHistogram returns an empty Histogram.
func NewHistogram() *Histogram {
	return &Histogram{counts: make(map[uint64]uint64)}
}

// Update records one occurrence of distance d (already bucketed by the
// caller, if bucketing applies).
func (h *Histogram) Update(d uint64) {
	h.counts[d]++
	h.accesses++
}

// Miss records one occurrence of a cold or evicted reference, tracked
// separately from Update(0) via the dedicated miss counter. Neither engine
// calls Miss: both record misses with Update(0) instead; see MissCount.
func (h *Histogram) Miss() {
	h.missCount++
	h.accesses++
}

// CountDistance returns the number of times distance d has been observed,
// or 0 if it has never occurred.
func (h *Histogram) CountDistance(d uint64) uint64 {
	return h.counts[d]
}

// CountRange returns the sum of counts for distances in [lo, hi).
func (h *Histogram) CountRange(lo, hi uint64) uint64 {
	var total uint64
	for d, c := range h.counts {
		if d >= lo && d < hi {
			total += c
		}
	}
	return total
}

// SortedDistances returns the ascending keys of counts. dst must be passed
// in empty; it is a contract violation (panics with ErrNonEmptyTarget)
// otherwise, matching the original tool's GetSortedDistances contract.
func (h *Histogram) SortedDistances(dst []uint64) []uint64 {
	if len(dst) != 0 {
		nonEmptyTargetPanic("SortedDistances")
	}
	for d := range h.counts {
		dst = append(dst, d)
	}
	sort.Slice(dst, func(i, j int) bool { return dst[i] < dst[j] })
	return dst
}

// MaxDistance returns the largest distance key present, or 0 if empty.
func (h *Histogram) MaxDistance() uint64 {
	var max uint64
	for d := range h.counts {
		if d > max {
			max = d
		}
	}
	return max
}

// AccessCount returns the total number of updates applied (hits and
// misses alike).
func (h *Histogram) AccessCount() uint64 {
	return h.accesses
}

// MissCount returns the number of accesses classified as misses. The
// exact engine never calls Miss directly (it records misses via
// Update(0)), so this sums the dedicated counter with counts[0].
func (h *Histogram) MissCount() uint64 {
	return h.missCount + h.counts[0]
}

// clone returns a deep copy of h.
func (h *Histogram) clone() *Histogram {
	cp := &Histogram{
		counts:    make(map[uint64]uint64, len(h.counts)),
		accesses:  h.accesses,
		missCount: h.missCount,
	}
	for d, c := range h.counts {
		cp.counts[d] = c
	}
	return cp
}

// fprintApprox writes the approx-engine per-distance lines: "\t d \t count\n"
// for every nonzero distance, in ascending order.
func (h *Histogram) fprintApprox(w io.Writer) error {
	var dists []uint64
	dists = h.SortedDistances(dists)
	for _, d := range dists {
		if d == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "\t%d\t%d\n", d, h.counts[d]); err != nil {
			return err
		}
	}
	return nil
}

// fprintExact writes the exact-engine per-distance lines:
// "\t p \t d \t count\n" for every nonzero distance, in ascending order.
func (h *Histogram) fprintExact(w io.Writer, binIndividual uint64) error {
	var dists []uint64
	dists = h.SortedDistances(dists)
	for _, d := range dists {
		if d == 0 {
			continue
		}
		p := prettyLowerBound(d, binIndividual)
		if _, err := fmt.Fprintf(w, "\t%d\t%d\t%d\n", p, d, h.counts[d]); err != nil {
			return err
		}
	}
	return nil
}
