package reusedistance

import (
	"fmt"
	"io"
)

// ApproxEngine computes an approximate reuse distance as the raw sequence
// gap since an address's previous reference, with periodic bulk eviction
// of entries older than the window. It trades the exact engine's O(log n)
// order-statistics tree for O(1) amortized cost per reference plus
// occasional cleanup passes that scan the whole address index.
//
// An ApproxEngine is not safe for concurrent use by multiple goroutines.
type ApproxEngine struct {
	reg   registry
	index map[uint64]uint64 // address -> seq of last reference

	sequence    uint64
	capacity    uint64 // 0 = unlimited
	lastCleanup uint64
	cleanFreq   uint64
}

// NewApproxEngine returns a new ApproxEngine. capacity of 0 means an
// unbounded window.
func NewApproxEngine(capacity uint64, opts ...ApproxOption) *ApproxEngine {
	cfg := defaultApproxConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	cleanFreq := cfg.cleanFrequency
	if cleanFreq == 0 {
		cleanFreq = max(capacity, MinimumCleanFrequency)
	}
	return &ApproxEngine{
		reg:       newRegistry(),
		index:     make(map[uint64]uint64),
		sequence:  1,
		capacity:  capacity,
		cleanFreq: cleanFreq,
	}
}

// Process updates the engine's state for one record. The reported
// distance is the raw sequence gap since the address's previous
// occurrence; gaps at or beyond the window are reported as misses.
func (e *ApproxEngine) Process(r Record) {
	e.maybeCleanup()

	hist, _ := e.reg.stats(r.ID, true)

	prev, hit := e.index[r.Address]
	if !hit {
		hist.Update(0)
	} else {
		d := e.sequence - prev
		if e.capacity != 0 && d >= e.capacity {
			hist.Update(0)
		} else {
			hist.Update(d)
		}
	}

	e.index[r.Address] = e.sequence
	e.sequence++
}

// ProcessMany processes every record in rs, in order.
func (e *ApproxEngine) ProcessMany(rs []Record) {
	for _, r := range rs {
		e.Process(r)
	}
}

// ProcessManyPtr processes every record in rs, in order.
func (e *ApproxEngine) ProcessManyPtr(rs []*Record) {
	for _, r := range rs {
		e.Process(*r)
	}
}

// Stats returns the histogram for id, or (nil, false) if id has not been
// observed.
func (e *ApproxEngine) Stats(id uint64) (*Histogram, bool) {
	return e.reg.stats(id, false)
}

// Indices appends every producer id this engine has observed into dst, in
// ascending order. dst must be passed in empty.
func (e *ApproxEngine) Indices(dst []uint64) []uint64 {
	return e.reg.indices(dst)
}

// WindowSize returns the engine's capacity (0 means unlimited).
func (e *ApproxEngine) WindowSize() uint64 {
	return e.capacity
}

// CurrentSequence returns the engine's current sequence counter.
func (e *ApproxEngine) CurrentSequence() uint64 {
	return e.sequence
}

// SequenceValue returns the stored sequence for addr, or 0 if addr is not
// in the address index. An entry whose age is at or beyond the window stays
// in the index, and is still reported here, until the next Cleanup.
func (e *ApproxEngine) SequenceValue(addr uint64) uint64 {
	return e.index[addr]
}

// IncrementSequence advances the sequence counter by n without processing
// any record. This is exposed for sampling scenarios where the caller
// knows n references were skipped: it inflates the observed distance the
// next time a pending address is referenced, exactly as if n ordinary
// misses for unrelated addresses had been processed, but without
// allocating index entries for them or touching any histogram. No
// invariant is defined over interleaving this with Process beyond that:
// callers that need exact bookkeeping across skipped references should
// not rely on histograms being identical to an unsampled run.
func (e *ApproxEngine) IncrementSequence(n uint64) {
	e.sequence += n
}

// SetCleanFrequency overrides the frequency with which Cleanup runs
// opportunistically, and immediately triggers a Cleanup pass.
func (e *ApproxEngine) SetCleanFrequency(c uint64) {
	e.cleanFreq = c
	e.Cleanup()
}

// Cleanup scans the address index and erases every entry whose age
// (current sequence minus stored sequence) is at or beyond the window.
// It is a memory-reclamation optimization, not a correctness requirement:
// Process's range check already suppresses hits against stale entries.
func (e *ApproxEngine) Cleanup() {
	if e.capacity == 0 {
		return
	}
	for addr, seq := range e.index {
		if e.sequence-seq >= e.capacity {
			delete(e.index, addr)
		}
	}
	e.lastCleanup = e.sequence
}

func (e *ApproxEngine) maybeCleanup() {
	if e.capacity == 0 {
		return
	}
	if e.sequence-e.lastCleanup < e.cleanFreq {
		return
	}
	e.Cleanup()
}

// Fprint writes one REUSESTATS header and the per-distance lines for
// every observed producer id to w, ids sorted ascending for deterministic
// output.
func (e *ApproxEngine) Fprint(w io.Writer) error {
	for _, id := range e.reg.sortedIDs() {
		hist := e.reg.histograms[id]
		if _, err := fmt.Fprintf(w, "REUSESTATS\t%d\t%d\t%d\t%d\n",
			id, e.capacity, hist.AccessCount(), hist.MissCount()); err != nil {
			return err
		}
		if err := hist.fprintApprox(w); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of e: identical capacity, a fresh
// lastCleanup of 0, the source's sequence and clean frequency,
// deep-cloned histograms, and a copy of the address index, so further
// processing on the clone yields identical distances to further
// processing on the source.
func (e *ApproxEngine) Clone() *ApproxEngine {
	cp := &ApproxEngine{
		reg:         e.reg.clone(),
		index:       make(map[uint64]uint64, len(e.index)),
		sequence:    e.sequence,
		capacity:    e.capacity,
		lastCleanup: 0,
		cleanFreq:   e.cleanFreq,
	}
	for addr, seq := range e.index {
		cp.index[addr] = seq
	}
	return cp
}
