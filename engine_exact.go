package reusedistance

import (
	"fmt"
	"io"

	"github.com/mlaurenzano/ReuseDistance/ordertree"
)

// ExactEngine computes the exact LRU stack distance for a stream of
// records, using an order-statistics tree of recency entries plus an
// address index. Per-reference cost is O(log n) where n is the number of
// resident addresses.
//
// An ExactEngine is not safe for concurrent use by multiple goroutines.
type ExactEngine struct {
	reg   registry
	tree  *ordertree.Tree
	index map[uint64]uint64 // address -> seq of its current recency entry

	sequence      uint64
	capacity      uint64 // 0 = unlimited
	binIndividual uint64 // 0 = keep every distance individually
	current       uint64 // resident address count; mirrors tree.Size()
}

// NewExactEngine returns a new ExactEngine. capacity of 0 means an
// unbounded window. binIndividual of 0 keeps every distance individually;
// otherwise distances <= binIndividual are tracked individually and larger
// distances are bucketed to the next power of two.
func NewExactEngine(capacity, binIndividual uint64, opts ...ExactOption) *ExactEngine {
	cfg := defaultExactConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &ExactEngine{
		reg:           newRegistry(),
		tree:          ordertree.New(),
		index:         make(map[uint64]uint64),
		sequence:      1,
		capacity:      capacity,
		binIndividual: binIndividual,
	}
}

// NewExactEngineDefault returns a new ExactEngine using
// DefaultBinIndividual, matching the original tool's single-argument
// constructor overload.
func NewExactEngineDefault(capacity uint64, opts ...ExactOption) *ExactEngine {
	return NewExactEngine(capacity, DefaultBinIndividual, opts...)
}

// Process updates the engine's state for one record, evicting the
// least-recent address if the window is full.
func (e *ExactEngine) Process(r Record) {
	hist, _ := e.reg.stats(r.ID, true)

	if prevSeq, hit := e.index[r.Address]; hit {
		rank := e.tree.RankOf(prevSeq)
		raw := e.current - uint64(rank)
		hist.Update(binOf(raw, e.binIndividual))

		e.tree.DeleteAt(rank)
		delete(e.index, r.Address)
	} else {
		hist.Update(0)

		if e.capacity != 0 && e.current >= e.capacity {
			_, evictedAddr := e.tree.DeleteAt(0)
			delete(e.index, evictedAddr)
		} else {
			e.current++
		}
	}

	e.tree.Insert(e.sequence, r.Address)
	e.index[r.Address] = e.sequence
	e.sequence++
}

// ProcessMany processes every record in rs, in order.
func (e *ExactEngine) ProcessMany(rs []Record) {
	for _, r := range rs {
		e.Process(r)
	}
}

// ProcessManyPtr processes every record in rs, in order. It is a
// convenience equivalent of ProcessMany for callers already holding
// pointers, matching the original tool's vector<ReuseEntry*> overload.
func (e *ExactEngine) ProcessManyPtr(rs []*Record) {
	for _, r := range rs {
		e.Process(*r)
	}
}

// Distance returns the raw stack distance that Process(r) would record,
// without mutating any state. A miss (address never seen, or not
// currently resident) reports Infinity.
func (e *ExactEngine) Distance(r Record) uint64 {
	prevSeq, hit := e.index[r.Address]
	if !hit {
		return Infinity
	}
	rank := e.tree.RankOf(prevSeq)
	return e.current - uint64(rank)
}

// Stats returns the histogram for id, or (nil, false) if id has not been
// observed. It never creates a histogram as a side effect.
func (e *ExactEngine) Stats(id uint64) (*Histogram, bool) {
	return e.reg.stats(id, false)
}

// Indices appends every producer id this engine has observed into dst, in
// ascending order. dst must be passed in empty.
func (e *ExactEngine) Indices(dst []uint64) []uint64 {
	return e.reg.indices(dst)
}

// ActiveAddresses appends every address currently resident in the window
// into dst, in recency order (oldest first). dst must be passed in empty.
func (e *ExactEngine) ActiveAddresses(dst []uint64) []uint64 {
	if len(dst) != 0 {
		nonEmptyTargetPanic("ActiveAddresses")
	}
	for i := 0; i < e.tree.Size(); i++ {
		_, addr := e.tree.At(i)
		dst = append(dst, addr)
	}
	return dst
}

// WindowSize returns the engine's capacity (0 means unlimited).
func (e *ExactEngine) WindowSize() uint64 {
	return e.capacity
}

// Fprint writes one REUSESTATS header and the per-distance lines for
// every observed producer id to w, ids sorted ascending.
func (e *ExactEngine) Fprint(w io.Writer) error {
	for _, id := range e.reg.sortedIDs() {
		hist := e.reg.histograms[id]
		if _, err := fmt.Fprintf(w, "REUSESTATS\t%d\t%d\t%d\t%d\n",
			id, e.capacity, hist.AccessCount(), hist.MissCount()); err != nil {
			return err
		}
		if err := hist.fprintExact(w, e.binIndividual); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of e: identical capacity and binIndividual,
// the same sequence counter, deep-cloned histograms, and a snapshot of the
// active window sufficient to reproduce identical distances on further
// processing.
func (e *ExactEngine) Clone() *ExactEngine {
	cp := &ExactEngine{
		reg:           e.reg.clone(),
		tree:          ordertree.New(),
		index:         make(map[uint64]uint64, len(e.index)),
		sequence:      e.sequence,
		capacity:      e.capacity,
		binIndividual: e.binIndividual,
		current:       e.current,
	}
	for i := 0; i < e.tree.Size(); i++ {
		seq, addr := e.tree.At(i)
		cp.tree.Insert(seq, addr)
		cp.index[addr] = seq
	}
	return cp
}
