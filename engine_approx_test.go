package reusedistance

import (
	"bytes"
	"strings"
	"testing"
)

func TestApproxEngineRawSequenceGap(t *testing.T) {
	e := NewApproxEngine(0)
	addrs := []uint64{10, 20, 30, 10, 40, 20}
	for _, a := range addrs {
		e.Process(Record{ID: 1, Address: a})
	}
	hist, _ := e.Stats(1)
	// sequence starts at 1: addr10 gets seq1, ... repeat of 10 at seq4,
	// gap = 4-1 = 3. Repeat of 20 at seq6, gap = 6-2 = 4.
	if got := hist.CountDistance(3); got != 1 {
		t.Errorf("CountDistance(3) = %d, want 1", got)
	}
	if got := hist.CountDistance(4); got != 1 {
		t.Errorf("CountDistance(4) = %d, want 1", got)
	}
	if got := hist.MissCount(); got != 4 {
		t.Errorf("MissCount() = %d, want 4", got)
	}
}

func TestApproxEngineGapAtOrBeyondWindowIsMiss(t *testing.T) {
	e := NewApproxEngine(3)
	e.Process(Record{ID: 1, Address: 1}) // seq1
	e.Process(Record{ID: 1, Address: 2}) // seq2
	e.Process(Record{ID: 1, Address: 3}) // seq3
	e.Process(Record{ID: 1, Address: 1}) // seq4, gap=3 >= window(3): miss

	hist, _ := e.Stats(1)
	if got := hist.MissCount(); got != 4 {
		t.Errorf("MissCount() = %d, want 4 (gap at window boundary counts as a miss)", got)
	}
	if got := hist.CountDistance(3); got != 0 {
		t.Errorf("CountDistance(3) = %d, want 0: a gap of exactly the window size must not be recorded as a hit", got)
	}
}

func TestApproxEngineUnboundedWindowNeverMisses(t *testing.T) {
	e := NewApproxEngine(0)
	e.Process(Record{ID: 1, Address: 1})
	for i := 0; i < 1000; i++ {
		e.Process(Record{ID: 1, Address: uint64(i + 100)})
	}
	e.Process(Record{ID: 1, Address: 1})

	hist, _ := e.Stats(1)
	if got := hist.CountDistance(1001); got != 1 {
		t.Errorf("CountDistance(1001) = %d, want 1: unbounded window must report the full raw gap", got)
	}
}

func TestApproxEngineIndicesAscending(t *testing.T) {
	e := NewApproxEngine(0)
	e.Process(Record{ID: 8, Address: 1})
	e.Process(Record{ID: 3, Address: 1})
	got := e.Indices(nil)
	want := []uint64{3, 8}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Indices() = %v, want %v", got, want)
	}
}

func TestApproxEngineIncrementSequenceInflatesNextGap(t *testing.T) {
	e := NewApproxEngine(0)
	e.Process(Record{ID: 1, Address: 1}) // seq1
	e.IncrementSequence(10)
	e.Process(Record{ID: 1, Address: 1}) // seq is now 12, gap = 12-1 = 11

	hist, _ := e.Stats(1)
	if got := hist.CountDistance(11); got != 1 {
		t.Errorf("CountDistance(11) = %d, want 1", got)
	}
}

func TestApproxEngineCleanupReclaimsStaleEntries(t *testing.T) {
	e := NewApproxEngine(2, WithCleanFrequency(1))
	e.Process(Record{ID: 1, Address: 1})
	e.Process(Record{ID: 1, Address: 2})
	e.Process(Record{ID: 1, Address: 3}) // address 1 is now stale (age 2 >= window 2)
	e.Cleanup()

	if got := e.SequenceValue(1); got != 0 {
		t.Errorf("SequenceValue(1) = %d, want 0 after Cleanup reclaims the stale entry", got)
	}
	if got := e.SequenceValue(3); got == 0 {
		t.Error("SequenceValue(3) should remain set: address 3 was just referenced")
	}
}

func TestApproxEngineFprintFormat(t *testing.T) {
	e := NewApproxEngine(0)
	for _, a := range []uint64{1, 2, 1} {
		e.Process(Record{ID: 4, Address: a})
	}
	var buf bytes.Buffer
	if err := e.Fprint(&buf); err != nil {
		t.Fatalf("Fprint returned error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Fprint produced %d lines, want 2:\n%s", len(lines), buf.String())
	}
	wantHeader := "REUSESTATS\t4\t0\t3\t2"
	if lines[0] != wantHeader {
		t.Errorf("header = %q, want %q", lines[0], wantHeader)
	}
	wantDist := "\t2\t1"
	if lines[1] != wantDist {
		t.Errorf("distance line = %q, want %q", lines[1], wantDist)
	}
}

func TestApproxEngineCloneEquivalenceUnderIdenticalProcessing(t *testing.T) {
	e := NewApproxEngine(5)
	for _, a := range []uint64{1, 2, 3, 1, 4} {
		e.Process(Record{ID: 1, Address: a})
	}
	clone := e.Clone()

	further := []Record{{ID: 1, Address: 2}, {ID: 1, Address: 9}, {ID: 1, Address: 2}}
	for _, r := range further {
		e.Process(r)
		clone.Process(r)
	}

	he, _ := e.Stats(1)
	hc, _ := clone.Stats(1)
	if he.AccessCount() != hc.AccessCount() || he.MissCount() != hc.MissCount() {
		t.Error("clone diverged from source under identical further processing")
	}
	for _, d := range []uint64{1, 2, 3, 4, 5, 6} {
		if he.CountDistance(d) != hc.CountDistance(d) {
			t.Errorf("CountDistance(%d): source=%d clone=%d, want equal", d, he.CountDistance(d), hc.CountDistance(d))
		}
	}
}

func TestApproxEngineCloneIsIndependent(t *testing.T) {
	e := NewApproxEngine(0)
	e.Process(Record{ID: 1, Address: 1})
	clone := e.Clone()
	clone.Process(Record{ID: 1, Address: 2})

	he, _ := e.Stats(1)
	if got := he.AccessCount(); got != 1 {
		t.Errorf("source AccessCount() = %d, want 1: mutating the clone must not affect the source", got)
	}
}
