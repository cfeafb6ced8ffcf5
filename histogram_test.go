package reusedistance

import "testing"

func TestHistogramUpdateAndCount(t *testing.T) {
	h := NewHistogram()
	h.Update(3)
	h.Update(3)
	h.Update(5)

	if got := h.CountDistance(3); got != 2 {
		t.Errorf("CountDistance(3) = %d, want 2", got)
	}
	if got := h.CountDistance(5); got != 1 {
		t.Errorf("CountDistance(5) = %d, want 1", got)
	}
	if got := h.CountDistance(42); got != 0 {
		t.Errorf("CountDistance(42) = %d, want 0", got)
	}
	if got := h.AccessCount(); got != 3 {
		t.Errorf("AccessCount() = %d, want 3", got)
	}
	if got := h.MaxDistance(); got != 5 {
		t.Errorf("MaxDistance() = %d, want 5", got)
	}
}

func TestHistogramMissCountCombinesBothSources(t *testing.T) {
	h := NewHistogram()
	h.Miss()
	h.Update(0)
	h.Update(0)

	if got := h.MissCount(); got != 3 {
		t.Errorf("MissCount() = %d, want 3", got)
	}
	if got := h.AccessCount(); got != 3 {
		t.Errorf("AccessCount() = %d, want 3", got)
	}
}

func TestHistogramCountRange(t *testing.T) {
	h := NewHistogram()
	for _, d := range []uint64{1, 2, 2, 5, 10} {
		h.Update(d)
	}
	if got := h.CountRange(1, 3); got != 3 {
		t.Errorf("CountRange(1,3) = %d, want 3", got)
	}
	if got := h.CountRange(10, 20); got != 1 {
		t.Errorf("CountRange(10,20) = %d, want 1", got)
	}
}

func TestHistogramSortedDistancesRequiresEmptyDst(t *testing.T) {
	h := NewHistogram()
	h.Update(1)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-empty dst")
		}
	}()
	h.SortedDistances([]uint64{99})
}

func TestHistogramSortedDistancesAscending(t *testing.T) {
	h := NewHistogram()
	for _, d := range []uint64{8, 1, 4, 1} {
		h.Update(d)
	}
	got := h.SortedDistances(nil)
	want := []uint64{1, 4, 8}
	if len(got) != len(want) {
		t.Fatalf("SortedDistances() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedDistances() = %v, want %v", got, want)
		}
	}
}

func TestBinOfIndividualBoundary(t *testing.T) {
	cases := []struct {
		d, binIndividual, want uint64
	}{
		{32, 32, 32},   // exactly at threshold: individual
		{33, 32, 64},   // just above: bucketed to next pow2 above 33
		{100, 32, 128}, // matches scenario S5
		{4, 2, 8},      // matches scenario S4
		{5, 0, 5},      // unlimited bin_individual: always individual
	}
	for _, c := range cases {
		if got := binOf(c.d, c.binIndividual); got != c.want {
			t.Errorf("binOf(%d, %d) = %d, want %d", c.d, c.binIndividual, got, c.want)
		}
	}
}

func TestPrettyLowerBound(t *testing.T) {
	cases := []struct {
		d, binIndividual, want uint64
	}{
		{3, 32, 3},
		{100, 32, 51},
		{4, 2, 3},
		{10, 0, 10},
	}
	for _, c := range cases {
		if got := prettyLowerBound(c.d, c.binIndividual); got != c.want {
			t.Errorf("prettyLowerBound(%d, %d) = %d, want %d", c.d, c.binIndividual, got, c.want)
		}
	}
}
