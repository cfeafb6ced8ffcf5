package reusedistance

// Record is a single tagged memory reference. Neither field is interpreted
// by the engines: ID selects which histogram is updated, Address is the
// equivalence key for "the same reference".
type Record struct {
	ID      uint64
	Address uint64
}

// Infinity is the sentinel used for both an engine's capacity (0 means
// "unlimited") and a histogram's bin-individual threshold (0 means "keep
// every distance individually"). It is also the distance reported for a
// miss.
const Infinity = 0

// DefaultBinIndividual is the bin-individual threshold used by
// [NewExactEngineDefault], matching the single-argument constructor of the
// original ReuseDistance tool.
const DefaultBinIndividual = 32

// MinimumCleanFrequency is the floor on an [ApproxEngine]'s default clean
// frequency: unless a frequency is set explicitly, opportunistic cleanup
// runs at most once per this many processed references, regardless of how
// small the window is. A frequency passed to [WithCleanFrequency] or
// [ApproxEngine.SetCleanFrequency] is used as given, without this floor.
const MinimumCleanFrequency = 1_000_000
