// Package reusedistance computes reuse-distance histograms for streams of
// tagged memory references.
//
// For every (id, address) reference, the library reports how many distinct
// addresses have been referenced since the previous reference to the same
// address — the classical LRU stack distance. A reference whose address
// has never been seen, or whose previous occurrence fell outside the active
// window, is a miss. Per-id histograms ([Histogram]) of these distances are
// kept by a registry embedded in each engine.
//
// Two engines are provided:
//
//   - [ExactEngine] computes the true stack distance in O(log n) per
//     reference using an order-statistics tree ([ordertree.Tree]) keyed by
//     recency, combined with an address index.
//   - [ApproxEngine] computes a cheaper approximation — the raw sequence
//     gap since the previous access — with periodic bulk eviction of stale
//     entries. It trades exactness for O(1) amortized cost per reference.
//
// Neither engine is safe for concurrent use by multiple goroutines; two
// independent engine instances may be driven from separate goroutines
// without coordination.
package reusedistance
