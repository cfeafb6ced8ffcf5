package reusedistance

import "fmt"

// constError is a comparable, constant error value, following the same
// sentinel-error shape used throughout the corpus this module is built
// from (e.g. djdv-go-clockpro's ErrInvalidCapacity).
type constError string

func (e constError) Error() string { return string(e) }

// ErrNonEmptyTarget is raised when an enumeration operation
// (GetIndices/GetActiveAddresses-equivalents) is asked to populate a
// destination slice that the caller has not passed in empty.
const ErrNonEmptyTarget = constError("enumeration target must be empty")

func nonEmptyTargetPanic(kind string) {
	panic(fmt.Errorf("reusedistance: %w: %s", ErrNonEmptyTarget, kind))
}

// The tree/address-index agreement invariant (every address-index entry
// must have a matching order-tree entry) is enforced directly by
// ordertree.Tree.RankOf, which panics on a missing key: a correct engine
// never queries a seq it has not itself inserted, so that panic is this
// invariant's only enforcement point and needs no separate sentinel here.
