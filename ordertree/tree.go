// Package ordertree provides a balanced order-statistics tree of recency
// entries, keyed by a strictly increasing sequence number.
//
// It is implemented as a treap (a randomized binary search tree): each node
// carries a random priority alongside its key, and rotations restore the
// max-heap property on priority after every insert or delete. Expected
// depth is O(log n), giving expected O(log n) Insert, DeleteAt, RankOf and
// At, with subtree-size augmentation making rank queries possible without
// a full scan.
//
// There is no third-party or stdlib balanced tree with rank queries in the
// corpus this module is built from; this package follows the shape of a
// hand-rolled, doc-commented tree package the way go-mcache's
// internal/radix does, generalized from prefix lookup to rank queries.
package ordertree

import "math/rand"

// node is one entry in the tree: a recency entry (seq, address) plus treap
// bookkeeping.
type node struct {
	seq      uint64
	address  uint64
	priority uint32
	size     int
	left     *node
	right    *node
}

func sizeOf(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func (n *node) recalc() {
	n.size = 1 + sizeOf(n.left) + sizeOf(n.right)
}

// Tree is an ordered multiset of recency entries, keyed by seq. Because
// seq values are always distinct (they come from a strictly increasing
// process counter), every key in the tree is unique.
//
// A Tree is not safe for concurrent use.
type Tree struct {
	root *node
	rng  *rand.Rand
}

// New returns an empty Tree.
func New() *Tree {
	return &Tree{rng: rand.New(rand.NewSource(1))}
}

// Size returns the number of entries currently in the tree.
func (t *Tree) Size() int {
	return sizeOf(t.root)
}

// Insert adds a new recency entry (seq, address). seq must not already be
// present in the tree.
func (t *Tree) Insert(seq, address uint64) {
	n := &node{seq: seq, address: address, priority: t.rng.Uint32(), size: 1}
	t.root = insert(t.root, n)
}

func insert(root, n *node) *node {
	if root == nil {
		return n
	}
	if n.seq < root.seq {
		root.left = insert(root.left, n)
		if root.left.priority > root.priority {
			root = rotateRight(root)
		}
	} else {
		root.right = insert(root.right, n)
		if root.right.priority > root.priority {
			root = rotateLeft(root)
		}
	}
	root.recalc()
	return root
}

func rotateRight(root *node) *node {
	l := root.left
	root.left = l.right
	l.right = root
	root.recalc()
	l.recalc()
	return l
}

func rotateLeft(root *node) *node {
	r := root.right
	root.right = r.left
	r.left = root
	root.recalc()
	r.recalc()
	return r
}

// RankOf returns the 0-based ordinal position of the unique entry whose
// key equals seq. It panics if no such entry exists; the engine built on
// top of Tree must never query a seq it has not itself inserted.
func (t *Tree) RankOf(seq uint64) int {
	rank, ok := rankOf(t.root, seq, 0)
	if !ok {
		panic("ordertree: RankOf called with key not present in tree")
	}
	return rank
}

func rankOf(n *node, seq uint64, offset int) (int, bool) {
	if n == nil {
		return 0, false
	}
	switch {
	case seq < n.seq:
		return rankOf(n.left, seq, offset)
	case seq > n.seq:
		return rankOf(n.right, seq, offset+sizeOf(n.left)+1)
	default:
		return offset + sizeOf(n.left), true
	}
}

// At returns the entry at 0-based ordinal position rank, in ascending-seq
// order. It panics if rank is out of [0, Size()).
func (t *Tree) At(rank int) (seq, address uint64) {
	n := at(t.root, rank)
	if n == nil {
		panic("ordertree: At called with rank out of range")
	}
	return n.seq, n.address
}

func at(n *node, rank int) *node {
	if n == nil {
		return nil
	}
	ls := sizeOf(n.left)
	switch {
	case rank < ls:
		return at(n.left, rank)
	case rank > ls:
		return at(n.right, rank-ls-1)
	default:
		return n
	}
}

// DeleteAt removes and returns the entry at 0-based ordinal position rank.
// It panics if rank is out of [0, Size()).
func (t *Tree) DeleteAt(rank int) (seq, address uint64) {
	if rank < 0 || rank >= sizeOf(t.root) {
		panic("ordertree: DeleteAt called with rank out of range")
	}
	var removed *node
	t.root, removed = deleteAt(t.root, rank)
	return removed.seq, removed.address
}

func deleteAt(n *node, rank int) (*node, *node) {
	ls := sizeOf(n.left)
	switch {
	case rank < ls:
		var removed *node
		n.left, removed = deleteAt(n.left, rank)
		n.recalc()
		return n, removed
	case rank > ls:
		var removed *node
		n.right, removed = deleteAt(n.right, rank-ls-1)
		n.recalc()
		return n, removed
	default:
		return merge(n.left, n.right), n
	}
}

// merge joins two subtrees where every key in l is less than every key in
// r, preserving the heap property on priority.
func merge(l, r *node) *node {
	switch {
	case l == nil:
		return r
	case r == nil:
		return l
	case l.priority > r.priority:
		l.right = merge(l.right, r)
		l.recalc()
		return l
	default:
		r.left = merge(l, r.left)
		r.recalc()
		return r
	}
}
