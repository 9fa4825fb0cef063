// Package evaluator implements the recursive bottom-up subtree evaluator:
// for each join node it builds an ADD over the diagram adapter (internal/dd),
// folding in weights as it projects out the node's elimination variables.
package evaluator

import (
	"container/heap"

	"github.com/xDarkicex/wmc/internal/dd"
)

// JoinPriority selects how a nonterminal's children are combined, in the
// same spirit as a VSIDS-style activity ordering generalized from "order
// decision variables by activity" to "order child diagrams by node count"
// via container/heap.
type JoinPriority int

const (
	Arbitrary JoinPriority = iota
	SmallestPair
	LargestPair
)

// combineItem is one entry of the priority queue: a diagram and its node
// count at the time it was pushed.
type combineItem struct {
	d     dd.Dd
	count int
}

// ddHeap orders combineItems by node count; smallestFirst selects min-heap
// vs. max-heap ordering for SmallestPair vs. LargestPair.
type ddHeap struct {
	items         []combineItem
	smallestFirst bool
}

func (h ddHeap) Len() int { return len(h.items) }
func (h ddHeap) Less(i, j int) bool {
	if h.smallestFirst {
		return h.items[i].count < h.items[j].count
	}
	return h.items[i].count > h.items[j].count
}
func (h ddHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *ddHeap) Push(x interface{}) {
	h.items = append(h.items, x.(combineItem))
}
func (h *ddHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// Combine multiplies children according to priority:
//   - Arbitrary: left-fold product in child order.
//   - SmallestPair/LargestPair: repeatedly pop the two diagrams ranked
//     first by node count, multiply them, and push the product back,
//     until one diagram remains.
func Combine(mgr *dd.Mgr, priority JoinPriority, children []dd.Dd) dd.Dd {
	if len(children) == 0 {
		return mgr.One()
	}
	if priority == Arbitrary {
		acc := children[0]
		for _, c := range children[1:] {
			acc = mgr.Product(acc, c)
		}
		return acc
	}

	h := &ddHeap{smallestFirst: priority == SmallestPair}
	for _, c := range children {
		heap.Push(h, combineItem{d: c, count: mgr.NodeCount(c)})
	}

	for h.Len() > 1 {
		a := heap.Pop(h).(combineItem)
		b := heap.Pop(h).(combineItem)
		product := mgr.Product(a.d, b.d)
		heap.Push(h, combineItem{d: product, count: mgr.NodeCount(product)})
	}
	return h.items[0].d
}
