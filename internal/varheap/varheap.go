// Package varheap implements the VSIDS-style decision variable priority
// queue used by the CDCL engine's decision heuristic (§4.4). It is a
// binary max-heap over *cnf.Variable keyed by Variable.Weight(), storing
// each variable's position via Variable.HeapIndex() so activity bumps
// can re-sift in O(log n) without a secondary index.
//
// Grounded on the activity-heap pattern spec'd by the Variable.heap_index
// field itself (§3) and the VSIDS update/decay cycle shown by the
// retrieval pack's MiniSat-family solvers (rhartert/yass's VarOrder,
// xDarkicex/logic's bumpVariableActivity).
package varheap

import "github.com/benti/sidekick/cnf"

// Heap is a max-heap of variables ordered by activity.
type Heap struct {
	data []*cnf.Variable
}

func New() *Heap {
	return &Heap{}
}

func (h *Heap) Len() int { return len(h.data) }

func (h *Heap) less(i, j int) bool {
	return h.data[i].Weight() > h.data[j].Weight()
}

func (h *Heap) swap(i, j int) {
	h.data[i], h.data[j] = h.data[j], h.data[i]
	h.data[i].SetHeapIndex(i)
	h.data[j].SetHeapIndex(j)
}

func (h *Heap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			return
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *Heap) siftDown(i int) {
	n := len(h.data)
	for {
		left := 2*i + 1
		right := 2*i + 2
		smallest := i
		if left < n && h.less(left, smallest) {
			smallest = left
		}
		if right < n && h.less(right, smallest) {
			smallest = right
		}
		if smallest == i {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}

// Push inserts v into the heap. The caller must ensure v is not already
// present (HeapIndex() == -1).
func (h *Heap) Push(v *cnf.Variable) {
	if v.HeapIndex() != -1 {
		return
	}
	h.data = append(h.data, v)
	idx := len(h.data) - 1
	v.SetHeapIndex(idx)
	h.siftUp(idx)
}

// Contains reports whether v is currently in the heap.
func (h *Heap) Contains(v *cnf.Variable) bool {
	return v.HeapIndex() != -1
}

// Update re-sifts v after its activity changed. No-op if v is absent.
func (h *Heap) Update(v *cnf.Variable) {
	idx := v.HeapIndex()
	if idx == -1 {
		return
	}
	h.siftUp(idx)
	h.siftDown(v.HeapIndex())
}

// Remove removes v from the heap if present.
func (h *Heap) Remove(v *cnf.Variable) {
	idx := v.HeapIndex()
	if idx == -1 {
		return
	}
	last := len(h.data) - 1
	h.swap(idx, last)
	h.data = h.data[:last]
	v.SetHeapIndex(-1)
	if idx < len(h.data) {
		h.siftUp(idx)
		h.siftDown(idx)
	}
}

// PopMax removes and returns the highest-activity variable. It returns
// nil if the heap is empty.
func (h *Heap) PopMax() *cnf.Variable {
	if len(h.data) == 0 {
		return nil
	}
	top := h.data[0]
	last := len(h.data) - 1
	h.swap(0, last)
	h.data = h.data[:last]
	top.SetHeapIndex(-1)
	if len(h.data) > 0 {
		h.siftDown(0)
	}
	return top
}
