// Package junction implements the JunctionRegistry of §4.4: per-node slot
// lists that synchronize executors arriving on different in-edges before a
// junction node fires. It has no teacher counterpart (the teacher's DAG has
// no analogous multi-token rendezvous point); it is grounded loosely on the
// map-keyed, first-fit allocation pattern in the teacher's
// internal/registry/registry.go, generalized from "one name, one
// registrant" to "one node, many concurrently-open slots."
package junction

import "github.com/directedlang/directed/internal/bigint"

type slot struct {
	values      []bigint.Integer
	owners      []int
	filledCount int
}

func newSlot(arity int) *slot {
	owners := make([]int, arity)
	for i := range owners {
		owners[i] = -1
	}
	return &slot{values: make([]bigint.Integer, arity), owners: owners}
}

// Registry holds the open JunctionSlots for every junction node in one
// GraphInstance. The zero value is not usable; use NewRegistry.
type Registry struct {
	slots map[int][]*slot
}

// NewRegistry returns an empty junction registry for one GraphInstance.
func NewRegistry() *Registry {
	return &Registry{slots: make(map[int][]*slot)}
}

// Arrive records an executor's arrival at nodeID (of the given arity, i.e.
// node.Parents length) through in-edge position edgeIndex, carrying value.
//
// If this arrival completes a slot, ok is true: values holds the slot's
// accumulators in parent order, ready to pass to the node type's execute,
// and others holds the executor IDs of every other occupant of that slot —
// per §4.4's tie-break rule, the arriving executor (executorID) is the one
// that survives and carries the outcome, so the caller must mark every ID
// in others dead.
//
// If the slot is not yet full, ok is false; the caller should mark its own
// executor waiting and take no further action this step.
func (r *Registry) Arrive(nodeID, arity, edgeIndex, executorID int, value bigint.Integer) (values []bigint.Integer, others []int, ok bool) {
	list := r.slots[nodeID]
	for _, s := range list {
		if s.owners[edgeIndex] == -1 {
			return r.fill(nodeID, s, edgeIndex, executorID, value)
		}
	}
	s := newSlot(arity)
	r.slots[nodeID] = append(list, s)
	return r.fill(nodeID, s, edgeIndex, executorID, value)
}

func (r *Registry) fill(nodeID int, s *slot, edgeIndex, executorID int, value bigint.Integer) ([]bigint.Integer, []int, bool) {
	s.owners[edgeIndex] = executorID
	s.values[edgeIndex] = value
	s.filledCount++
	if s.filledCount < len(s.owners) {
		return nil, nil, false
	}

	others := make([]int, 0, len(s.owners)-1)
	for i, id := range s.owners {
		if i != edgeIndex {
			others = append(others, id)
		}
	}
	r.slots[nodeID] = removeSlot(r.slots[nodeID], s)
	return append([]bigint.Integer(nil), s.values...), others, true
}

func removeSlot(list []*slot, target *slot) []*slot {
	out := list[:0]
	for _, s := range list {
		if s != target {
			out = append(out, s)
		}
	}
	return out
}
