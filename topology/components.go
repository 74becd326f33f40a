package topology

import "sort"

// connectedComponents labels every agent with its component.
// Components are discovered in ascending order of their smallest agent ID and
// each member list is sorted, so the result is deterministic.
//
// Time:   O(N log N + E).
// Memory: O(N) for labels and the queue.
func connectedComponents(neighbors [][]int) ([][]int, []int) {
	label := make([]int, len(neighbors))
	for i := range label {
		label[i] = -1
	}
	var comps [][]int
	queue := make([]int, 0, len(neighbors))

	for start := range neighbors {
		if label[start] >= 0 {
			continue
		}
		id := len(comps)
		label[start] = id
		queue = append(queue[:0], start)
		for qi := 0; qi < len(queue); qi++ {
			for _, v := range neighbors[queue[qi]] {
				if label[v] < 0 {
					label[v] = id
					queue = append(queue, v)
				}
			}
		}
		members := make([]int, len(queue))
		copy(members, queue)
		sort.Ints(members)
		comps = append(comps, members)
	}

	return comps, label
}

// Components returns all connected components; each is a sorted slice of agent
// IDs. Component i is the one containing the i-th smallest "first" agent.
func (t *Topology) Components() [][]int {
	out := make([][]int, len(t.comps))
	for i, c := range t.comps {
		out[i] = make([]int, len(c))
		copy(out[i], c)
	}
	return out
}

// ComponentCount returns the number of connected components.
func (t *Topology) ComponentCount() int { return len(t.comps) }

// ComponentOf returns the component index of agent id, or -1 if id is invalid.
func (t *Topology) ComponentOf(id int) int {
	if !t.Valid(id) {
		return -1
	}
	return t.comp[id]
}

// ComponentSize returns the number of agents sharing a component with id.
func (t *Topology) ComponentSize(id int) int {
	c := t.ComponentOf(id)
	if c < 0 {
		return 0
	}
	return len(t.comps[c])
}

// SameComponent reports whether a and b can reach each other.
func (t *Topology) SameComponent(a, b int) bool {
	ca := t.ComponentOf(a)
	return ca >= 0 && ca == t.ComponentOf(b)
}
