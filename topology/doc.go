// Package topology models a swarm of agents placed on a 2D grid as an
// immutable, undirected communication graph.
//
// What:
//
//   - Topology wraps an ordered list of integer grid positions; the index of a
//     position is the agent ID (0..N-1), assigned once and never reused.
//   - Two agents are neighbours iff their positions satisfy the adjacency
//     predicate of the chosen GridKind.
//   - Components enumerates connected components ("islands" of agents);
//     role uniqueness is only meaningful inside one component.
//   - ReadPoints / LoadFile parse coordinate files of "x y" lines.
//
// Grid kinds:
//
//   - GridTriangle: |Δx|+|Δy| == 1 or Δx·Δy == -1 (six neighbours).
//   - GridSquare:   |Δx|+|Δy| == 1 (four neighbours).
//   - GridSquare8:  max(|Δx|,|Δy|) == 1 (eight neighbours).
//
// Complexity:
//
//   - Build:      O(N) expected, using a position index and per-kind offsets.
//   - Components: O(N + E), Memory: O(N).
//
// Errors:
//
//   - ErrInvalidTopology: umbrella for every construction failure below.
//   - ErrEmptyNetwork:    no positions supplied.
//   - ErrDuplicateNode:   two agents share a position.
//   - ErrSizeMismatch:    expected size disagrees with the node count.
//   - ErrMalformedLine:   a coordinate line is not two integers.
//   - ErrOptionViolation: an Option was given an invalid value.
package topology
