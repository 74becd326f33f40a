// Package gradient builds, for every agent acting as a message source, the
// hop distance ("gradient") of every other agent to that source.
//
// What
//
//   - Field stores gradient(source, observer) for all ordered pairs of a
//     topology.Topology; Unknown marks observers the source's wave never reached.
//   - Build advances all sources together in rounds. Each source keeps a
//     frontier (initially its direct neighbours at gradient 1); in round r
//     every frontier member's neighbours that have no gradient yet receive r+1
//     and form the next frontier. A source whose round produced nothing new is
//     retired. Building stops once every source is retired.
//   - Verify checks the post-conditions: gradient(s,s) == 0, symmetry
//     gradient(i,j) == gradient(j,i), and neighbour monotonicity
//     |gradient(s,a) - gradient(s,n)| <= 1 for every link (a,n).
//
// Why
//
//	The round structure is what an agent would observe if gradients were learnt
//	from relayed messages: in round r the wave of every source has advanced
//	exactly r hops. The message fabric gates relays on these values, so a
//	message only moves from lower to strictly higher gradient and can never
//	loop back toward its source.
//
// Determinism
//
//	A gradient is written exactly once per (source, observer) pair, in the
//	first round that reaches it, so ties cannot occur and the field is
//	independent of iteration order.
//
// Complexity (V = agents, E = links)
//
//   - Time:   O(V·E) worst case, bounded by diameter rounds.
//   - Memory: O(V²) for the field, O(V) per active frontier.
//
// Options
//
//   - WithContext(ctx):    cancellation, checked once per round.
//   - WithOnRound(fn):     hook after each round with the count of still-active sources.
//   - WithOnAssign(fn):    hook for every (source, observer, gradient) written.
//   - WithVerify(bool):    run Verify after building (default true).
//
// Errors
//
//   - ErrTopologyNil:          nil topology.
//   - ErrInternalConsistency:  a post-condition failed; wraps ErrAsymmetric,
//     ErrNotMonotone or ErrSourceNotZero. Always fatal.
//   - Wrapped hook errors from OnRound and context errors.
package gradient
