// Package fabric simulates neighbour-only message delivery with one hop of
// latency per simulated step and a forward-only relay rule.
//
// A message about source S held by agent h is relayed, on the next Step, to
// every neighbour n with gradient(S,n) > gradient(S,h). Receivers keep the
// first copy of each (source, seq) pair, expose it in their inbox for that
// step, and schedule their own relay for the following step; later copies of
// the same pair are suppressed. Consequently a message reaches every agent of
// its source's component exactly once, at step SentAt + gradient, along a
// shortest path, and never travels back toward its source, even on cyclic
// topologies.
//
// Step is the only place simulated time advances.
package fabric
