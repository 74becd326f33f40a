// Package swarmrole simulates decentralized one-to-one role assignment in a
// swarm of agents placed on a grid network.
//
// Agents only talk to their grid neighbours. Each agent picks a role from a
// shared pool, announces it, and resolves collisions with a deterministic
// tie-break until every connected component holds pairwise distinct,
// confirmed roles.
//
// Packages, bottom-up:
//
//	topology/     agent positions, grid adjacency, connected components, generators
//	gradient/     hop-count field gradient(source, observer) built in rounds
//	fabric/       forward-only message relay, one hop per step, deduplicated
//	role/         per-agent state machine, proposal strategies, tie-breaks
//	report/       per-step convergence snapshots and the conflict log
//	sim/          synchronous step driver, stall detection, trials
//	telemetry/    slog handler and OpenTelemetry instruments
//	config/       layered configuration (defaults, YAML, ROLESIM_* env)
//	store/sqlite/ run recorder
//	cmd/rolesim/  command line front end
//
// Quick ASCII example, three agents on a triangle grid:
//
//	  2
//	 / \
//	0 ─ 1
//
// All three start on role 0. Agent 0 wins both collisions, agent 1 moves to
// role 1 and agent 2 to role 2, and the run converges.
package swarmrole
