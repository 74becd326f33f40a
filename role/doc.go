// Package role implements the per-agent role assignment state machine.
//
// States and transitions:
//
//	UNASSIGNED ──propose──▶ PROPOSED ──horizon quiet──▶ CONFIRMED
//	                           │                          │
//	                           └──lost tie-break──┬───────┘
//	                                              ▼
//	                                         IN_CONFLICT ──next step──▶ PROPOSED
//
// Each step an agent absorbs the messages delivered to it, keeping the latest
// claim of every source. A proposal for the agent's own role from another
// source is a conflict; both sides evaluate the same TieBreak and the loser
// drops the role, remembers it as lost, broadcasts a notice and re-proposes on
// the following step. Candidates are the pool roles that are neither lost nor
// known to be claimed, so an agent never proposes a role it lost, and each
// conflict permanently removes one (agent, role) pair: the number of conflicts
// is finite and the protocol cannot cycle.
//
// An agent with no candidate left stays UNASSIGNED. When the pool is smaller
// than the component this is permanent, and the driver detects it as a stall.
//
// Policies are pluggable: ProposalStrategy (LowestAvailable, RandomAvailable,
// Preferences) and TieBreak (LowerIDWins, EarlierProposalWins).
package role
