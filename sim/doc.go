// Package sim drives the role assignment protocol over a topology in
// synchronous steps.
//
// One step:
//
//  1. the fabric moves every in-flight message one hop away from its source;
//  2. every agent runs its state machine on the messages it just received,
//     seeing only its own state from the previous step;
//  3. the ledger slot of every agent is rewritten;
//  4. the messages produced in (2) are emitted in agent order;
//  5. the reporter observes the ledger and the conflicts of the step.
//
// Agent steps in (2) may run on a worker pool (WithParallel); the step is a
// barrier, so the result is identical to the sequential order.
//
// Run stops when every component converges. It also stops, with
// ErrInsufficientRoles or ErrStallDetected in Result.Err, once no agent has
// changed, no message can move and no agent awaits confirmation for
// StallFactor × (diameter+1) consecutive steps.
//
// A Simulation is single-use per trial: call Reset (and Reseed for random
// strategies) before the next Run. It is not safe for concurrent use.
package sim
