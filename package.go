// Package moro provides a cooperative structured-concurrency scope:
// a coordinator under which a body of logic spawns interleaved jobs
// that never outlive it, and which can be collapsed early to a final
// value at any point. Execution is strictly single-threaded: jobs
// interleave at suspension points under a polling driver rather than
// running in parallel.
//
// Key components:
//
//   - Scope: owns every spawned job and an optional termination
//     value. Spawn admits work, Terminate collapses the scope (first
//     value wins), PollJobs steps the whole set, and Clear drops
//     whatever remains before teardown.
//
//   - Handle: the caller-facing future for one spawned job's
//     result, delivered through a single-use channel.
//
//   - Future/Context/Waker: the polling protocol everything speaks.
//     Enter combines a body with its scope, and Block is the root
//     driver that parks between polls.
//
//   - Async/Await: imperative bodies on coroutine stacks, for code
//     that reads top-to-bottom instead of as a poll state machine.
//
//   - Offload: bridges genuinely blocking calls onto bounded
//     goroutines and back into the cooperative world as futures.
//
// The scope is a join/cancel primitive, nothing more; it has no
// timeouts and no retry policies. Termination is prioritized: it is
// checked before the job set is touched and again after every
// single completion, so it always pre-empts further normal
// progress.
package moro
