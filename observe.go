package moro

// Observer receives lifecycle notifications from a scope. All
// callbacks fire synchronously on the driver's goroutine and must
// not call back into the scope.
type Observer interface {
	// ScopeCreated fires once, from New.
	ScopeCreated()
	// TaskSpawned fires for every Spawn, including the job pushed
	// by Terminate.
	TaskSpawned()
	// TaskCompleted fires when a spawned job finishes and delivers
	// its result. Jobs abandoned by termination or Clear never
	// complete.
	TaskCompleted()
	// ScopeTerminated fires when the termination slot is first set.
	// Repeat Terminate calls do not fire it again.
	ScopeTerminated()
	// ScopeCleared fires on Clear with the number of jobs dropped.
	ScopeCleared(dropped int)
}

// Option configures a scope at creation.
type Option func(*options)

type options struct {
	obs Observer
}

// WithObserver attaches obs to the scope.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.obs = obs }
}
