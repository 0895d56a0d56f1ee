package state

// Host is the capability a UI framework provides to a component: read the
// current state and apply a partial patch.
//
// SetState merges patch into the current state. done, when non-nil, runs
// after the update has been committed and update hooks have run.
type Host interface {
	State() State
	SetState(patch State, done func())
}

// UpdateNotifier is implemented by hosts that call back after every
// committed update with the state as it was before the update.
type UpdateNotifier interface {
	OnUpdate(fn func(prev State))
}

// DefaultMaxUpdateDepth bounds the number of commits a single SetState may
// cascade into through update hooks.
const DefaultMaxUpdateDepth = 50

// MemoryHost is a synchronous in-memory Host.
//
// Updates requested while an update is being committed (typically from an
// update hook) are queued and committed after the current one, so hooks
// never run reentrantly. When a cascade exceeds MaxUpdateDepth the queue is
// dropped and Err reports ErrUpdateDepth.
//
// MemoryHost is NOT thread-safe.
type MemoryHost struct {
	// MaxUpdateDepth overrides DefaultMaxUpdateDepth when positive.
	MaxUpdateDepth int

	state    State
	hooks    []func(prev State)
	queue    []pendingUpdate
	flushing bool
	commits  int
	err      error
}

type pendingUpdate struct {
	patch State
	done  func()
}

// NewMemoryHost creates a host holding a copy of initial.
func NewMemoryHost(initial State) *MemoryHost {
	return &MemoryHost{state: initial.Clone()}
}

// State returns the current state.
func (h *MemoryHost) State() State {
	return h.state
}

// OnUpdate registers fn to run after every committed update.
func (h *MemoryHost) OnUpdate(fn func(prev State)) {
	if fn != nil {
		h.hooks = append(h.hooks, fn)
	}
}

// SetState queues patch and commits it, along with anything queued by the
// update hooks, before returning.
func (h *MemoryHost) SetState(patch State, done func()) {
	h.queue = append(h.queue, pendingUpdate{patch: patch, done: done})
	if h.flushing {
		return
	}
	h.flush()
}

func (h *MemoryHost) flush() {
	h.flushing = true
	h.err = nil
	defer func() { h.flushing = false }()

	limit := h.MaxUpdateDepth
	if limit <= 0 {
		limit = DefaultMaxUpdateDepth
	}

	depth := 0
	for len(h.queue) > 0 {
		if depth >= limit {
			h.queue = nil
			h.err = &Error{Op: "state.MemoryHost.SetState", Kind: KindUpdate, Err: ErrUpdateDepth}
			return
		}
		depth++

		next := h.queue[0]
		h.queue = h.queue[1:]

		prev := h.state
		h.state = prev.With(next.patch)
		h.commits++
		for _, hook := range h.hooks {
			hook(prev)
		}
		if next.done != nil {
			next.done()
		}
	}
}

// Commits returns the number of updates committed so far.
func (h *MemoryHost) Commits() int {
	return h.commits
}

// Err returns the error that aborted the most recent update cascade, if
// any. Each new cascade clears it.
func (h *MemoryHost) Err() error {
	return h.err
}
