package state

// Rule recomputes derived state when any of its trigger keys change.
type Rule struct {
	// On lists the state keys the rule depends on.
	On []string
	// Derive returns a patch computed from the full state. It must be pure.
	Derive func(State) State
}

// Validate checks that the rule has triggers and a derive function.
func (r Rule) Validate() error {
	if len(r.On) == 0 || r.Derive == nil {
		return &Error{Op: "state.Rule.Validate", Kind: KindConfig, Err: ErrInvalidRule}
	}
	for _, key := range r.On {
		if key == "" {
			return &Error{Op: "state.Rule.Validate", Kind: KindConfig, Err: ErrInvalidRule}
		}
	}
	return nil
}

// Triggered reports whether any of the rule's keys changed between prev and cur.
func (r Rule) Triggered(prev, cur State) bool {
	for _, key := range r.On {
		if cur.Changed(prev, key) {
			return true
		}
	}
	return false
}

// Reduce runs every triggered rule in order and returns the combined patch.
//
// Each rule sees the current state with the patches of earlier rules
// applied. The result is empty when no rule fired.
func Reduce(prev, cur State, rules []Rule) State {
	acc := State{}
	for _, r := range rules {
		if !r.Triggered(prev, cur) {
			continue
		}
		for k, v := range r.Derive(cur.With(acc)) {
			acc[k] = v
		}
	}
	return acc
}
