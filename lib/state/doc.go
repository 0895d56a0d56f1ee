// Package state implements the host-agnostic core of hxstore: descriptor
// driven action generation, derived-state reduction and prop sanitizing.
//
// A component (Store or Container) sits on a Host, the minimal capability a
// UI framework has to offer: read the current State, and apply a partial
// patch with an optional completion callback. Everything here runs
// synchronously inside the host's mount and update callbacks.
//
// # Store
//
// A Store interprets a list of descriptors:
//
//	host := state.NewMemoryHost(nil)
//	s, err := state.NewStore(host, state.StoreConfig{
//	    Descriptors: []state.Descriptor{
//	        {Name: "count", Initial: 0, Setable: true, Resetable: true},
//	        {Name: "tags", Initial: []string{}, Mergeable: true},
//	    },
//	})
//	s.Mount()
//	s.Actions().Call(state.Set("count"), 3)
//	s.Actions().Call(state.Merge("tags"), []string{"go"})
//
// # Container
//
// A Container takes a ready-made State, derives a setter for every key and
// binds a map of handlers that compute patches from the current state.
//
// # Derived state
//
// Rules declare the keys they depend on. After every committed update the
// component compares the previous and current values of those keys and runs
// the rules whose dependencies changed, in declaration order, folding their
// patches into a single update.
//
// # Action keys
//
// Actions are addressed by a typed Key (verb, field, handler) rather than by
// string. The conventional names (setCount, resetCount, toggleOpen,
// mergeTags, incrementCount) are derived from the key and only used where a
// string is unavoidable, such as URL paths.
package state
