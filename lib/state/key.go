package state

import (
	"fmt"
	"slices"
)

// Verb is the kind of mutation an action performs.
type Verb uint8

const (
	// VerbSet writes a new value.
	VerbSet Verb = iota + 1
	// VerbReset restores the initial value.
	VerbReset
	// VerbToggle inverts a boolean.
	VerbToggle
	// VerbMerge concatenates arrays or shallow-merges objects.
	VerbMerge
	// VerbCustom runs a user transform or container handler.
	VerbCustom
)

func (v Verb) String() string {
	switch v {
	case VerbSet:
		return "set"
	case VerbReset:
		return "reset"
	case VerbToggle:
		return "toggle"
	case VerbMerge:
		return "merge"
	case VerbCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Key addresses one generated action.
//
// Handler is only meaningful for VerbCustom. Container handlers are not
// bound to a field and carry an empty Field.
type Key struct {
	Verb    Verb
	Field   string
	Handler string
}

// Set returns the key of the setter for field.
func Set(field string) Key { return Key{Verb: VerbSet, Field: field} }

// Reset returns the key of the reset action for field.
func Reset(field string) Key { return Key{Verb: VerbReset, Field: field} }

// Toggle returns the key of the toggle action for field.
func Toggle(field string) Key { return Key{Verb: VerbToggle, Field: field} }

// Merge returns the key of the merge action for field.
func Merge(field string) Key { return Key{Verb: VerbMerge, Field: field} }

// Custom returns the key of a descriptor's custom handler.
func Custom(handler, field string) Key {
	return Key{Verb: VerbCustom, Field: field, Handler: handler}
}

// HandlerKey returns the key of a container handler.
func HandlerKey(name string) Key { return Key{Verb: VerbCustom, Handler: name} }

// Name returns the conventional action name: the verb (or handler name)
// followed by the capitalized field, e.g. "setCount" or "incrementCount".
func (k Key) Name() string {
	if k.Verb == VerbCustom {
		return k.Handler + capitalize(k.Field)
	}
	return k.Verb.String() + capitalize(k.Field)
}

func (k Key) String() string {
	return k.Name()
}

// Action is a generated mutation. Set and merge take the new value,
// reset and toggle take nothing, custom actions pass their arguments
// through to the user function.
type Action func(args ...any) error

// Actions is the registry of actions generated at mount.
type Actions struct {
	keys  []Key
	fns   map[Key]Action
	names map[string]Key
}

func newActions() *Actions {
	return &Actions{
		fns:   make(map[Key]Action),
		names: make(map[string]Key),
	}
}

func (a *Actions) add(k Key, fn Action) error {
	name := k.Name()
	if _, exists := a.names[name]; exists {
		return fmt.Errorf("%w: action %q", ErrDuplicateName, name)
	}
	a.keys = append(a.keys, k)
	a.fns[k] = fn
	a.names[name] = k
	return nil
}

// Get returns the action for k.
func (a *Actions) Get(k Key) (Action, bool) {
	if a == nil {
		return nil, false
	}
	fn, ok := a.fns[k]
	return fn, ok
}

// Call invokes the action for k with args.
func (a *Actions) Call(k Key, args ...any) error {
	if a == nil {
		return &Error{Op: k.Name(), Kind: KindConfig, Field: k.Field, Err: ErrNotMounted}
	}
	fn, ok := a.fns[k]
	if !ok {
		return &Error{Op: k.Name(), Kind: KindConfig, Field: k.Field, Err: ErrUnknownAction}
	}
	return fn(args...)
}

// Lookup resolves a conventional action name back to its key.
func (a *Actions) Lookup(name string) (Key, bool) {
	if a == nil {
		return Key{}, false
	}
	k, ok := a.names[name]
	return k, ok
}

// Keys returns all keys in registration order.
func (a *Actions) Keys() []Key {
	if a == nil {
		return nil
	}
	return slices.Clone(a.keys)
}

// Len returns the number of registered actions.
func (a *Actions) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}
