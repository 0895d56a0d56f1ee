package state

import "sort"

// Transform computes a descriptor's next value from its current value and
// the arguments the custom action was called with.
type Transform func(current any, args ...any) (any, error)

// Descriptor declares one piece of managed state and the mutations allowed
// on it.
type Descriptor struct {
	// Name is the state key. It must be unique within a store.
	Name string
	// Initial is the value installed at mount and restored by reset.
	Initial any

	Setable    bool
	Resetable  bool
	Toggleable bool

	// Mergeable enables merge<Name>. Initial must be a slice, array or a
	// map with string keys, and set<Name> only accepts values of the
	// same shape.
	Mergeable bool

	// Loadable tracks a <name>Loaded flag that turns true on the first
	// write by any of this descriptor's actions.
	Loadable bool

	// Handlers become <handler><Name> actions.
	Handlers map[string]Transform
}

// Validate checks the descriptor's own invariants. It does not check for
// collisions with other descriptors.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return &Error{Op: "state.Descriptor.Validate", Kind: KindConfig, Err: ErrEmptyName}
	}
	if d.Mergeable && d.Toggleable {
		return &Error{Op: "state.Descriptor.Validate", Kind: KindConfig, Field: d.Name, Err: ErrMergeToggle}
	}
	if d.Mergeable && shapeOf(d.Initial) == shapeOther {
		return &Error{Op: "state.Descriptor.Validate", Kind: KindConfig, Field: d.Name, Err: ErrMergeableType}
	}
	for name, fn := range d.Handlers {
		if name == "" || fn == nil {
			return &Error{Op: "state.Descriptor.Validate", Kind: KindConfig, Field: d.Name, Err: ErrInvalidHandler}
		}
	}
	return nil
}

// Keys lists the action keys the descriptor generates, custom handlers
// sorted by name.
func (d Descriptor) Keys() []Key {
	var keys []Key
	if d.Setable {
		keys = append(keys, Set(d.Name))
	}
	if d.Resetable {
		keys = append(keys, Reset(d.Name))
	}
	if d.Toggleable {
		keys = append(keys, Toggle(d.Name))
	}
	if d.Mergeable {
		keys = append(keys, Merge(d.Name))
	}
	names := make([]string, 0, len(d.Handlers))
	for name := range d.Handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		keys = append(keys, Custom(name, d.Name))
	}
	return keys
}

// LoadedKey returns the state key tracking whether name has been written.
func LoadedKey(name string) string {
	return name + "Loaded"
}
