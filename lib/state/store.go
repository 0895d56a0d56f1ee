package state

import (
	"fmt"
	"slices"
)

// StoreConfig configures a Store.
type StoreConfig struct {
	Descriptors []Descriptor
	Rules       []Rule
	Options
}

// Store generates actions from descriptors.
type Store struct {
	component
	descs []Descriptor
}

// NewStore validates cfg and returns an unmounted store.
//
// Invalid descriptors and rules are reported through cfg.OnError. If the
// handler swallows an error the offending entry is skipped.
func NewStore(host Host, cfg StoreConfig) (*Store, error) {
	if host == nil {
		return nil, &Error{Op: "state.NewStore", Kind: KindConfig, Err: ErrMissingHost}
	}
	s := &Store{component: newComponent(host, cfg.Options)}
	if err := s.addRules(cfg.Rules); err != nil {
		return nil, err
	}

	taken := make(map[string]bool)
	for _, d := range cfg.Descriptors {
		err := d.Validate()
		if err == nil && (taken[d.Name] || (d.Loadable && taken[LoadedKey(d.Name)])) {
			err = &Error{Op: "state.NewStore", Kind: KindConfig, Field: d.Name, Err: ErrDuplicateName}
		}
		if err != nil {
			if reported := s.opts.report(err); reported != nil {
				return nil, reported
			}
			s.log.Debug("skipping descriptor", "name", d.Name, "err", err)
			continue
		}
		taken[d.Name] = true
		if d.Loadable {
			taken[LoadedKey(d.Name)] = true
		}
		s.descs = append(s.descs, d)
	}
	return s, nil
}

// Descriptors returns the accepted descriptors.
func (s *Store) Descriptors() []Descriptor {
	return slices.Clone(s.descs)
}

// InitialState returns every descriptor's initial value, plus a false
// loaded flag for loadable descriptors.
func (s *Store) InitialState() State {
	st := make(State, len(s.descs))
	for _, d := range s.descs {
		st[d.Name] = d.Initial
		if d.Loadable {
			st[LoadedKey(d.Name)] = false
		}
	}
	return st
}

// Mount builds the action registry and seeds the host with the initial
// value of every key it does not hold yet. Calling Mount twice is a no-op.
func (s *Store) Mount() error {
	if s.mounted {
		return nil
	}
	acts := newActions()
	for _, d := range s.descs {
		for _, k := range d.Keys() {
			if err := s.register(acts, k, s.action(d, k)); err != nil {
				return err
			}
		}
	}
	s.mount(acts, s.InitialState())
	return nil
}

func (s *Store) action(d Descriptor, k Key) Action {
	switch k.Verb {
	case VerbSet:
		return func(args ...any) error {
			if err := argCount(k, args, 1); err != nil {
				return s.fail(err)
			}
			v := args[0]
			if d.Mergeable && shapeOf(v) != shapeOf(d.Initial) {
				return s.fail(&Error{
					Op:    k.Name(),
					Kind:  KindType,
					Field: d.Name,
					Err:   fmt.Errorf("%w: want %s, got %T", ErrShapeMismatch, shapeOf(d.Initial), v),
				})
			}
			return s.write(d, k, v)
		}

	case VerbReset:
		return func(args ...any) error {
			if err := argCount(k, args, 0); err != nil {
				return s.fail(err)
			}
			return s.write(d, k, d.Initial)
		}

	case VerbToggle:
		return func(args ...any) error {
			if err := argCount(k, args, 0); err != nil {
				return s.fail(err)
			}
			cur := s.host.State()[d.Name]
			b, ok := cur.(bool)
			if !ok {
				if s.opts.StrictToggle {
					return s.fail(&Error{
						Op:    k.Name(),
						Kind:  KindType,
						Field: d.Name,
						Err:   fmt.Errorf("%w: got %T", ErrNotBool, cur),
					})
				}
				b = truthy(cur)
			}
			return s.write(d, k, !b)
		}

	case VerbMerge:
		return func(args ...any) error {
			if err := argCount(k, args, 1); err != nil {
				return s.fail(err)
			}
			merged, err := mergeValues(s.host.State()[d.Name], args[0])
			if err != nil {
				return s.fail(&Error{Op: k.Name(), Kind: KindMerge, Field: d.Name, Err: err})
			}
			return s.write(d, k, merged)
		}
	}

	transform := d.Handlers[k.Handler]
	return func(args ...any) error {
		next, err := transform(s.host.State()[d.Name], args...)
		if err != nil {
			return s.fail(&Error{Op: k.Name(), Kind: KindHandler, Field: d.Name, Err: err})
		}
		return s.write(d, k, next)
	}
}

func (s *Store) write(d Descriptor, k Key, v any) error {
	patch := State{d.Name: v}
	if d.Loadable {
		patch[LoadedKey(d.Name)] = true
	}
	s.log.Debug("action", "action", k.Name(), "field", d.Name)
	s.host.SetState(patch, nil)
	return nil
}
