// Package config loads store and container definitions from YAML.
//
// Functions cannot live in YAML, so handlers, transforms and derive
// functions are referenced by name and bound from Go with Bindings:
//
//	name: counter
//	strictToggle: true
//	omit: [debug]
//	state:
//	  - name: count
//	    initial: 0
//	    setable: true
//	    resetable: true
//	    handlers: [increment]
//	derive:
//	  - on: [count]
//	    rule: double
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pthm/hxstore/lib/state"
	"gopkg.in/yaml.v3"
)

// Component kinds.
const (
	KindStore     = "store"
	KindContainer = "container"
)

// Sentinel errors.
var (
	ErrMissingName = errors.New("config: component name is required")
	ErrInvalidKind = errors.New("config: kind must be store or container")
	ErrUnbound     = errors.New("config: name has no binding")
)

// File is one component definition.
type File struct {
	Name         string   `yaml:"name"`
	Kind         string   `yaml:"kind,omitempty"`
	Sensitive    bool     `yaml:"sensitive,omitempty"`
	StrictToggle bool     `yaml:"strictToggle,omitempty"`
	Omit         []string `yaml:"omit,omitempty"`

	// State lists descriptors (store kind).
	State []StateEntry `yaml:"state,omitempty"`
	// Initial is the ready-made state (container kind).
	Initial map[string]any `yaml:"initial,omitempty"`
	// Handlers names container handlers (container kind).
	Handlers []string `yaml:"handlers,omitempty"`

	Derive []RuleEntry `yaml:"derive,omitempty"`
}

// StateEntry is the YAML form of a state.Descriptor.
type StateEntry struct {
	Name       string   `yaml:"name"`
	Initial    any      `yaml:"initial"`
	Setable    bool     `yaml:"setable,omitempty"`
	Resetable  bool     `yaml:"resetable,omitempty"`
	Toggleable bool     `yaml:"toggleable,omitempty"`
	Mergeable  bool     `yaml:"mergeable,omitempty"`
	Loadable   bool     `yaml:"loadable,omitempty"`
	Handlers   []string `yaml:"handlers,omitempty"`
}

// RuleEntry is the YAML form of a state.Rule.
type RuleEntry struct {
	On   []string `yaml:"on"`
	Rule string   `yaml:"rule"`
}

// Bindings resolves the names a File refers to.
type Bindings struct {
	// Transforms are looked up by "<handler>" for descriptor handlers.
	Transforms map[string]state.Transform
	// Handlers are looked up by name for container handlers.
	Handlers map[string]state.Handler
	// Rules are looked up by RuleEntry.Rule.
	Rules map[string]func(state.State) state.State
}

// Load decodes a File from r. Unknown fields are rejected.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if f.Kind == "" {
		f.Kind = KindStore
	}
	return &f, nil
}

// LoadFile reads and decodes the file at path.
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f, err := Load(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Validate checks the file without real bindings: every referenced name is
// bound to a stub and the component is built and mounted on a scratch host.
func (f *File) Validate() error {
	if f.Name == "" {
		return ErrMissingName
	}
	host := state.NewMemoryHost(nil)
	b := f.stubBindings()

	switch f.Kind {
	case KindStore, "":
		cfg, err := f.StoreConfig(b)
		if err != nil {
			return err
		}
		s, err := state.NewStore(host, cfg)
		if err != nil {
			return err
		}
		return s.Mount()
	case KindContainer:
		cfg, err := f.ContainerConfig(b)
		if err != nil {
			return err
		}
		c, err := state.NewContainer(host, cfg)
		if err != nil {
			return err
		}
		return c.Mount()
	}
	return fmt.Errorf("%w: %q", ErrInvalidKind, f.Kind)
}

// StoreConfig builds a state.StoreConfig, resolving names through b.
func (f *File) StoreConfig(b Bindings) (state.StoreConfig, error) {
	cfg := state.StoreConfig{Options: state.Options{StrictToggle: f.StrictToggle}}
	for _, e := range f.State {
		d := state.Descriptor{
			Name:       e.Name,
			Initial:    e.Initial,
			Setable:    e.Setable,
			Resetable:  e.Resetable,
			Toggleable: e.Toggleable,
			Mergeable:  e.Mergeable,
			Loadable:   e.Loadable,
		}
		if len(e.Handlers) > 0 {
			d.Handlers = make(map[string]state.Transform, len(e.Handlers))
			for _, name := range e.Handlers {
				fn, ok := b.Transforms[name]
				if !ok {
					return state.StoreConfig{}, fmt.Errorf("%w: transform %q (state %q)", ErrUnbound, name, e.Name)
				}
				d.Handlers[name] = fn
			}
		}
		cfg.Descriptors = append(cfg.Descriptors, d)
	}

	rules, err := f.rules(b)
	if err != nil {
		return state.StoreConfig{}, err
	}
	cfg.Rules = rules
	return cfg, nil
}

// ContainerConfig builds a state.ContainerConfig, resolving names through b.
func (f *File) ContainerConfig(b Bindings) (state.ContainerConfig, error) {
	cfg := state.ContainerConfig{Options: state.Options{StrictToggle: f.StrictToggle}}
	if f.Initial != nil {
		cfg.State = state.State(f.Initial).Clone()
	}
	if len(f.Handlers) > 0 {
		cfg.Handlers = make(map[string]state.Handler, len(f.Handlers))
		for _, name := range f.Handlers {
			fn, ok := b.Handlers[name]
			if !ok {
				return state.ContainerConfig{}, fmt.Errorf("%w: handler %q", ErrUnbound, name)
			}
			cfg.Handlers[name] = fn
		}
	}

	rules, err := f.rules(b)
	if err != nil {
		return state.ContainerConfig{}, err
	}
	cfg.Rules = rules
	return cfg, nil
}

func (f *File) rules(b Bindings) ([]state.Rule, error) {
	rules := make([]state.Rule, 0, len(f.Derive))
	for _, r := range f.Derive {
		fn, ok := b.Rules[r.Rule]
		if !ok {
			return nil, fmt.Errorf("%w: rule %q", ErrUnbound, r.Rule)
		}
		rules = append(rules, state.Rule{On: r.On, Derive: fn})
	}
	return rules, nil
}

// Keys lists the action keys the component will generate, in the order the
// component registers them.
func (f *File) Keys() []state.Key {
	var keys []state.Key
	if f.Kind == KindContainer {
		for _, field := range state.State(f.Initial).Keys() {
			keys = append(keys, state.Set(field))
		}
		names := append([]string(nil), f.Handlers...)
		sort.Strings(names)
		for _, name := range names {
			keys = append(keys, state.HandlerKey(name))
		}
		return keys
	}

	cfg, _ := f.StoreConfig(f.stubBindings())
	for _, d := range cfg.Descriptors {
		keys = append(keys, d.Keys()...)
	}
	return keys
}

func (f *File) stubBindings() Bindings {
	b := Bindings{
		Transforms: make(map[string]state.Transform),
		Handlers:   make(map[string]state.Handler),
		Rules:      make(map[string]func(state.State) state.State),
	}
	for _, e := range f.State {
		for _, name := range e.Handlers {
			b.Transforms[name] = func(cur any, _ ...any) (any, error) { return cur, nil }
		}
	}
	for _, name := range f.Handlers {
		b.Handlers[name] = func(state.State, ...any) (state.State, error) { return nil, nil }
	}
	for _, r := range f.Derive {
		b.Rules[r.Rule] = func(state.State) state.State { return nil }
	}
	return b
}
