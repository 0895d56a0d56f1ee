package state

import "sort"

// Handler computes a patch from the container's current state and the
// arguments the action was called with.
type Handler func(current State, args ...any) (State, error)

// ContainerConfig configures a Container.
type ContainerConfig struct {
	// State is the initial state. Every key gets a set<Key> action.
	State State
	// Rules recompute derived keys after each update.
	Rules []Rule
	// Handlers become actions named after their map key.
	Handlers map[string]Handler
	Options
}

// Container wraps a ready-made state object.
type Container struct {
	component
	initial  State
	handlers map[string]Handler
}

// NewContainer validates cfg and returns an unmounted container.
//
// A nil cfg.State is reported as ErrMissingState. If the error handler
// swallows it the container starts from an empty state.
func NewContainer(host Host, cfg ContainerConfig) (*Container, error) {
	if host == nil {
		return nil, &Error{Op: "state.NewContainer", Kind: KindConfig, Err: ErrMissingHost}
	}
	c := &Container{
		component: newComponent(host, cfg.Options),
		handlers:  make(map[string]Handler, len(cfg.Handlers)),
	}

	if cfg.State == nil {
		if err := c.fail(&Error{Op: "state.NewContainer", Kind: KindConfig, Err: ErrMissingState}); err != nil {
			return nil, err
		}
	}
	c.initial = cfg.State.Clone()

	if err := c.addRules(cfg.Rules); err != nil {
		return nil, err
	}

	for name, h := range cfg.Handlers {
		if name == "" || h == nil {
			if err := c.fail(&Error{Op: "state.NewContainer", Kind: KindConfig, Field: name, Err: ErrInvalidHandler}); err != nil {
				return nil, err
			}
			continue
		}
		c.handlers[name] = h
	}
	return c, nil
}

// InitialState returns a copy of the configured state.
func (c *Container) InitialState() State {
	return c.initial.Clone()
}

// Mount derives a setter for every initial key, binds the handlers and
// seeds the host with every key it does not hold yet. Calling Mount twice
// is a no-op.
func (c *Container) Mount() error {
	if c.mounted {
		return nil
	}
	acts := newActions()

	for _, field := range c.initial.Keys() {
		k := Set(field)
		err := c.register(acts, k, func(args ...any) error {
			if err := argCount(k, args, 1); err != nil {
				return c.fail(err)
			}
			c.log.Debug("action", "action", k.Name(), "field", field)
			c.host.SetState(State{field: args[0]}, nil)
			return nil
		})
		if err != nil {
			return err
		}
	}

	names := make([]string, 0, len(c.handlers))
	for name := range c.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		k := HandlerKey(name)
		h := c.handlers[name]
		err := c.register(acts, k, func(args ...any) error {
			patch, err := h(c.host.State(), args...)
			if err != nil {
				return c.fail(&Error{Op: k.Name(), Kind: KindHandler, Err: err})
			}
			c.log.Debug("action", "action", k.Name(), "keys", patch.Keys())
			if len(patch) > 0 {
				c.host.SetState(patch, nil)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	c.mount(acts, c.initial)
	return nil
}
