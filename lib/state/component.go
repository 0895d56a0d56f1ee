package state

import (
	"fmt"
	"log/slog"
)

// component holds what Store and Container share: the host, reporting,
// derived-state rules and the mounted action registry.
type component struct {
	host    Host
	opts    Options
	log     *slog.Logger
	rules   []Rule
	actions *Actions
	mounted bool
}

func newComponent(host Host, opts Options) component {
	return component{
		host: host,
		opts: opts,
		log:  opts.logger(),
	}
}

// fail reports err and returns what the error handler decided.
func (c *component) fail(err *Error) error {
	if reported := c.opts.report(err); reported != nil {
		return reported
	}
	c.log.Debug("state error swallowed", "op", err.Op, "kind", err.Kind.String(), "err", err.Err)
	return nil
}

func (c *component) addRules(rules []Rule) error {
	for i, r := range rules {
		if err := r.Validate(); err != nil {
			if reported := c.opts.report(err); reported != nil {
				return reported
			}
			c.log.Debug("skipping derive rule", "index", i)
			continue
		}
		c.rules = append(c.rules, r)
	}
	return nil
}

func (c *component) register(acts *Actions, k Key, fn Action) error {
	if err := acts.add(k, fn); err != nil {
		return c.fail(&Error{Op: "state.Mount", Kind: KindConfig, Field: k.Field, Err: err})
	}
	return nil
}

// mount installs the action registry, subscribes to host updates and
// seeds every key of initial the host does not already hold.
func (c *component) mount(acts *Actions, initial State) {
	c.actions = acts
	c.mounted = true
	if n, ok := c.host.(UpdateNotifier); ok {
		n.OnUpdate(c.Update)
	}

	cur := c.host.State()
	missing := State{}
	for k, v := range initial {
		if _, ok := cur[k]; !ok {
			missing[k] = v
		}
	}
	if len(missing) > 0 {
		c.host.SetState(missing, nil)
	}
}

// Actions returns the actions generated at mount, or nil before Mount.
func (c *component) Actions() *Actions {
	return c.actions
}

// Mounted reports whether Mount has run.
func (c *component) Mounted() bool {
	return c.mounted
}

// Host returns the host the component sits on.
func (c *component) Host() Host {
	return c.host
}

// Rules returns the validated derive rules in declaration order.
func (c *component) Rules() []Rule {
	return c.rules
}

// Update runs one derived-state cycle against the state before the last
// committed update. Hosts implementing UpdateNotifier call it automatically.
func (c *component) Update(prev State) {
	patch := Reduce(prev, c.host.State(), c.rules)
	if len(patch) == 0 {
		return
	}
	c.log.Debug("derived state", "keys", patch.Keys())
	c.host.SetState(patch, nil)
}

func argCount(k Key, args []any, want int) *Error {
	if len(args) == want {
		return nil
	}
	return &Error{
		Op:    k.Name(),
		Kind:  KindType,
		Field: k.Field,
		Err:   fmt.Errorf("%w: want %d, got %d", ErrArgCount, want, len(args)),
	}
}
