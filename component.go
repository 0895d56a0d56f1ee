package hxstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/a-h/templ"
	"github.com/pthm/hxstore/lib/state"
)

// RenderFunc produces the markup for one request cycle.
//
// It receives the state after mount, actions and derived updates have
// settled, plus the sanitized props the component was first rendered with.
type RenderFunc func(ctx context.Context, v View) templ.Component

// model is the state machine behind a Component. *state.Store and
// *state.Container both satisfy it.
type model interface {
	Mount() error
	Actions() *state.Actions
	InitialState() state.State
}

// StoreOptions configure a descriptor-driven component.
type StoreOptions struct {
	Descriptors []state.Descriptor
	Rules       []state.Rule
	Render      RenderFunc
	// Omit lists extra prop names stripped before props reach Render.
	Omit []string
	state.Options
}

// ContainerOptions configure a component around a ready-made state object.
type ContainerOptions struct {
	State    state.State
	Rules    []state.Rule
	Handlers map[string]state.Handler
	Render   RenderFunc
	Omit     []string
	state.Options
}

// Component serves one state component over HTMX.
//
// Every request rebuilds the component on a fresh state.MemoryHost seeded
// from the snapshot the browser sent back, runs the requested action and
// its derived updates, and renders the result with a new snapshot embedded
// in the action attributes. The server keeps no per-client state.
//
// Each component receives a deterministic URL prefix based on its name and
// source location (file:line), so two components with the same name get
// distinct routes.
type Component struct {
	name      string
	prefix    string
	sensitive bool
	swap      SwapMode
	render    RenderFunc
	omit      []string
	opts      state.Options
	keys      []state.Key
	build     func(host state.Host, opts state.Options) (model, error)
	encoder   *Encoder
	reg       *Registry
}

// NewStore creates a component whose actions are generated from
// descriptors.
//
// Configuration errors, including a missing render function, go through
// opts.OnError. With the default handler they are returned.
func NewStore(name string, opts StoreOptions) (*Component, error) {
	c := newComponent(name, opts.Render, opts.Omit, opts.Options)
	c.build = func(host state.Host, o state.Options) (model, error) {
		return state.NewStore(host, state.StoreConfig{
			Descriptors: opts.Descriptors,
			Rules:       opts.Rules,
			Options:     o,
		})
	}
	if err := c.init(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewContainer creates a component that wraps a ready-made state object
// with a setter per key and the given handlers.
func NewContainer(name string, opts ContainerOptions) (*Component, error) {
	c := newComponent(name, opts.Render, opts.Omit, opts.Options)
	var initial state.State
	if opts.State != nil {
		initial = opts.State.Clone()
	}
	c.build = func(host state.Host, o state.Options) (model, error) {
		return state.NewContainer(host, state.ContainerConfig{
			State:    initial,
			Rules:    opts.Rules,
			Handlers: opts.Handlers,
			Options:  o,
		})
	}
	if err := c.init(); err != nil {
		return nil, err
	}
	return c, nil
}

func newComponent(name string, render RenderFunc, omit []string, opts state.Options) *Component {
	return &Component{
		name:   name,
		prefix: "/_c/" + name + "-" + componentHash(name, 2),
		swap:   SwapOuter,
		render: render,
		omit:   omit,
		opts:   opts,
	}
}

// init validates the configuration by mounting it once on a scratch host
// and records the action keys it produced.
func (c *Component) init() error {
	if c.name == "" {
		if err := c.report(&state.Error{Op: "hxstore.New", Kind: state.KindConfig, Err: state.ErrEmptyName}); err != nil {
			return err
		}
	}
	if c.render == nil {
		if err := c.report(&state.Error{Op: "hxstore.New", Kind: state.KindConfig, Field: c.name, Err: state.ErrMissingRender}); err != nil {
			return err
		}
		c.render = emptyRender
	}

	m, err := c.build(state.NewMemoryHost(nil), c.opts)
	if err != nil {
		return err
	}
	if err := m.Mount(); err != nil {
		return err
	}
	c.keys = m.Actions().Keys()
	return nil
}

func (c *Component) report(err error) error {
	if c.opts.OnError == nil {
		return err
	}
	return c.opts.OnError(err)
}

func (c *Component) logger() *slog.Logger {
	if c.opts.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.opts.Logger
}

// Sensitive switches snapshots from signed to encrypted.
//
// Signed snapshots are tamper-proof but readable by the client. Use
// Sensitive when state holds anything the client must not see.
func (c *Component) Sensitive() *Component {
	c.sensitive = true
	return c
}

// Swap sets how action responses replace the component root. The default
// is SwapOuter.
func (c *Component) Swap(mode SwapMode) *Component {
	c.swap = mode
	return c
}

// Name returns the component's name.
func (c *Component) Name() string {
	return c.name
}

// Prefix returns the component's URL prefix.
// All actions for this component are mounted under this prefix.
func (c *Component) Prefix() string {
	return c.prefix
}

// IsSensitive returns whether the component encrypts its snapshots.
func (c *Component) IsSensitive() bool {
	return c.sensitive
}

// Keys returns the action keys the component exposes, in registration
// order.
func (c *Component) Keys() []state.Key {
	return append([]state.Key(nil), c.keys...)
}

// SetEncoder sets the snapshot encoder (called by the registry).
func (c *Component) SetEncoder(enc *Encoder) {
	c.encoder = enc
}

// Encoder returns the snapshot encoder.
func (c *Component) Encoder() *Encoder {
	return c.encoder
}

// HXPrefix implements HXComponent.
func (c *Component) HXPrefix() string {
	return c.prefix
}

// Render returns the initial render of the component for embedding in a
// page. Reserved and omitted props are stripped before they reach the
// render function and the snapshot.
//
//	@counter.Render(map[string]any{"title": "Clicks"})
func (c *Component) Render(props map[string]any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		v, err := c.Dispatch(ctx, Snapshot{Props: state.Sanitize(props, c.omit...)}, "")
		if err != nil {
			return err
		}
		return c.render(ctx, v).Render(ctx, w)
	})
}

// Lazy returns a placeholder that loads the initial render once it scrolls
// into view.
func (c *Component) Lazy(props map[string]any, placeholder templ.Component) templ.Component {
	return c.deferred(props, placeholder, "intersect once")
}

// Defer returns a placeholder that loads the initial render after the page
// has loaded.
func (c *Component) Defer(props map[string]any, placeholder templ.Component) templ.Component {
	return c.deferred(props, placeholder, "load")
}

func (c *Component) deferred(props map[string]any, placeholder templ.Component, trigger string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		encoded, err := c.encode(Snapshot{Props: state.Sanitize(props, c.omit...)})
		if err != nil {
			return err
		}
		return lazyComponent(c.refreshURL(encoded), placeholder, trigger).Render(ctx, w)
	})
}

func (c *Component) refreshURL(encoded string) string {
	if encoded == "" {
		return c.prefix + "/"
	}
	return c.prefix + "/?p=" + encoded
}

func (c *Component) encode(s Snapshot) (string, error) {
	if c.encoder == nil {
		return "", nil
	}
	encoded, err := c.encoder.Encode(s, c.sensitive)
	if err != nil {
		return "", fmt.Errorf("hxstore: encode %s snapshot: %w", c.name, err)
	}
	return encoded, nil
}

// componentHash generates a deterministic hash based on component name and source location.
// This ensures each component instance gets a unique prefix without manual coordination.
func componentHash(name string, skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	var input string
	if ok {
		// Base filename only, so prefixes survive moving the checkout.
		input = fmt.Sprintf("%s:%d:%s", filepath.Base(file), line, name)
	} else {
		input = name
	}
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:4])
}

func emptyRender(context.Context, View) templ.Component {
	return templ.NopComponent
}

// lazyComponent creates a placeholder that loads content on trigger.
func lazyComponent(url string, placeholder templ.Component, trigger string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div hx-get="%s" hx-trigger="%s" hx-swap="outerHTML">`, templ.EscapeString(url), trigger)
		if err != nil {
			return err
		}
		if placeholder != nil {
			if err := placeholder.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, `</div>`)
		return err
	})
}
