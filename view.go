package hxstore

import (
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pthm/hxstore/lib/state"
)

// View is what a RenderFunc receives: the settled state of one request
// cycle and the attribute builders that wire markup back to the
// component's actions.
//
// Values read back from a snapshot are normalized (integers as int64,
// floats as float64, []any, map[string]any). Use Int, Float, String, Bool and List,
// or the As* helpers, instead of asserting concrete Go types.
type View struct {
	State state.State
	Props map[string]any
	// Errors holds errors the error handler swallowed during this cycle.
	Errors []error

	c       *Component
	actions *state.Actions
	encoded string
}

// Get returns the value of a state key.
func (v View) Get(name string) any {
	return v.State[name]
}

// Loaded reports whether a loadable descriptor has been written to since
// mount.
func (v View) Loaded(name string) bool {
	b, _ := v.State[state.LoadedKey(name)].(bool)
	return b
}

// Has reports whether the component exposes the action k.
func (v View) Has(k state.Key) bool {
	_, ok := v.actions.Get(k)
	return ok
}

// Int returns a numeric state key as an int.
func (v View) Int(name string) int { return AsInt(v.State[name]) }

// Float returns a numeric state key as a float64.
func (v View) Float(name string) float64 { return AsFloat(v.State[name]) }

// String returns a string state key, or "" when it holds anything else.
func (v View) String(name string) string {
	s, _ := v.State[name].(string)
	return s
}

// Bool returns a bool state key, or false when it holds anything else.
func (v View) Bool(name string) bool {
	b, _ := v.State[name].(bool)
	return b
}

// List returns a slice state key as []any.
func (v View) List(name string) []any { return AsSlice(v.State[name]) }

// Prop returns a sanitized render prop.
func (v View) Prop(name string) any {
	return v.Props[name]
}

// Snapshot returns the encoded snapshot the view's actions carry.
func (v View) Snapshot() string {
	return v.encoded
}

// Root returns the attributes for the component's root element. Action
// responses target the closest root, so every render should spread these
// on its outermost element:
//
//	<div { v.Root()... }>
func (v View) Root() templ.Attributes {
	return templ.Attributes{"data-hxstore": v.c.name}
}

// Action returns the HTMX attributes that call k with no arguments, or
// with whatever the triggering form submits as "value" or "args".
//
//	<button { v.Action(state.Toggle("open"))... }>Toggle</button>
func (v View) Action(k state.Key) templ.Attributes {
	return v.action(k, nil)
}

// ActionWith returns the attributes that call k with a fixed value, as a
// set or merge action expects.
//
//	<button { v.ActionWith(state.Set("filter"), "done")... }>Done</button>
func (v View) ActionWith(k state.Key, value any) templ.Attributes {
	data, err := json.Marshal(value)
	if err != nil {
		return v.action(k, nil)
	}
	return v.action(k, map[string]string{"value": string(data)})
}

// ActionArgs returns the attributes that call k with fixed arguments.
func (v View) ActionArgs(k state.Key, args ...any) templ.Attributes {
	data, err := json.Marshal(args)
	if err != nil {
		return v.action(k, nil)
	}
	return v.action(k, map[string]string{"args": string(data)})
}

func (v View) action(k state.Key, vals map[string]string) templ.Attributes {
	if !v.Has(k) {
		return templ.Attributes{}
	}
	attrs := WireAttrs(v.c.prefix+"/"+k.Name(), http.MethodPost, v.encoded, vals)
	attrs["hx-target"] = `closest [data-hxstore="` + v.c.name + `"]`
	attrs["hx-swap"] = string(v.c.swap)
	return attrs
}

// Refresh returns the attributes that re-render the component from the
// current snapshot without running an action.
func (v View) Refresh() templ.Attributes {
	attrs := WireAttrs(v.c.prefix+"/", http.MethodGet, v.encoded, nil)
	attrs["hx-target"] = `closest [data-hxstore="` + v.c.name + `"]`
	attrs["hx-swap"] = string(v.c.swap)
	return attrs
}

// Flashes turns the swallowed errors of this cycle into error toasts.
func (v View) Flashes() []Flash {
	if len(v.Errors) == 0 {
		return nil
	}
	flashes := make([]Flash, 0, len(v.Errors))
	for _, err := range v.Errors {
		flashes = append(flashes, ErrorFlash(err))
	}
	return flashes
}
