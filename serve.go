package hxstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/pthm/hxstore/lib/state"
)

// EventChanged is the HX-Trigger event sent after an action completes.
// Its detail carries the component name and the action name.
const EventChanged = "hxstore:changed"

// Dispatch runs one request cycle without HTTP.
//
// It mounts the component on the snapshot state, calls the named action
// (none for a plain render), lets derived updates settle and returns the
// resulting view. Errors the component's error handler swallowed during
// the action end up in View.Errors.
func (c *Component) Dispatch(ctx context.Context, snap Snapshot, action string, args ...any) (View, error) {
	var (
		collect  bool
		reported []error
	)
	opts := c.opts
	opts.OnError = func(err error) error {
		if collect {
			reported = append(reported, err)
		}
		return c.report(err)
	}

	host := state.NewMemoryHost(snap.State)
	m, err := c.build(host, opts)
	if err != nil {
		return View{}, err
	}
	if err := m.Mount(); err != nil {
		return View{}, err
	}
	collect = true
	if err := host.Err(); err != nil {
		if err := opts.OnError(err); err != nil {
			return View{}, err
		}
	}

	if action != "" {
		k, ok := m.Actions().Lookup(action)
		if !ok {
			return View{}, fmt.Errorf("%w: %s/%s", ErrUnknownAction, c.name, action)
		}
		c.logger().DebugContext(ctx, "dispatch", "component", c.name, "action", action, "args", len(args))
		if err := m.Actions().Call(k, args...); err != nil {
			return View{}, err
		}
	}
	if err := host.Err(); err != nil {
		if err := opts.OnError(err); err != nil {
			return View{}, err
		}
	}

	v, err := c.view(host.State(), snap.Props, m.Actions())
	if err != nil {
		return View{}, err
	}
	v.Errors = reported
	return v, nil
}

func (c *Component) view(st state.State, props map[string]any, acts *state.Actions) (View, error) {
	encoded, err := c.encode(Snapshot{State: st, Props: props})
	if err != nil {
		return View{}, err
	}
	return View{
		State:   st,
		Props:   props,
		c:       c,
		actions: acts,
		encoded: encoded,
	}, nil
}

// HXServeHTTP implements HXComponent.
//
// GET <prefix>/ renders the component from the snapshot in ?p= (or from
// scratch). POST <prefix>/<action> runs one action against the snapshot in
// the form and renders the settled state. Action arguments come from the
// "args" field (a JSON array) or the "value" field (one JSON value, or
// plain text when it is not valid JSON).
func (c *Component) HXServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := strings.Trim(strings.TrimPrefix(r.URL.Path, c.prefix), "/")
	if action != "" && r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		c.fail(w, r, fmt.Errorf("%w: %v", ErrBadArgument, err))
		return
	}

	snap, err := c.decode(r.Form.Get("p"))
	if err != nil {
		c.fail(w, r, err)
		return
	}

	args, err := formArgs(r.Form)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	v, err := c.Dispatch(r.Context(), snap, action, args...)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := c.render(r.Context(), v).Render(r.Context(), &buf); err != nil {
		c.fail(w, r, err)
		return
	}
	buf.WriteString(RenderFlashesOOB(v.Flashes()))

	if action != "" && len(v.Errors) == 0 {
		w.Header().Set("HX-Trigger", BuildTriggerHeader(EventChanged, map[string]any{
			"component": c.name,
			"action":    action,
		}))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, &buf)
}

// fail hands err to the registry's error handler.
func (c *Component) fail(w http.ResponseWriter, r *http.Request, err error) {
	c.logger().WarnContext(r.Context(), "request failed", "component", c.name, "path", r.URL.Path, "err", err)
	if c.reg != nil && c.reg.OnError != nil {
		c.reg.OnError(w, r, err)
		return
	}
	defaultOnError(w, r, err)
}

// formArgs reads action arguments from a request form. Whole JSON numbers
// become int64, matching what a decoded snapshot holds.
func formArgs(form url.Values) ([]any, error) {
	if raw := form.Get("args"); raw != "" {
		var args []any
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return nil, fmt.Errorf("%w: args: %v", ErrBadArgument, err)
		}
		for i := range args {
			args[i] = wireNumber(args[i])
		}
		return args, nil
	}
	if _, ok := form["value"]; !ok {
		return nil, nil
	}
	raw := form.Get("value")
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return []any{raw}, nil
	}
	return []any{wireNumber(v)}, nil
}

func wireNumber(v any) any {
	switch v := v.(type) {
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
			return int64(v)
		}
	case []any:
		for i := range v {
			v[i] = wireNumber(v[i])
		}
	case map[string]any:
		for k, e := range v {
			v[k] = wireNumber(e)
		}
	}
	return v
}
