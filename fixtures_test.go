package hxstore

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/pthm/hxstore/lib/state"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func counterView(_ context.Context, v View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title, _ := v.Prop("title").(string)
		_, err := fmt.Fprintf(w, `<div data-hxstore="counter">%s count=%d double=%d</div>`,
			title, v.Int("count"), v.Int("double"))
		return err
	})
}

func doubleRule() state.Rule {
	return state.Rule{
		On: []string{"count"},
		Derive: func(s state.State) state.State {
			return state.State{"double": AsInt(s["count"]) * 2}
		},
	}
}

// newCounter builds a registered counter store. mutate may adjust the
// options before construction.
func newCounter(t *testing.T, mutate func(*StoreOptions)) (*Component, *Registry) {
	t.Helper()
	opts := StoreOptions{
		Descriptors: []state.Descriptor{
			{Name: "count", Initial: 0, Setable: true, Resetable: true, Toggleable: true, Handlers: map[string]state.Transform{
				"increment": func(cur any, args ...any) (any, error) {
					step := 1
					if len(args) > 0 {
						step = AsInt(args[0])
					}
					return AsInt(cur) + step, nil
				},
			}},
		},
		Rules:  []state.Rule{doubleRule()},
		Render: counterView,
	}
	if mutate != nil {
		mutate(&opts)
	}
	c, err := NewStore("counter", opts)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	reg := NewRegistry(testKey)
	reg.Add(c)
	return c, reg
}

func mount(t *testing.T, c *Component) View {
	t.Helper()
	v, err := c.Dispatch(context.Background(), Snapshot{}, "")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	return v
}
