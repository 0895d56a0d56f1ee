package components

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/a-h/templ"
	"github.com/pthm/hxstore"
	"github.com/pthm/hxstore/lib/state"
)

// Counter action keys.
var (
	CounterSetCount       = state.Set("count")
	CounterResetCount     = state.Reset("count")
	CounterIncrementCount = state.Custom("increment", "count")
	CounterToggleLiked    = state.Toggle("liked")
	CounterMergeTags      = state.Merge("tags")
	CounterResetTags      = state.Reset("tags")
)

// NewCounter declares the counter store: a count with a derived double,
// a liked flag and a set of tags.
func NewCounter(logger *slog.Logger) (*hxstore.Component, error) {
	return hxstore.NewStore("counter", hxstore.StoreOptions{
		Descriptors: []state.Descriptor{
			{
				Name:      "count",
				Initial:   0,
				Setable:   true,
				Resetable: true,
				Handlers:  map[string]state.Transform{"increment": increment},
			},
			{Name: "liked", Initial: false, Toggleable: true},
			{Name: "tags", Initial: []any{}, Mergeable: true, Resetable: true, Loadable: true},
		},
		Rules: []state.Rule{{
			On: []string{"count"},
			Derive: func(s state.State) state.State {
				return state.State{"double": hxstore.AsInt(s["count"]) * 2}
			},
		}},
		Render:  counterView,
		Options: state.Options{OnError: state.LogErrors(logger), Logger: logger},
	})
}

// increment adds its optional step argument (default 1) to the count.
func increment(current any, args ...any) (any, error) {
	step := 1
	if len(args) > 0 {
		step = hxstore.AsInt(args[0])
		if step == 0 {
			return nil, fmt.Errorf("%w: step must be non-zero", hxstore.ErrBadArgument)
		}
	}
	return hxstore.AsInt(current) + step, nil
}

func counterView(_ context.Context, v hxstore.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		m.open("section", v.Root(), templ.Attributes{"class": "counter"})

		title := "Counter"
		if t, ok := v.Prop("title").(string); ok && t != "" {
			title = t
		}
		m.el("h2", title)
		m.el("p", fmt.Sprintf("count %d, double %d", v.Int("count"), v.Int("double")), templ.Attributes{"class": "count"})

		m.el("button", "-1", v.ActionArgs(CounterIncrementCount, -1))
		m.el("button", "+1", v.Action(CounterIncrementCount))
		m.el("button", "+10", v.ActionArgs(CounterIncrementCount, 10))
		m.el("button", "set 100", v.ActionWith(CounterSetCount, 100))
		m.el("button", "reset", v.Action(CounterResetCount))

		liked := "like"
		if v.Bool("liked") {
			liked = "unlike"
		}
		m.el("button", liked, v.Action(CounterToggleLiked))

		var tags []string
		for _, t := range v.List("tags") {
			tags = append(tags, fmt.Sprint(t))
		}
		if v.Loaded("tags") {
			m.el("p", "tags: "+strings.Join(tags, ", "), templ.Attributes{"class": "tags"})
		}
		m.el("button", "tag hot", v.ActionWith(CounterMergeTags, []string{"hot"}))
		m.el("button", "tag new", v.ActionWith(CounterMergeTags, []string{"new"}))
		m.el("button", "clear tags", v.Action(CounterResetTags))

		m.close("section")
		return m.err
	})
}
