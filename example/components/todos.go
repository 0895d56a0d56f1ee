package components

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/a-h/templ"
	"github.com/pthm/hxstore"
	"github.com/pthm/hxstore/lib/config"
	"github.com/pthm/hxstore/lib/state"
)

// NewTodos builds the todo list from its embedded definition.
func NewTodos(logger *slog.Logger) (*hxstore.Component, error) {
	f, err := TodosDefinition()
	if err != nil {
		return nil, err
	}
	return hxstore.FromConfig(f, todoBindings, todosView, state.Options{
		OnError: state.LogErrors(logger),
		Logger:  logger,
	})
}

var todoBindings = config.Bindings{
	Handlers: map[string]state.Handler{
		"add":       addTodo,
		"remove":    removeTodo,
		"complete":  completeTodo,
		"clearDone": clearDone,
	},
	Rules: map[string]func(state.State) state.State{
		"tally": tally,
	},
}

// addTodo appends the text argument, or the draft when called without one.
func addTodo(cur state.State, args ...any) (state.State, error) {
	text, _ := cur["draft"].(string)
	if len(args) > 0 {
		text = fmt.Sprint(args[0])
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: todo text is empty", hxstore.ErrBadArgument)
	}

	id := hxstore.AsInt(cur["nextID"])
	prev := hxstore.AsSlice(cur["items"])
	items := make([]any, len(prev), len(prev)+1)
	copy(items, prev)
	items = append(items, map[string]any{
		"id":   id,
		"text": text,
		"done": false,
	})
	return state.State{"items": items, "nextID": id + 1, "draft": ""}, nil
}

func removeTodo(cur state.State, args ...any) (state.State, error) {
	id, err := todoID(args)
	if err != nil {
		return nil, err
	}
	var items []any
	for _, it := range hxstore.AsSlice(cur["items"]) {
		if itemID(it) != id {
			items = append(items, it)
		}
	}
	return state.State{"items": nonNil(items)}, nil
}

func completeTodo(cur state.State, args ...any) (state.State, error) {
	id, err := todoID(args)
	if err != nil {
		return nil, err
	}
	var (
		items []any
		found bool
	)
	for _, it := range hxstore.AsSlice(cur["items"]) {
		if m, ok := it.(map[string]any); ok && itemID(m) == id {
			done, _ := m["done"].(bool)
			it = map[string]any{"id": m["id"], "text": m["text"], "done": !done}
			found = true
		}
		items = append(items, it)
	}
	if !found {
		return nil, fmt.Errorf("%w: todo %d", hxstore.ErrNotFound, id)
	}
	return state.State{"items": items}, nil
}

func clearDone(cur state.State, _ ...any) (state.State, error) {
	var items []any
	for _, it := range hxstore.AsSlice(cur["items"]) {
		if !itemDone(it) {
			items = append(items, it)
		}
	}
	return state.State{"items": nonNil(items)}, nil
}

// tally derives the total and remaining counts from the items.
func tally(s state.State) state.State {
	items := hxstore.AsSlice(s["items"])
	remaining := 0
	for _, it := range items {
		if !itemDone(it) {
			remaining++
		}
	}
	return state.State{"total": len(items), "remaining": remaining}
}

func todoID(args []any) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: want a todo id", hxstore.ErrBadArgument)
	}
	return hxstore.AsInt(args[0]), nil
}

func itemID(it any) int {
	m, _ := it.(map[string]any)
	return hxstore.AsInt(m["id"])
}

func itemDone(it any) bool {
	m, _ := it.(map[string]any)
	done, _ := m["done"].(bool)
	return done
}

func nonNil(items []any) []any {
	if items == nil {
		return []any{}
	}
	return items
}

func todosView(_ context.Context, v hxstore.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		m.open("section", v.Root(), templ.Attributes{"class": "todos"})

		m.el("h2", "Todos")
		m.el("p", fmt.Sprintf("%d of %d remaining", v.Int("remaining"), v.Int("total")), templ.Attributes{"class": "tally"})

		// The input's "value" field travels with the add request.
		m.open("form", v.Action(TodosAdd))
		m.open("input", templ.Attributes{"name": "value", "placeholder": "What needs doing?", "value": v.String("draft")})
		m.el("button", "add", templ.Attributes{"type": "submit"})
		m.close("form")

		m.open("ul")
		for _, it := range v.List("items") {
			item, _ := it.(map[string]any)
			id := itemID(item)
			attrs := templ.Attributes{"id": fmt.Sprintf("todo-%d", id)}
			if itemDone(item) {
				attrs["class"] = "done"
			}
			m.open("li", attrs)
			m.el("span", fmt.Sprint(item["text"]))
			m.el("button", "done", v.ActionWith(TodosComplete, id))
			m.el("button", "remove", v.ActionWith(TodosRemove, id))
			m.close("li")
		}
		m.close("ul")

		if v.Int("total") > v.Int("remaining") {
			m.el("button", "clear done", v.Action(TodosClearDone))
		}
		m.close("section")
		return m.err
	})
}
