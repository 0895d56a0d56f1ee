package hxstore

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pthm/hxstore/lib/state"
)

func hxVals(t *testing.T, attrs map[string]any) map[string]string {
	t.Helper()
	raw, ok := attrs["hx-vals"].(string)
	if !ok {
		t.Fatalf("hx-vals missing from %v", attrs)
	}
	var vals map[string]string
	if err := json.Unmarshal([]byte(raw), &vals); err != nil {
		t.Fatalf("hx-vals is not JSON: %v", err)
	}
	return vals
}

func TestViewAction(t *testing.T) {
	c, _ := newCounter(t, nil)
	v := mount(t, c)

	attrs := v.Action(state.Reset("count"))
	if got, want := attrs["hx-post"], c.Prefix()+"/resetCount"; got != want {
		t.Errorf("hx-post = %v, want %v", got, want)
	}
	if got, want := attrs["hx-target"], `closest [data-hxstore="counter"]`; got != want {
		t.Errorf("hx-target = %v, want %v", got, want)
	}
	if got := attrs["hx-swap"]; got != string(SwapOuter) {
		t.Errorf("hx-swap = %v, want %v", got, SwapOuter)
	}
	if diff := cmp.Diff(map[string]string{"p": v.Snapshot()}, hxVals(t, attrs)); diff != "" {
		t.Errorf("hx-vals mismatch (-want +got):\n%s", diff)
	}
}

func TestViewActionWith(t *testing.T) {
	c, _ := newCounter(t, nil)
	v := mount(t, c)

	vals := hxVals(t, v.ActionWith(state.Set("count"), 9))
	if vals["value"] != "9" {
		t.Errorf("value = %q, want %q", vals["value"], "9")
	}

	vals = hxVals(t, v.ActionArgs(state.Custom("increment", "count"), 2))
	if vals["args"] != "[2]" {
		t.Errorf("args = %q, want %q", vals["args"], "[2]")
	}
}

func TestViewActionUnknownKey(t *testing.T) {
	c, _ := newCounter(t, nil)
	v := mount(t, c)

	if v.Has(state.Merge("count")) {
		t.Error("Has(mergeCount) = true for a non-mergeable descriptor")
	}
	if attrs := v.Action(state.Merge("count")); len(attrs) != 0 {
		t.Errorf("Action(mergeCount) = %v, want no attributes", attrs)
	}
}

func TestViewSwapMode(t *testing.T) {
	c, _ := newCounter(t, nil)
	c.Swap(SwapInner)
	v := mount(t, c)

	if got := v.Action(state.Set("count"))["hx-swap"]; got != string(SwapInner) {
		t.Errorf("hx-swap = %v, want %v", got, SwapInner)
	}
}

func TestViewRefresh(t *testing.T) {
	c, _ := newCounter(t, nil)
	v := mount(t, c)

	got, _ := v.Refresh()["hx-get"].(string)
	if !strings.HasPrefix(got, c.Prefix()+"/?p=") {
		t.Errorf("hx-get = %q, want %s/?p=...", got, c.Prefix())
	}
}

func TestViewRoot(t *testing.T) {
	c, _ := newCounter(t, nil)
	v := mount(t, c)

	if got := v.Root()["data-hxstore"]; got != "counter" {
		t.Errorf("data-hxstore = %v, want counter", got)
	}
}

func TestViewLoaded(t *testing.T) {
	c, err := NewStore("profile", StoreOptions{
		Descriptors: []state.Descriptor{{Name: "user", Initial: nil, Setable: true, Loadable: true}},
		Render:      counterView,
	})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	v := mount(t, c)
	if v.Loaded("user") {
		t.Error("Loaded(user) = true before any write")
	}

	v, err = c.Dispatch(t.Context(), Snapshot{State: v.State}, "setUser", map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !v.Loaded("user") {
		t.Error("Loaded(user) = false after setUser")
	}
}

func TestViewAccessors(t *testing.T) {
	v := View{State: state.State{
		"n":    int64(3),
		"f":    1.5,
		"s":    "hi",
		"b":    true,
		"list": []string{"a", "b"},
	}}

	if v.Int("n") != 3 || v.Float("f") != 1.5 || v.String("s") != "hi" || !v.Bool("b") {
		t.Errorf("accessors returned %d %v %q %v", v.Int("n"), v.Float("f"), v.String("s"), v.Bool("b"))
	}
	if diff := cmp.Diff([]any{"a", "b"}, v.List("list")); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
	if v.String("n") != "" || v.Bool("s") {
		t.Error("accessors should return zero values for mismatched types")
	}
}
