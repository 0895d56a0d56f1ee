package state

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStateWith(t *testing.T) {
	base := State{"a": 1, "b": 2}
	got := base.With(State{"b": 3, "c": 4})

	if diff := cmp.Diff(State{"a": 1, "b": 3, "c": 4}, got); diff != "" {
		t.Errorf("With mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(State{"a": 1, "b": 2}, base); diff != "" {
		t.Errorf("base was modified (-want +got):\n%s", diff)
	}
}

func TestStateKeys(t *testing.T) {
	got := State{"b": 1, "a": 2, "c": 3}.Keys()
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
}

type point struct{ X, Y int }

type boxed struct{ V any }

func TestChanged(t *testing.T) {
	slice := []int{1, 2}
	m := map[string]int{"a": 1}
	p := &point{1, 2}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal ints", 1, 1, false},
		{"different ints", 1, 2, true},
		{"int vs float", 1, 1.0, false},
		{"int vs fractional float", 1, 1.5, true},
		{"int64 vs uint64", int64(7), uint64(7), false},
		{"negative vs uint64", int64(-1), uint64(1<<64 - 1), true},
		{"uint8 vs int", uint8(3), 3, false},
		{"number vs string", 1, "1", true},
		{"nil slice vs empty", []any(nil), []any{}, true},
		{"empty vs empty with capacity", []any{}, make([]any, 0, 1), true},
		{"equal strings", "x", "x", false},
		{"both nil", nil, nil, false},
		{"nil vs value", nil, 0, true},
		{"same slice", slice, slice, false},
		{"equal slice copy", slice, []int{1, 2}, true},
		{"resliced", slice, slice[:1], true},
		{"same map", m, m, false},
		{"equal map copy", m, map[string]int{"a": 1}, true},
		{"same pointer", p, p, false},
		{"equal pointer target", p, &point{1, 2}, true},
		{"equal structs", point{1, 2}, point{1, 2}, false},
		{"different structs", point{1, 2}, point{2, 1}, true},
		{"struct holding slices", boxed{[]int{1}}, boxed{[]int{1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := changed(tt.a, tt.b); got != tt.want {
				t.Errorf("changed(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestStateChangedMissingKey(t *testing.T) {
	prev := State{"a": nil}
	cur := State{}
	if !cur.Changed(prev, "a") {
		t.Error("removing a key holding nil should count as a change")
	}
	if cur.Changed(State{}, "missing") {
		t.Error("a key missing from both states should not count as a change")
	}
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{Set("count"), "setCount"},
		{Reset("count"), "resetCount"},
		{Toggle("open"), "toggleOpen"},
		{Merge("tags"), "mergeTags"},
		{Custom("increment", "count"), "incrementCount"},
		{HandlerKey("submit"), "submit"},
		{Set("écran"), "setÉcran"},
	}
	for _, tt := range tests {
		if got := tt.key.Name(); got != tt.want {
			t.Errorf("%+v.Name() = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestVerbString(t *testing.T) {
	tests := []struct {
		verb Verb
		want string
	}{
		{VerbSet, "set"},
		{VerbReset, "reset"},
		{VerbToggle, "toggle"},
		{VerbMerge, "merge"},
		{VerbCustom, "custom"},
		{Verb(0), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.verb.String(); got != tt.want {
			t.Errorf("Verb(%d).String() = %q, want %q", tt.verb, got, tt.want)
		}
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{0, false},
		{3, true},
		{uint8(0), false},
		{0.0, false},
		{0.5, true},
		{"", false},
		{"x", true},
		{[]int(nil), false},
		{[]int{}, true},
		{point{}, true},
	}
	for _, tt := range tests {
		if got := truthy(tt.v); got != tt.want {
			t.Errorf("truthy(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
