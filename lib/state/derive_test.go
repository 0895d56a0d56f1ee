package state

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReduce(t *testing.T) {
	rules := []Rule{
		{
			On:     []string{"count"},
			Derive: func(s State) State { return State{"a": s["count"].(int) + 1} },
		},
		{
			On:     []string{"count"},
			Derive: func(s State) State { return State{"b": s["a"].(int) * 10} },
		},
		{
			On:     []string{"other"},
			Derive: func(s State) State { return State{"c": true} },
		},
	}

	tests := []struct {
		name string
		prev State
		cur  State
		want State
	}{
		{
			name: "later rules see earlier patches",
			prev: State{"count": 1, "a": 2, "other": "x"},
			cur:  State{"count": 2, "a": 2, "other": "x"},
			want: State{"a": 3, "b": 30},
		},
		{
			name: "nothing changed",
			prev: State{"count": 1, "a": 2, "other": "x"},
			cur:  State{"count": 1, "a": 2, "other": "x"},
			want: State{},
		},
		{
			name: "unrelated key changed",
			prev: State{"count": 1, "a": 2, "other": "x"},
			cur:  State{"count": 1, "a": 2, "other": "y"},
			want: State{"c": true},
		},
		{
			name: "key appeared",
			prev: State{},
			cur:  State{"count": 0},
			want: State{"a": 1, "b": 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(tt.prev, tt.cur, rules)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Reduce mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReduceDoesNotMutateInputs(t *testing.T) {
	prev := State{"count": 1}
	cur := State{"count": 2}
	rules := []Rule{{
		On:     []string{"count"},
		Derive: func(s State) State { return State{"double": s["count"].(int) * 2} },
	}}
	Reduce(prev, cur, rules)
	if diff := cmp.Diff(State{"count": 2}, cur); diff != "" {
		t.Errorf("cur was modified (-want +got):\n%s", diff)
	}
}

func TestStoreDerivedState(t *testing.T) {
	calls := 0
	s, host := mountStore(t, StoreConfig{
		Descriptors: []Descriptor{
			{Name: "count", Initial: 1, Setable: true},
			{Name: "label", Initial: "", Setable: true},
		},
		Rules: []Rule{{
			On: []string{"count"},
			Derive: func(s State) State {
				calls++
				return State{"double": s["count"].(int) * 2}
			},
		}},
	})

	if got := host.State()["double"]; got != 2 {
		t.Fatalf("double = %v after mount, want 2", got)
	}
	if calls != 1 {
		t.Fatalf("calls = %d after mount, want 1", calls)
	}

	if err := s.Actions().Call(Set("count"), 3); err != nil {
		t.Fatalf("setCount failed: %v", err)
	}
	if got := host.State()["double"]; got != 6 {
		t.Errorf("double = %v, want 6", got)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}

	if err := s.Actions().Call(Set("label"), "x"); err != nil {
		t.Fatalf("setLabel failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("derive ran for an unrelated key: calls = %d, want 2", calls)
	}

	if err := s.Actions().Call(Set("count"), 3); err != nil {
		t.Fatalf("setCount failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("derive ran for an unchanged value: calls = %d, want 2", calls)
	}
}

func TestDerivedStateReferenceIdentity(t *testing.T) {
	calls := 0
	items := []string{"a"}
	s, _ := mountStore(t, StoreConfig{
		Descriptors: []Descriptor{{Name: "items", Initial: items, Setable: true}},
		Rules: []Rule{{
			On: []string{"items"},
			Derive: func(s State) State {
				calls++
				return State{"size": len(s["items"].([]string))}
			},
		}},
	})
	calls = 0

	if err := s.Actions().Call(Set("items"), items); err != nil {
		t.Fatalf("setItems failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("same slice triggered derive: calls = %d", calls)
	}

	if err := s.Actions().Call(Set("items"), []string{"a"}); err != nil {
		t.Fatalf("setItems failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("equal copy did not trigger derive: calls = %d", calls)
	}
}

func TestDerivedStateChains(t *testing.T) {
	s, host := mountStore(t, StoreConfig{
		Descriptors: []Descriptor{{Name: "count", Initial: 1, Setable: true}},
		Rules: []Rule{
			{
				On:     []string{"count"},
				Derive: func(s State) State { return State{"double": s["count"].(int) * 2} },
			},
			{
				On:     []string{"double"},
				Derive: func(s State) State { return State{"quad": s["double"].(int) * 2} },
			},
		},
	})
	if err := s.Actions().Call(Set("count"), 3); err != nil {
		t.Fatalf("setCount failed: %v", err)
	}
	want := State{"count": 3, "double": 6, "quad": 12}
	if diff := cmp.Diff(want, host.State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestDerivedStateUpdateDepth(t *testing.T) {
	host := NewMemoryHost(nil)
	host.MaxUpdateDepth = 10
	s, err := NewStore(host, StoreConfig{
		Descriptors: []Descriptor{{Name: "n", Initial: 0, Setable: true}},
		Rules: []Rule{{
			On:     []string{"n"},
			Derive: func(s State) State { return State{"n": s["n"].(int) + 1} },
		}},
	})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if err := s.Mount(); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	if !errors.Is(host.Err(), ErrUpdateDepth) {
		t.Fatalf("host.Err() = %v, want ErrUpdateDepth", host.Err())
	}
	if host.Commits() != 10 {
		t.Errorf("Commits() = %d, want 10", host.Commits())
	}
}
