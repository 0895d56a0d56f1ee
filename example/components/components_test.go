package components

import (
	"io"
	"log/slog"
	"testing"

	"github.com/pthm/hxstore"
	"github.com/pthm/hxstore/lib/state"
)

func newRegistry(t *testing.T) *hxstore.Registry {
	t.Helper()
	reg := hxstore.NewRegistry([]byte("test-key-must-be-32-bytes-long!!"))
	if err := Init(reg, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return reg
}

func TestCounterRender(t *testing.T) {
	newRegistry(t)

	result, err := hxstore.TestRender(C.Counter, map[string]any{"title": "Clicks", "render": "dropped"})
	if err != nil {
		t.Fatalf("TestRender() error = %v", err)
	}
	if !result.HTMLContainsAll("Clicks", "count 0, double 0") {
		t.Errorf("HTML = %s", result.HTML)
	}
	if result.HTMLContains("dropped") {
		t.Error("reserved prop reached the view")
	}
	if result.HTMLContains("tags:") {
		t.Error("tags rendered before they were loaded")
	}
}

func TestCounterIncrement(t *testing.T) {
	newRegistry(t)

	v, err := C.Counter.Dispatch(t.Context(), hxstore.Snapshot{}, "")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	result, err := hxstore.TestCall(v, CounterIncrementCount, 10)
	if err != nil {
		t.Fatalf("TestCall() error = %v", err)
	}
	if !result.IsOK() || !result.HTMLContains("count 10, double 20") {
		t.Errorf("status = %d, HTML = %s", result.StatusCode, result.HTML)
	}
	if !result.HasEvent(hxstore.EventChanged) {
		t.Error("missing change event")
	}
}

func TestCounterZeroStep(t *testing.T) {
	newRegistry(t)

	v, err := C.Counter.Dispatch(t.Context(), hxstore.Snapshot{}, CounterIncrementCount.Name(), 0)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(v.Errors) != 1 {
		t.Fatalf("Errors = %v, want one", v.Errors)
	}
	if v.Int("count") != 0 {
		t.Errorf("count = %d, want unchanged", v.Int("count"))
	}
}

func TestCounterTags(t *testing.T) {
	newRegistry(t)

	v, err := C.Counter.Dispatch(t.Context(), hxstore.Snapshot{}, CounterMergeTags.Name(), []any{"hot"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !v.Loaded("tags") || len(v.List("tags")) != 1 {
		t.Errorf("tags = %v, loaded = %v", v.List("tags"), v.Loaded("tags"))
	}
}

func TestTodosLifecycle(t *testing.T) {
	newRegistry(t)
	ctx := t.Context()

	v, err := C.Todos.Dispatch(ctx, hxstore.Snapshot{}, TodosAdd.Name(), "write docs")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	v, err = C.Todos.Dispatch(ctx, hxstore.Snapshot{State: v.State}, TodosAdd.Name(), "ship")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if v.Int("total") != 2 || v.Int("remaining") != 2 || v.Int("nextID") != 3 {
		t.Fatalf("state = %v", v.State)
	}

	v, err = C.Todos.Dispatch(ctx, hxstore.Snapshot{State: v.State}, TodosComplete.Name(), 1)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if v.Int("remaining") != 1 {
		t.Errorf("remaining = %d, want 1", v.Int("remaining"))
	}

	v, err = C.Todos.Dispatch(ctx, hxstore.Snapshot{State: v.State}, TodosClearDone.Name())
	if err != nil {
		t.Fatalf("clearDone: %v", err)
	}
	if v.Int("total") != 1 || v.Int("remaining") != 1 {
		t.Errorf("state = %v", v.State)
	}
}

func TestTodosAddOverHTTP(t *testing.T) {
	newRegistry(t)

	v, err := C.Todos.Dispatch(t.Context(), hxstore.Snapshot{}, "")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	result, err := hxstore.TestPost(C.Todos, C.Todos.Prefix()+"/"+TodosAdd.Name(), map[string]string{
		"p":     v.Snapshot(),
		"value": "buy milk",
	})
	if err != nil {
		t.Fatalf("TestPost() error = %v", err)
	}
	if !result.HTMLContainsAll("buy milk", "1 of 1 remaining") {
		t.Errorf("HTML = %s", result.HTML)
	}
}

func TestTodosEmptyAddFlashes(t *testing.T) {
	newRegistry(t)

	v, err := C.Todos.Dispatch(t.Context(), hxstore.Snapshot{}, "")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	result, err := hxstore.TestCall(v, TodosAdd, "   ")
	if err != nil {
		t.Fatalf("TestCall() error = %v", err)
	}
	if !result.IsOK() || !result.HasFlashLevel(hxstore.FlashError) {
		t.Errorf("status = %d, HTML = %s", result.StatusCode, result.HTML)
	}
	if result.HasEvent(hxstore.EventChanged) {
		t.Error("failed action sent a change event")
	}
}

func TestTodosKeys(t *testing.T) {
	newRegistry(t)

	have := map[state.Key]bool{}
	for _, k := range C.Todos.Keys() {
		have[k] = true
	}
	for _, k := range []state.Key{TodosSetDraft, TodosSetItems, TodosSetNextID, TodosAdd, TodosClearDone, TodosComplete, TodosRemove} {
		if !have[k] {
			t.Errorf("todos is missing %s", k)
		}
	}
}
