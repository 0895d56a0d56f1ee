package components

import (
	"log/slog"

	"github.com/pthm/hxstore"
)

// C holds the component instances rendered by the pages.
var C struct {
	Counter *hxstore.Component
	Todos   *hxstore.Component
}

// Init builds every component and registers it.
// Call this once at application startup before handling requests.
func Init(reg *hxstore.Registry, logger *slog.Logger) error {
	counter, err := NewCounter(logger)
	if err != nil {
		return err
	}
	todos, err := NewTodos(logger)
	if err != nil {
		return err
	}
	C.Counter = counter
	C.Todos = todos.Swap(hxstore.SwapMorph)

	reg.Add(C.Counter, C.Todos)
	return nil
}
