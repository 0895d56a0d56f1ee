package state

import "slices"

// ReservedProps are configuration-only prop names that never reach a
// render function.
var ReservedProps = []string{
	"render",
	"state",
	"stateConfig",
	"deriveState",
	"withHandlers",
	"handlers",
	"options",
	"omit",
}

// Sanitize returns a copy of props without ReservedProps and without the
// keys listed in omit. props is not modified.
func Sanitize(props map[string]any, omit ...string) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		if slices.Contains(ReservedProps, k) || slices.Contains(omit, k) {
			continue
		}
		out[k] = v
	}
	return out
}
