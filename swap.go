package hxstore

// SwapMode defines HTMX swap strategies for how an action response replaces
// the component root.
//
// Each mode corresponds to an HTMX hx-swap value. The default is SwapOuter,
// which replaces the root with the fresh render.
//
// See https://htmx.org/attributes/hx-swap/ for visual examples.
type SwapMode string

const (
	// SwapOuter replaces the entire element including its tag (outerHTML).
	SwapOuter SwapMode = "outerHTML"

	// SwapInner replaces only the element's contents (innerHTML). Use it
	// when the render function emits the root's children only.
	SwapInner SwapMode = "innerHTML"

	// SwapMorph morphs the old root into the new one (requires the idiomorph
	// extension), which keeps focus and scroll position in forms.
	SwapMorph SwapMode = "morph:outerHTML"

	// SwapNone discards the response. Out-of-band toasts still apply.
	SwapNone SwapMode = "none"
)
