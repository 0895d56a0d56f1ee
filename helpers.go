package hxstore

import (
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/a-h/templ"
)

// Render writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context. Use this for pages that embed components:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    hxstore.Render(w, r, page(counter.Render(nil)))
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsHTMX returns true if the request originated from HTMX.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// BuildTriggerHeader builds a properly formatted HX-Trigger header value.
//
// Without data the event name is returned as is. With data the value is a
// JSON object keyed by the event name, which HTMX exposes as evt.detail:
//
//	"hxstore:changed" + {"action": "setCount"} -> {"hxstore:changed":{"action":"setCount"}}
func BuildTriggerHeader(trigger string, data map[string]any) string {
	if trigger == "" {
		return ""
	}
	if data == nil {
		return trigger
	}
	out, err := json.Marshal(map[string]any{trigger: data})
	if err != nil {
		return trigger
	}
	return string(out)
}

// AsInt converts any Go number to an int. Non-numbers yield 0.
//
// Snapshots decode integers as int64 and whole JSON arguments arrive as
// int64 too, but values set in Go keep their own type, so handlers and
// derive rules should read numbers through AsInt.
func AsInt(v any) int {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return int(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return int(rv.Float())
	}
	return 0
}

// AsFloat converts any Go number to a float64. Non-numbers yield 0.
func AsFloat(v any) float64 {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return 0
}

// AsSlice converts any slice or array to []any. Anything else yields nil.
func AsSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
