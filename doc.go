// Package hxstore serves declarative state components over HTMX.
//
// A component is either a Store, whose actions are generated from field
// descriptors, or a Container, which wraps a ready-made state object with
// a setter per key plus named handlers. Both run derived-state rules after
// every update. The state machinery lives in lib/state; this package
// carries it across HTTP requests and renders it with templ.
//
// # Core Concepts
//
// A Store is declared with descriptors:
//
//	counter, err := hxstore.NewStore("counter", hxstore.StoreOptions{
//	    Descriptors: []state.Descriptor{
//	        {Name: "count", Initial: 0, Setable: true, Resetable: true},
//	    },
//	    Rules: []state.Rule{{
//	        On: []string{"count"},
//	        Derive: func(s state.State) state.State {
//	            return state.State{"double": hxstore.AsInt(s["count"]) * 2}
//	        },
//	    }},
//	    Render: counterView,
//	})
//
// Each descriptor flag generates an action with a conventional name:
// setCount, resetCount, toggleCount, mergeCount, or <handler>Count for a
// custom transform. Keys such as state.Set("count") name them in code.
//
// # Request Cycle
//
// The server holds no per-client state. Every render embeds a snapshot of
// the state (and the sanitized props) in the action attributes. An action
// request decodes the snapshot, mounts the component on a fresh
// state.MemoryHost, runs the action, lets derived rules settle and renders
// again with a new snapshot:
//
//	templ counterView(v hxstore.View) {
//	    <div { v.Root()... }>
//	        <span>{ strconv.Itoa(v.Int("count")) }</span>
//	        <button { v.ActionWith(state.Set("count"), v.Int("count")+1)... }>+</button>
//	        <button { v.Action(state.Reset("count"))... }>reset</button>
//	    </div>
//	}
//
// Successful actions send HX-Trigger with EventChanged so other parts of
// the page can refresh.
//
// # Security Model
//
// Snapshots are encoded using one of two modes:
//   - Signed (default): HMAC-authenticated msgpack, visible but tamper-proof
//   - Encrypted: AES-GCM encrypted, opaque to clients (use .Sensitive())
//
// CSRF protection is automatic - mutating methods (POST/PUT/DELETE/PATCH)
// require the HX-Request: true header that HTMX sends, preventing cross-origin
// attacks without additional tokens.
//
// # Errors
//
// Configuration and action errors are reported through state.Options.OnError.
// The default returns them: configuration errors fail NewStore/NewContainer
// and action errors reach Registry.OnError, which maps them to status codes.
// A handler that swallows errors (state.LogErrors) keeps the state unchanged
// and the response carries a toast instead: a warning for a rejected value,
// an error otherwise (see ErrorFlash).
//
// # Registration and Routing
//
// Components are registered explicitly with a Registry:
//
//	reg := hxstore.NewRegistry(encryptionKey)
//	reg.Add(counter, todos)
//	http.Handle("/_c/", reg.Handler())
package hxstore
