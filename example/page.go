package main

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/pthm/hxstore"
	"github.com/pthm/hxstore/example/components"
)

const head = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>hxstore example</title>
<script src="https://unpkg.com/htmx.org@2.0.4"></script>
<script src="https://unpkg.com/idiomorph@0.7.3/dist/idiomorph-ext.min.js"></script>
<style>
.done span { text-decoration: line-through; }
.toast-container { position: fixed; top: 1rem; right: 1rem; }
.toast-error { background: #fdd; padding: .5rem; }
</style>
</head>
<body hx-ext="morph">
`

// Layout renders the demo page with both components.
func Layout(title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		for _, c := range []templ.Component{
			components.C.Counter.Render(map[string]any{"title": title}),
			components.C.Todos.Lazy(nil, templ.Raw("<p>loading todos...</p>")),
			hxstore.ToastContainer(),
		} {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}
