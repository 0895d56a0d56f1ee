// Package hxstoreecho mounts hxstore components on the Echo framework.
//
//	e := echo.New()
//	reg := hxstoreecho.Mount(e)
//	reg.Add(counter)
//
// Or on a group, so components share its middleware:
//
//	g := e.Group("/app", authMiddleware)
//	reg := hxstoreecho.MountGroup(g)
//	reg.Add(counter)
package hxstoreecho

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pthm/hxstore"
)

// Option configures Mount and MountGroup.
type Option func(*options)

type options struct {
	key     []byte
	path    string
	onError func(echo.Context, error)
}

// WithKey sets the snapshot key for the registry.
// The key should be at least 32 bytes of cryptographically random data.
// Without it a random key is generated, which only suits development since
// snapshots stop decoding after a restart.
func WithKey(key []byte) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithPath sets the route prefix the handler is mounted under.
// Defaults to "/_c/".
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithErrorHandler replaces the registry's error responses with fn, which
// receives the Echo context for the failing request.
func WithErrorHandler(fn func(echo.Context, error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}

// Mount creates a registry and mounts its handler on an Echo instance.
func Mount(e *echo.Echo, opts ...Option) *hxstore.Registry {
	o := newOptions(opts)
	reg := newRegistry(o)
	e.Any(o.path+"*", handler(reg, o))
	return reg
}

// MountGroup creates a registry and mounts its handler on an Echo group.
func MountGroup(g *echo.Group, opts ...Option) *hxstore.Registry {
	o := newOptions(opts)
	reg := newRegistry(o)
	g.Any(o.path+"*", handler(reg, o))
	return reg
}

func newOptions(opts []Option) *options {
	o := &options{path: "/_c/"}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func newRegistry(o *options) *hxstore.Registry {
	key := o.key
	if key == nil {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("hxstoreecho: failed to generate random key: %v", err))
		}
	}
	return hxstore.NewRegistry(key)
}

type ctxKey struct{}

// handler stores the Echo context on the request so a custom error handler
// can reach it from Registry.OnError.
func handler(reg *hxstore.Registry, o *options) echo.HandlerFunc {
	if o.onError != nil {
		fn := o.onError
		reg.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
			if c, ok := r.Context().Value(ctxKey{}).(echo.Context); ok {
				fn(c, err)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
	h := reg.Handler()
	return func(c echo.Context) error {
		r := c.Request()
		r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, c))
		h.ServeHTTP(c.Response(), r)
		return nil
	}
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return hxstoreecho.Render(c, page())
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
