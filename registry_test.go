package hxstore

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type stubComponent struct {
	prefix string
}

func (s *stubComponent) HXPrefix() string { return s.prefix }

func (s *stubComponent) HXServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusAccepted)
}

func TestRegistryAdd(t *testing.T) {
	c, reg := newCounter(t, nil)

	if c.Encoder() != reg.Encoder() {
		t.Error("Add did not hand the registry encoder to the component")
	}
	got, ok := reg.Get(c.Prefix())
	if !ok || got != HXComponent(c) {
		t.Errorf("Get(%q) = %v, %v", c.Prefix(), got, ok)
	}

	reg.Add(&stubComponent{prefix: "/_c/stub"})
	if diff := cmp.Diff([]string{c.Prefix(), "/_c/stub"}, reg.Prefixes()); diff != "" {
		t.Errorf("Prefixes() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryCollision(t *testing.T) {
	reg := NewRegistry(testKey)
	reg.Add(&stubComponent{prefix: "/_c/dup"})

	defer func() {
		if recover() == nil {
			t.Error("Add() with a duplicate prefix did not panic")
		}
	}()
	reg.Add(&stubComponent{prefix: "/_c/dup"})
}

func TestRegistryHandler(t *testing.T) {
	reg := NewRegistry(testKey)
	reg.Add(&stubComponent{prefix: "/_c/stub"})
	h := reg.Handler()

	tests := []struct {
		name   string
		method string
		path   string
		htmx   bool
		want   int
	}{
		{"GET without HTMX", http.MethodGet, "/_c/stub/", false, http.StatusAccepted},
		{"POST with HTMX", http.MethodPost, "/_c/stub/go", true, http.StatusAccepted},
		{"POST without HTMX", http.MethodPost, "/_c/stub/go", false, http.StatusForbidden},
		{"unregistered", http.MethodGet, "/_c/other/", false, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
