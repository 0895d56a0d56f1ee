package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/pthm/hxstore"
	"github.com/pthm/hxstore/example/components"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// In production, load a real secret.
	key := []byte(os.Getenv("HXSTORE_KEY"))
	if len(key) == 0 {
		key = []byte("example-key-must-be-32-bytes!!!!")
	}
	reg := hxstore.NewRegistry(key)

	if err := components.Init(reg, logger); err != nil {
		logger.Error("init components", "err", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/_c/", reg.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		title := r.URL.Query().Get("title")
		if title == "" {
			title = "Counter"
		}
		if err := hxstore.Render(w, r, Layout(title)); err != nil {
			logger.ErrorContext(r.Context(), "render page", "err", err)
		}
	})

	addr := ":8080"
	logger.Info("starting server", "url", "http://localhost"+addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
