package httpapi

import (
	"net/http"

	"github.com/flowshim/procrun/internal/server"
)

// RegisterRoutes exposes RunHandler to the server's handler group.
func RegisterRoutes(h *RunHandler) server.HttpHandlerResult {
	mux := http.NewServeMux()
	mux.Handle("/run", h)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return server.AsHttpHandler("/", mux)
}
