package rest

import (
	"context"
	"net/http"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// pingHandler answers pong while storage is reachable.
func (that *Server) pingHandler(w http.ResponseWriter, r *http.Request) {
	if err := that.storage.Ping(r.Context()); err != nil {
		that.logger.Error("storage is unreachable", "method", "pingHandler", "error", err)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}
