package health

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
)

// Pinger — проверка готовности зависимости (БД и т.п.).
type Pinger func(ctx context.Context) error

// RegisterRoutes — базовый liveness.
func RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", liveness).Methods(http.MethodGet)
}

// RegisterRoutesWithReadiness — liveness + readiness по переданной проверке.
func RegisterRoutesWithReadiness(r *mux.Router, ping Pinger) {
	RegisterRoutes(r)
	r.HandleFunc("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if ping == nil {
			http.Error(w, "readiness check not configured", http.StatusServiceUnavailable)
			return
		}
		if err := ping(req.Context()); err != nil {
			http.Error(w, "dependency unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)
}

func liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
