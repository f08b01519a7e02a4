package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"

	"ecatprep/internal/db"
	"ecatprep/internal/health"
	"ecatprep/internal/httpx"
	"ecatprep/internal/logs"
	"ecatprep/internal/metrics"
	"ecatprep/internal/middleware"
	"ecatprep/internal/session"
)

// каталог статики внутри каталога приложения
const staticDir = "static"

// routes собирает роутер по текущим a.cfg/a.debug. Вызывать под a.mu (или до публикации App).
func (a *App) routes() *mux.Router {
	cfg := a.cfg

	r := mux.NewRouter().StrictSlash(true)
	r.NotFoundHandler = middleware.RequestID(http.HandlerFunc(httpx.NotFound))
	// Recoverer внутри LoggerMW/Instrument: паника тоже попадает в access-лог и метрики как 500
	r.Use(
		middleware.RequestID,
		middleware.LoggerMW,
		metrics.Instrument,
		middleware.Recoverer(a.debug),
	)

	/* Health */
	if a.db != nil {
		health.RegisterRoutesWithReadiness(r, func(ctx context.Context) error { return db.Ping(ctx, a.db) }) // /healthz, /readyz
	} else {
		health.RegisterRoutes(r) // только /healthz
	}

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, metrics.Handler()).Methods(http.MethodGet)
	}

	/* Статика приложения + visitor-сессия */
	if dir := filepath.Join(a.dir, staticDir); isDir(dir) {
		secret := []byte(cfg.App.SecretKey)
		if len(secret) == 0 {
			if a.ephemeral == nil {
				a.ephemeral = session.EphemeralSecret()
			}
			secret = a.ephemeral
		}
		store := session.NewStore(secret, session.Options{
			Name:   cfg.Session.Name,
			MaxAge: cfg.Session.MaxAge,
			Secure: cfg.Session.Secure,
		})

		site := r.PathPrefix("/").Subrouter()
		site.Use(store.Visitor)
		site.PathPrefix("/").Handler(staticHandler(dir)).Methods(http.MethodGet, http.MethodHead)
	}

	_ = r.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := rt.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		logs.Logger.Debugf("route: %-6v %s", methods, path)
		return nil
	})
	return r
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}
