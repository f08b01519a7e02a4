package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"ecatprep/config"
	"ecatprep/internal/db"
	"ecatprep/internal/logs"
	"ecatprep/internal/metrics"
)

const defaultShutdownTimeout = 5 * time.Second

// App — объект веб-приложения. Создаётся через Open, запускается через Run.
type App struct {
	dir string

	mu        sync.RWMutex
	cfg       *config.Config
	debug     bool
	ephemeral []byte // ключ сессий, если app.secret_key пуст (только debug)
	Router    *mux.Router
	addr      net.Addr

	db      *gorm.DB
	handler swapHandler
}

// swapHandler позволяет подменять роутер на лету (auto-reload).
type swapHandler struct{ cur atomic.Pointer[mux.Router] }

func (s *swapHandler) set(r *mux.Router) { s.cur.Store(r) }

func (s *swapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.cur.Load().ServeHTTP(w, r)
}

// Open инициализирует приложение из каталога dir: конфиг, логи, БД (опционально), роутер.
func Open(dir string) (*App, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	/* 1) Логи */
	if err := logs.Init(logs.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}); err != nil {
		return nil, err
	}

	/* 2) DB (опционально) */
	d, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	a := &App{dir: dir, cfg: cfg, db: d}
	a.Router = a.routes()
	a.handler.set(a.Router)

	logs.Logger.Infof("application %q loaded from %s (config: %s)", cfg.App.Name, dir, sourceOrDefaults(cfg))
	return a, nil
}

// Dir — каталог, из которого загружено приложение.
func (a *App) Dir() string { return a.dir }

// Config — текущая конфигурация (после reload — новая).
func (a *App) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// Addr — адрес слушателя, nil пока приложение не запущено.
func (a *App) Addr() net.Addr {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.addr
}

// Run слушает host:port до SIGINT/SIGTERM.
func (a *App) Run(host string, port int, debug bool) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case s := <-sigs:
			logs.Logger.Infof("shutdown signal: %s", s)
			cancel()
		case <-ctx.Done():
		}
	}()

	err := a.RunContext(ctx, host, port, debug)
	if cerr := db.Close(a.db); cerr != nil {
		logs.Logger.Errorf("db close: %v", cerr)
	}
	return err
}

// RunContext — Run с внешней отменой. Ошибка bind возвращается сразу, без повторов.
func (a *App) RunContext(ctx context.Context, host string, port int, debug bool) error {
	a.mu.Lock()
	if a.cfg == nil {
		a.mu.Unlock()
		return fmt.Errorf("server not initialized")
	}
	if !debug {
		if err := config.RequireProduction(a.cfg); err != nil {
			a.mu.Unlock()
			return err
		}
	}
	a.debug = debug
	a.Router = a.routes()
	a.handler.set(a.Router)
	cfg := a.cfg
	a.mu.Unlock()

	if debug {
		logs.EnableDebug()
		logs.Logger.Warn("debug mode is on: verbose error pages, auto-reload; do not use in production")
	}

	bind := net.JoinHostPort(host, strconv.Itoa(port))
	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("http listener: %w", err)
	}

	a.mu.Lock()
	a.addr = ln.Addr()
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.addr = nil
		a.mu.Unlock()
	}()

	srv := &http.Server{
		Handler:           &a.handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logs.Logger.Infof("HTTP listening on %s (debug=%t)", ln.Addr(), debug)
		metrics.Running.Set(1)
		defer metrics.Running.Set(0)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logs.Logger.Errorf("http shutdown: %v", err)
		}
		return nil
	})
	if debug {
		g.Go(func() error { return a.watch(gctx) })
	}
	return g.Wait()
}

func sourceOrDefaults(cfg *config.Config) string {
	if cfg.Source == "" {
		return "defaults/env"
	}
	return cfg.Source
}
