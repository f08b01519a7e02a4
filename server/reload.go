package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"ecatprep/config"
	"ecatprep/internal/logs"
	"ecatprep/internal/metrics"
)

// пачку событий редактора сводим в одну перезагрузку
const reloadDebounce = 200 * time.Millisecond

// watch следит за каталогом приложения (и static/) и перезагружает конфиг и роуты.
// Работает только в debug-режиме.
func (a *App) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("reload watcher: %w", err)
	}
	defer w.Close()

	for _, d := range []string{a.dir, filepath.Join(a.dir, staticDir)} {
		if !isDir(d) {
			continue
		}
		if err := w.Add(d); err != nil {
			return fmt.Errorf("reload watch %s: %w", d, err)
		}
		logs.Logger.Debugf("reload: watching %s", d)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// собственные логи приложения не считаются изменениями
			if filepath.Ext(ev.Name) == ".log" {
				continue
			}
			logs.Logger.Debugf("reload: %s", ev)
			pending = time.After(reloadDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logs.Logger.Warnf("reload watcher: %v", err)
		case <-pending:
			pending = nil
			_ = a.reload()
		}
	}
}

// reload перечитывает конфиг и пересобирает роутер. При ошибке остаётся старая версия.
// БД и файл лога не переоткрываются.
func (a *App) reload() error {
	cfg, err := config.Load(a.dir)
	if err != nil {
		metrics.Reloads.WithLabelValues("error").Inc()
		logs.Logger.Errorf("reload: keeping previous configuration: %v", err)
		return err
	}

	a.mu.Lock()
	a.cfg = cfg
	a.Router = a.routes()
	a.handler.set(a.Router)
	a.mu.Unlock()

	metrics.Reloads.WithLabelValues("ok").Inc()
	logs.Logger.Infof("reload: applied configuration from %s", sourceOrDefaults(cfg))
	return nil
}
