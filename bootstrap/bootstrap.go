// Package bootstrap готовит и запускает объект приложения: регистрирует
// каталог пакета в пути поиска, импортирует приложение и (только из точки
// входа) запускает слушатель.
package bootstrap

import (
	"errors"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Параметры слушателя фиксированы.
const (
	Host  = "0.0.0.0"
	Port  = 5000
	Debug = true
)

// ErrAlreadyRunning — Start уже вызывался.
var ErrAlreadyRunning = errors.New("application already running")

type State int32

const (
	NotRunning State = iota
	Running
)

func (s State) String() string {
	switch s {
	case NotRunning:
		return "NOT_RUNNING"
	case Running:
		return "RUNNING"
	default:
		return "UNKNOWN"
	}
}

type Bootstrapper struct {
	script string
	base   SearchPath
	module Module

	path  SearchPath
	dir   string
	state atomic.Int32
}

func New(script string, base SearchPath, m Module) *Bootstrapper {
	return &Bootstrapper{script: script, base: base, module: m}
}

// SearchPath — путь поиска после Load (nil до него).
func (b *Bootstrapper) SearchPath() SearchPath { return b.path.Roots() }

// Dir — каталог, из которого импортировано приложение (пусто, если не найден).
func (b *Bootstrapper) Dir() string { return b.dir }

func (b *Bootstrapper) State() State { return State(b.state.Load()) }

// Load выполняет разрешение пути и импорт, но не запускает приложение.
func (b *Bootstrapper) Load() (Application, error) {
	b.path = Resolve(b.script, b.base)
	logrus.WithFields(logrus.Fields{
		"module": b.module.Name,
		"path":   b.path,
	}).Debug("bootstrap: search path resolved")

	// логируем до импорта: инициализация модуля перенастраивает свои логи
	if dir, ok := Locate(b.path); ok {
		b.dir = dir
		entry := logrus.WithFields(logrus.Fields{"module": b.module.Name, "dir": dir})
		if dir != b.path[0] {
			entry.WithField("preferred", b.path[0]).Warn("bootstrap: application package not next to executable, using fallback")
		} else {
			entry.Info("bootstrap: application package located")
		}
	}
	return Import(b.path, b.module)
}

// Start переводит NOT_RUNNING → RUNNING и блокируется в app.Run.
func (b *Bootstrapper) Start(app Application) error {
	if !b.state.CompareAndSwap(int32(NotRunning), int32(Running)) {
		return ErrAlreadyRunning
	}
	logrus.WithFields(logrus.Fields{
		"module": b.module.Name,
		"host":   Host,
		"port":   Port,
		"debug":  Debug,
	}).Info("bootstrap: starting application")
	return app.Run(Host, Port, Debug)
}

// Main — путь "запуск как программа": Load, затем Start.
func Main(script string, base SearchPath, m Module) error {
	b := New(script, base, m)
	app, err := b.Load()
	if err != nil {
		return err
	}
	return b.Start(app)
}
