package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrModuleNotFound — ни один каталог пути поиска не содержит пакет приложения.
var ErrModuleNotFound = errors.New("module not found")

// Application — контракт объекта приложения.
// Run блокирует вызывающего и в штатном режиме не возвращается.
type Application interface {
	Run(host string, port int, debug bool) error
}

// Module связывает имя пакета приложения с его конструктором на этапе сборки.
type Module struct {
	Name string // полное имя, например "server.main"
	Dir  string // сегмент каталога пакета, попадает в ImportError
	New  func(dir string) (Application, error)
}

// ImportError — пакет не найден либо его инициализация упала.
type ImportError struct {
	Name  string
	Dir   string
	Roots []string
	Err   error
}

func (e *ImportError) Error() string {
	if errors.Is(e.Err, ErrModuleNotFound) {
		return fmt.Sprintf("import %s: %v: no %q directory (searched: %s)", e.Name, e.Err, e.Dir, strings.Join(e.Roots, ", "))
	}
	return fmt.Sprintf("import %s: %v", e.Name, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// Locate возвращает первый существующий каталог из path.
func Locate(path SearchPath) (string, bool) {
	for _, root := range path {
		fi, err := os.Stat(root)
		if err == nil && fi.IsDir() {
			return root, true
		}
	}
	return "", false
}

// Import находит каталог пакета и создаёт объект приложения.
func Import(path SearchPath, m Module) (Application, error) {
	if m.New == nil {
		return nil, &ImportError{Name: m.Name, Dir: m.Dir, Roots: path.Roots(), Err: errors.New("module has no constructor")}
	}
	dir, ok := Locate(path)
	if !ok {
		return nil, &ImportError{Name: m.Name, Dir: m.Dir, Roots: path.Roots(), Err: ErrModuleNotFound}
	}
	app, err := m.New(dir)
	if err != nil {
		return nil, &ImportError{Name: m.Name, Dir: m.Dir, Roots: path.Roots(), Err: err}
	}
	if app == nil {
		return nil, &ImportError{Name: m.Name, Dir: m.Dir, Roots: path.Roots(), Err: errors.New("module returned no application")}
	}
	return app, nil
}
