package bootstrap

import (
	"path/filepath"
)

// AppDir — каталог пакета приложения рядом с исполняемым файлом.
const AppDir = "server"

// SearchPath — упорядоченный список каталогов, в которых ищется пакет приложения.
// Значение неизменяемо: Prepend всегда возвращает новый срез.
type SearchPath []string

// Prepend возвращает новый путь поиска, где dir стоит первым (затеняет остальные).
func (p SearchPath) Prepend(dir string) SearchPath {
	out := make(SearchPath, 0, len(p)+1)
	out = append(out, dir)
	return append(out, p...)
}

// Roots — копия списка, чтобы вызывающий не мог испортить исходный.
func (p SearchPath) Roots() []string {
	return append([]string(nil), p...)
}

// Resolve вычисляет каталог приложения относительно script и ставит его в начало base.
// Существование каталога здесь не проверяется — это задача Import.
func Resolve(script string, base SearchPath) SearchPath {
	abs, err := filepath.Abs(script)
	if err != nil {
		abs = filepath.Clean(script)
	}
	return base.Prepend(filepath.Join(filepath.Dir(abs), AppDir))
}
