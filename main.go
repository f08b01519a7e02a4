// Точка входа ECAT Prep Platform: каталог server/ рядом с бинарником
// подключается первым в путь поиска, затем приложение запускается
// на 0.0.0.0:5000 в debug-режиме.
package main

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"ecatprep/bootstrap"
	"ecatprep/server"
)

func main() {
	script, err := os.Executable()
	if err != nil {
		logrus.WithError(err).Fatal("cannot locate executable")
	}
	if resolved, err := filepath.EvalSymlinks(script); err == nil {
		script = resolved
	}

	// запасной вариант для `go run .`: server/ в рабочем каталоге
	var base bootstrap.SearchPath
	if wd, err := os.Getwd(); err == nil {
		base = base.Prepend(filepath.Join(wd, bootstrap.AppDir))
	}

	if err := bootstrap.Main(script, base, server.Module); err != nil {
		logrus.WithError(err).Fatal("startup failed")
	}
}
