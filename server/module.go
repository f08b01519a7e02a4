package server

import "ecatprep/bootstrap"

// Module — пакет приложения для bootstrap: каталог "server" рядом с исполняемым файлом.
var Module = bootstrap.Module{
	Name: "server.main",
	Dir:  bootstrap.AppDir,
	New: func(dir string) (bootstrap.Application, error) {
		a, err := Open(dir)
		if err != nil {
			return nil, err
		}
		return a, nil
	},
}
