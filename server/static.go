package server

import (
	"net/http"
	"path"

	"ecatprep/internal/httpx"
)

// staticHandler отдаёт файлы из dir; всё, чего нет на диске, уходит в problem+json 404,
// как и прочие неизвестные маршруты.
func staticHandler(dir string) http.Handler {
	root := http.Dir(dir)
	files := http.FileServer(root)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !staticExists(root, path.Clean("/"+r.URL.Path)) {
			httpx.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// каталог считается существующим только при наличии index.html (листинги не отдаём)
func staticExists(root http.Dir, name string) bool {
	f, err := root.Open(name)
	if err != nil {
		return false
	}
	fi, err := f.Stat()
	_ = f.Close()
	if err != nil {
		return false
	}
	if !fi.IsDir() {
		return true
	}
	idx, err := root.Open(path.Join(name, "index.html"))
	if err != nil {
		return false
	}
	_ = idx.Close()
	return true
}
