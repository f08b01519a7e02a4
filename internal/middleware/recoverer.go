package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"ecatprep/internal/httpx"
	"ecatprep/internal/logs"
)

// Recoverer перехватывает панику в обработчике, пишет лог со стеком
// и возвращает 500 в формате application/problem+json.
// При verbose (debug-режим) паника и стек попадают в ответ.
func Recoverer(verbose bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				reqid := GetRequestID(r)
				stack := string(debug.Stack())
				logs.Logger.Errorf("panic: %v reqid=%s uri=%s method=%s\nstack:\n%s",
					rec, reqid, r.RequestURI, r.Method, stack)

				extra := map[string]any{"reqid": reqid}
				detail := "unexpected server error (see logs by reqid)"
				if verbose {
					detail = fmt.Sprint(rec)
					extra["stack"] = stack
				}
				httpx.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", detail, extra)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
