package middleware

import (
	"net/http"
	"time"

	"ecatprep/internal/logs"
	"ecatprep/internal/session"
)

// StatusWriter запоминает код ответа и число записанных байт.
type StatusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

// WrapStatus оборачивает w, если он ещё не обёрнут.
func WrapStatus(w http.ResponseWriter) *StatusWriter {
	if sw, ok := w.(*StatusWriter); ok {
		return sw
	}
	return &StatusWriter{ResponseWriter: w}
}

func (w *StatusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *StatusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Status — 200, если обработчик ничего не записал.
func (w *StatusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *StatusWriter) Bytes() int { return w.bytes }

func (w *StatusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func LoggerMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := WrapStatus(w)
		r = session.Track(r)
		start := time.Now()
		next.ServeHTTP(sw, r)
		d := time.Since(start)
		logs.Logger.Infof("reqid=%s visitor=%s method=%s uri=%s status=%d bytes=%d dur=%s ip=%s ua=%q",
			GetRequestID(r), session.VisitorID(r), r.Method, r.RequestURI, sw.Status(), sw.Bytes(), d, r.RemoteAddr, r.UserAgent())
	})
}
