// Package session выдаёт посетителю подписанную cookie с постоянным visitor id.
package session

import (
	"context"
	"crypto/rand"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"ecatprep/internal/logs"
)

const visitorKey = "visitor_id"

type ctxKey struct{}

// slotKey — ячейка, которую кладёт внешний middleware (access-лог) до Visitor:
// Visitor работает на копии запроса, и без ячейки внешний слой id не увидит.
type slotKey struct{}

type slot struct{ id string }

// Track готовит в контексте ячейку для visitor id; VisitorID(r) по возвращённому
// запросу увидит id, выставленный вложенным Visitor.
func Track(r *http.Request) *http.Request {
	if _, ok := r.Context().Value(slotKey{}).(*slot); ok {
		return r
	}
	return r.WithContext(context.WithValue(r.Context(), slotKey{}, &slot{}))
}

// Options — параметры cookie-хранилища.
type Options struct {
	Name   string
	MaxAge int  // секунды
	Secure bool // только https
}

// Store — cookie-хранилище сессий.
type Store struct {
	name  string
	store *sessions.CookieStore
}

// NewStore создаёт хранилище, подписывающее cookie ключом secret.
func NewStore(secret []byte, opts Options) *Store {
	cs := sessions.NewCookieStore(secret)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{name: opts.Name, store: cs}
}

// EphemeralSecret — случайный ключ для debug-режима без app.secret_key.
// Cookie теряют силу при каждом перезапуске.
func EphemeralSecret() []byte {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return b
}

// Visitor гарантирует visitor id в сессии и кладёт его в контекст запроса.
func (s *Store) Visitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// битая/чужая подпись — просто начинаем новую сессию
		sess, err := s.store.Get(r, s.name)
		if err != nil {
			logs.Logger.Debugf("session: discarding invalid cookie: %v", err)
		}
		id, _ := sess.Values[visitorKey].(string)
		if id == "" {
			id = uuid.NewString()
			sess.Values[visitorKey] = id
			if err := sess.Save(r, w); err != nil {
				logs.Logger.Warnf("session: save failed: %v", err)
			}
		}
		if sl, ok := r.Context().Value(slotKey{}).(*slot); ok {
			sl.id = id
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// VisitorID — id посетителя из контекста, пусто если middleware не подключён.
func VisitorID(r *http.Request) string {
	if s, ok := r.Context().Value(ctxKey{}).(string); ok {
		return s
	}
	if sl, ok := r.Context().Value(slotKey{}).(*slot); ok {
		return sl.id
	}
	return ""
}
