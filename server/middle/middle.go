// Package middle contains middleware for use with the NightRunner server.
package middle

import (
	"context"
	"net/http"
	"time"

	"github.com/dekarrin/nightrunner/server/dao"
	"github.com/dekarrin/nightrunner/server/result"
	"github.com/dekarrin/nightrunner/server/token"
	"github.com/go-chi/chi/v5"
)

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by the auth
// middleware.
type AuthKey int64

const (
	// AuthSession holds the dao.Session that the request's token grants
	// access to.
	AuthSession AuthKey = iota

	// AuthAuthor holds true if the request gave a valid author key.
	AuthAuthor
)

// AuthorKeyChecker checks a key given by a client against the configured
// author key. It returns a non-nil error if they do not match.
type AuthorKeyChecker interface {
	CheckAuthorKey(key string) error
}

// SessionHandler is middleware that extracts the session token from a request
// and loads the session it grants access to.
//
// If the route has an "id" URL parameter it must be the ID of that session;
// clients may only act on their own session. The session is added to the
// request context under AuthSession before the request is passed on.
type SessionHandler struct {
	db            dao.SessionRepository
	secret        []byte
	unauthedDelay time.Duration
	next          http.Handler
}

func (sh *SessionHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	tok, err := token.Get(req)
	if err != nil {
		deny(w, result.Unauthorized("", err.Error()), sh.unauthedDelay)
		return
	}

	sess, err := token.Validate(req.Context(), tok, sh.secret, sh.db)
	if err != nil {
		deny(w, result.Unauthorized("", err.Error()), sh.unauthedDelay)
		return
	}

	if idParam := chi.URLParam(req, "id"); idParam != "" && idParam != sess.ID.String() {
		deny(w, result.Forbidden("session %s tried to access session %s", sess.ID, idParam), sh.unauthedDelay)
		return
	}

	ctx := context.WithValue(req.Context(), AuthSession, sess)
	sh.next.ServeHTTP(w, req.WithContext(ctx))
}

// AuthorHandler is middleware that requires the request to give the author key
// as its Bearer token.
type AuthorHandler struct {
	checker       AuthorKeyChecker
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthorHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	key, err := token.Get(req)
	if err != nil {
		deny(w, result.Unauthorized("", err.Error()), ah.unauthedDelay)
		return
	}

	if err := ah.checker.CheckAuthorKey(key); err != nil {
		deny(w, result.Unauthorized("", "author key: %s", err.Error()), ah.unauthedDelay)
		return
	}

	ctx := context.WithValue(req.Context(), AuthAuthor, true)
	ah.next.ServeHTTP(w, req.WithContext(ctx))
}

func deny(w http.ResponseWriter, r result.Result, delay time.Duration) {
	time.Sleep(delay)
	r.WriteResponse(w)
}

// RequireSession returns middleware that only lets through requests carrying
// a valid session token.
func RequireSession(db dao.SessionRepository, secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &SessionHandler{
			db:            db,
			secret:        secret,
			unauthedDelay: unauthDelay,
			next:          next,
		}
	}
}

// RequireAuthorKey returns middleware that only lets through requests that give
// the author key.
func RequireAuthorKey(checker AuthorKeyChecker, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthorHandler{
			checker:       checker,
			unauthedDelay: unauthDelay,
			next:          next,
		}
	}
}
