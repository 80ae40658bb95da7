package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

const headerRequestId = "X-Request-ID"

type requestIdKey struct{}

func (s *LearnLinkApp) errorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				var panicError error
				switch e := err.(type) {
				case error:
					panicError = e
				default:
					panicError = fmt.Errorf("%v", e)
				}
				s.log.Printf("panic: %v", panicError)
				errResp := NewInternalServerError(panicError)
				w.Header().Set("Connection", "close")
				s.writeJson(w, errResp.StatusCode, errResp)
				return
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// requestIdMiddleware propagates X-Request-ID or assigns a fresh one.
func requestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqId := r.Header.Get(headerRequestId)
		if reqId == "" {
			reqId = uuid.NewString()
		}
		w.Header().Set(headerRequestId, reqId)

		ctx := context.WithValue(r.Context(), requestIdKey{}, reqId)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequestId(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIdKey{}).(string)
	return id, ok
}

func (s *LearnLinkApp) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenCookie, err := r.Cookie(tokenCookieKey)
		if err != nil {
			errResp := NewUnauthorizedError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}

		userId, err := s.extractUserIdFromToken(tokenCookie.Value)
		if err != nil {
			s.log.Printf("failed to extract user id from token: %v", err)
			errResp := NewUnauthorizedError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}

		ctx := WithUserId(r.Context(), userId)
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")

		next(w, r.WithContext(ctx))
	}
}
