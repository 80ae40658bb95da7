package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/server"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/types"
)

const (
	healthCheckTimeout = 2 * time.Second
	maxBodyBytes       = 1 << 20
)

var errInvalidId = errors.New("invalid id")

func (s *LearnLinkApp) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

func decodeJson(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func pathId(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, errInvalidId
	}
	return id, nil
}

// sessionUser returns the caller's id, writing a 401 when it is missing.
func (s *LearnLinkApp) sessionUser(w http.ResponseWriter, r *http.Request) (int, bool) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
	}
	return userId, ok
}

// username looks up a display name for notification text. A failed lookup
// yields an empty name rather than failing the request.
func (s *LearnLinkApp) username(ctx context.Context, userId int) string {
	user, err := s.db.GetAccountById(ctx, userId)
	if err != nil {
		s.log.Printf("lookup user %d: %v", userId, err)
		return ""
	}
	return user.Username
}

func (s *LearnLinkApp) healthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *LearnLinkApp) serveWs(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionUser(w, r)
	if !ok {
		return
	}

	user, err := s.db.GetAccountById(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}

			return slices.Contains(s.allowedOrigins, origin)
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Println("error upgrading connection:", err)
		return
	}

	client, err := server.NewClient(types.User{
		Id:        user.Id,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}, conn, s.cs, s.log)
	if err != nil {
		s.log.Println("error creating client:", err)
		conn.Close()
		return
	}

	s.cs.RegisterClient(client)
	go client.Write()
	go client.Read()
}
