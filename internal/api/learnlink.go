package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/config"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/database"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/msgcrypt"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/notify"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/server"
)

type LearnLinkApp struct {
	log            *log.Logger
	db             database.LearnLinkRepository
	cs             *server.ChatServer
	notifier       notify.Notifier
	cipher         *msgcrypt.Cipher
	signingKey     []byte
	allowedOrigins []string
	srv            *http.Server
}

func NewLearnLinkApp(
	mux *http.ServeMux,
	logger *log.Logger,
	cs *server.ChatServer,
	db database.LearnLinkRepository,
	notifier notify.Notifier,
	cipher *msgcrypt.Cipher,
	cfg *config.Config,
) *LearnLinkApp {
	s := &LearnLinkApp{
		log:            logger,
		db:             db,
		cs:             cs,
		notifier:       notifier,
		cipher:         cipher,
		signingKey:     cfg.SigningKey,
		allowedOrigins: cfg.AllowedOrigins,
	}

	mux.HandleFunc("GET /healthz", s.healthCheck)

	mux.HandleFunc("GET /api/notifications", s.authMiddleware(s.listNotifications))
	mux.HandleFunc("GET /api/notifications/unread-count", s.authMiddleware(s.unreadCount))
	mux.HandleFunc("POST /api/notifications", s.authMiddleware(s.createNotification))
	mux.HandleFunc("PUT /api/notifications/read-all", s.authMiddleware(s.markAllRead))
	mux.HandleFunc("PUT /api/notifications/{id}/read", s.authMiddleware(s.markRead))
	mux.HandleFunc("DELETE /api/notifications/clear", s.authMiddleware(s.clearNotifications))
	mux.HandleFunc("DELETE /api/notifications/{id}", s.authMiddleware(s.deleteNotification))

	mux.HandleFunc("GET /api/chatrooms/{id}/messages", s.authMiddleware(s.listChatroomMessages))
	mux.HandleFunc("POST /api/chatrooms/{id}/messages", s.authMiddleware(s.sendChatroomMessage))
	mux.HandleFunc("GET /api/direct-messages/{id}/messages", s.authMiddleware(s.listDirectMessages))
	mux.HandleFunc("POST /api/direct-messages/{id}/messages", s.authMiddleware(s.sendDirectMessage))

	mux.HandleFunc("POST /api/courses/{id}/assignments", s.authMiddleware(s.createAssignment))
	mux.HandleFunc("POST /api/assignments/{id}/submissions", s.authMiddleware(s.createSubmission))
	mux.HandleFunc("PUT /api/submissions/{id}/grade", s.authMiddleware(s.gradeSubmission))

	mux.HandleFunc("GET /ws", s.authMiddleware(s.serveWs))

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept", headerRequestId}),
		handlers.ExposedHeaders([]string{headerRequestId}),
		handlers.AllowCredentials(),
	)(mux)

	h = requestIdMiddleware(h)
	h = handlers.CombinedLoggingHandler(logger.Writer(), h)
	h = s.errorHandler(h)

	s.srv = &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	return s
}

func (s *LearnLinkApp) Start() error {
	s.log.Printf("starting server on %s\n", s.srv.Addr)
	return s.srv.ListenAndServe()
}

func (s *LearnLinkApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
