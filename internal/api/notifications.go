package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/hikmetbozkurt/LearnLink-sub000/internal/database"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/notify"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/types"
)

type CreateNotificationRequest struct {
	RecipientId int    `json:"recipient_id"`
	Content     string `json:"content"`
	Type        string `json:"type"`
	ReferenceId int    `json:"reference_id,omitempty"`
}

// listNotifications answers 200 with an empty list when the store fails so
// the notification bell keeps rendering.
func (s *LearnLinkApp) listNotifications(w http.ResponseWriter, r *http.Request) {
	userId, ok := s.sessionUser(w, r)
	if !ok {
		return
	}

	notifications, err := s.db.ListNotifications(r.Context(), userId)
	if err != nil {
		s.log.Printf("list notifications for user %d: %v", userId, err)
		s.writeJson(w, http.StatusOK, []types.Notification{})
		return
	}

	s.writeJson(w, http.StatusOK, notify.ToDTOs(notifications))
}

func (s *LearnLinkApp) unreadCount(w http.ResponseWriter, r *http.Request) {
	userId, ok := s.sessionUser(w, r)
	if !ok {
		return
	}

	count, err := s.db.CountUnreadNotifications(r.Context(), userId)
	if err != nil {
		s.log.Printf("count unread notifications for user %d: %v", userId, err)
		count = 0
	}

	s.writeJson(w, http.StatusOK, map[string]int{"count": count})
}

func (s *LearnLinkApp) createNotification(w http.ResponseWriter, r *http.Request) {
	userId, ok := s.sessionUser(w, r)
	if !ok {
		return
	}

	var req CreateNotificationRequest
	if err := decodeJson(w, r, &req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.RecipientId <= 0 || strings.TrimSpace(req.Content) == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	created, err := s.notifier.Notify(r.Context(), notify.AdHoc{
		SenderId:    userId,
		RecipientId: req.RecipientId,
		Content:     req.Content,
		Type:        req.Type,
		ReferenceId: req.ReferenceId,
	})
	if err != nil {
		// an unknown recipient surfaces as a foreign key violation
		if errors.Is(err, database.ErrNotFound) {
			errResp := NewBadRequestError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}
		s.writeError(w, err)
		return
	}

	if len(created) == 0 {
		s.writeError(w, errors.New("notification was not created"))
		return
	}

	s.writeJson(w, http.StatusCreated, created[0])
}

func (s *LearnLinkApp) markRead(w http.ResponseWriter, r *http.Request) {
	userId, ok := s.sessionUser(w, r)
	if !ok {
		return
	}

	id, err := pathId(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	n, err := s.db.MarkNotificationRead(r.Context(), id, userId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, notify.ToDTO(n))
}

func (s *LearnLinkApp) markAllRead(w http.ResponseWriter, r *http.Request) {
	userId, ok := s.sessionUser(w, r)
	if !ok {
		return
	}

	count, err := s.db.MarkAllNotificationsRead(r.Context(), userId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, map[string]int64{"updated": count})
}

func (s *LearnLinkApp) deleteNotification(w http.ResponseWriter, r *http.Request) {
	userId, ok := s.sessionUser(w, r)
	if !ok {
		return
	}

	id, err := pathId(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	n, err := s.db.DeleteNotification(r.Context(), id, userId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, notify.ToDTO(n))
}

func (s *LearnLinkApp) clearNotifications(w http.ResponseWriter, r *http.Request) {
	userId, ok := s.sessionUser(w, r)
	if !ok {
		return
	}

	deleted, err := s.db.DeleteAllNotifications(r.Context(), userId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, notify.ToDTOs(deleted))
}
