package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/hikmetbozkurt/LearnLink-sub000/internal/database"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/notify"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/types"
)

type SendMessageRequest struct {
	Content string `json:"content"`
}

func messageDTO(m database.Message, content string) types.Message {
	msg := types.Message{
		Id:        m.Id,
		SenderId:  m.SenderId,
		Content:   content,
		CreatedAt: m.CreatedAt,
	}

	if m.ChatroomId.Valid {
		msg.ChatroomId = int(m.ChatroomId.Int64)
		msg.RoomId = types.ChatroomKey(msg.ChatroomId).String()
	}
	if m.DmId.Valid {
		msg.DmId = int(m.DmId.Int64)
		msg.RoomId = types.DirectMessageKey(msg.DmId).String()
	}

	return msg
}

func listParams(r *http.Request) database.ListMessagesParams {
	var p database.ListMessagesParams
	if before, err := strconv.Atoi(r.URL.Query().Get("before")); err == nil {
		p.Before = before
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		p.Limit = limit
	}
	return p
}

func (s *LearnLinkApp) decodeMessage(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req SendMessageRequest
	if err := decodeJson(w, r, &req); err != nil || strings.TrimSpace(req.Content) == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return "", false
	}
	return req.Content, true
}

// authorizeChatroom returns database.ErrNotFound for an unknown chatroom and
// a forbidden error when userId is not a member.
func (s *LearnLinkApp) authorizeChatroom(ctx context.Context, chatroomId, userId int) error {
	if _, err := s.db.GetChatroom(ctx, chatroomId); err != nil {
		return err
	}

	member, err := s.db.IsChatroomMember(ctx, chatroomId, userId)
	if err != nil {
		return err
	}
	if !member {
		return NewForbiddenError()
	}

	return nil
}

func (s *LearnLinkApp) authorizeDirectMessage(ctx context.Context, dmId, userId int) (database.DirectMessage, error) {
	dm, err := s.db.GetDirectMessage(ctx, dmId)
	if err != nil {
		return dm, err
	}
	if !dm.HasParticipant(userId) {
		return dm, NewForbiddenError()
	}

	return dm, nil
}

func (s *LearnLinkApp) sendChatroomMessage(w http.ResponseWriter, r *http.Request) {
	userId, ok := s.sessionUser(w, r)
	if !ok {
		return
	}

	chatroomId, err := pathId(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	content, ok := s.decodeMessage(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if err := s.authorizeChatroom(ctx, chatroomId, userId); err != nil {
		s.writeError(w, err)
		return
	}

	stored, err := s.db.CreateMessage(ctx, database.CreateMessageParams{
		ChatroomId: chatroomId,
		SenderId:   userId,
		Content:    content,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	memberIds, err := s.db.ListChatroomMemberIds(ctx, chatroomId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	msg := messageDTO(stored, stored.Content)
	if _, err := s.notifier.Notify(ctx, notify.RoomMessage{
		ChatroomId: chatroomId,
		SenderName: s.username(ctx, userId),
		Message:    msg,
		MemberIds:  memberIds,
	}); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusCreated, msg)
}

func (s *LearnLinkApp) listChatroomMessages(w http.ResponseWriter, r *http.Request) {
	userId, ok := s.sessionUser(w, r)
	if !ok {
		return
	}

	chatroomId, err := pathId(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.authorizeChatroom(r.Context(), chatroomId, userId); err != nil {
		s.writeError(w, err)
		return
	}

	params := listParams(r)
	params.ChatroomId = chatroomId
	stored, err := s.db.ListMessages(r.Context(), params)
	if err != nil {
		s.log.Printf("list messages for chatroom %d: %v", chatroomId, err)
		s.writeJson(w, http.StatusOK, []types.Message{})
		return
	}

	messages := make([]types.Message, 0, len(stored))
	for _, m := range stored {
		messages = append(messages, messageDTO(m, m.Content))
	}

	s.writeJson(w, http.StatusOK, messages)
}

func (s *LearnLinkApp) sendDirectMessage(w http.ResponseWriter, r *http.Request) {
	userId, ok := s.sessionUser(w, r)
	if !ok {
		return
	}

	dmId, err := pathId(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	content, ok := s.decodeMessage(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	dm, err := s.authorizeDirectMessage(ctx, dmId, userId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sealed, err := s.cipher.Seal(content)
	if err != nil {
		s.writeError(w, err)
		return
	}

	stored, err := s.db.CreateMessage(ctx, database.CreateMessageParams{
		DmId:     dmId,
		SenderId: userId,
		Content:  sealed,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	msg := messageDTO(stored, content)
	if _, err := s.notifier.Notify(ctx, notify.DirectMessage{
		DmId:        dmId,
		RecipientId: dm.OtherParticipant(userId),
		SenderName:  s.username(ctx, userId),
		Message:     msg,
	}); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusCreated, msg)
}

func (s *LearnLinkApp) listDirectMessages(w http.ResponseWriter, r *http.Request) {
	userId, ok := s.sessionUser(w, r)
	if !ok {
		return
	}

	dmId, err := pathId(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if _, err := s.authorizeDirectMessage(r.Context(), dmId, userId); err != nil {
		s.writeError(w, err)
		return
	}

	params := listParams(r)
	params.DmId = dmId
	stored, err := s.db.ListMessages(r.Context(), params)
	if err != nil {
		s.log.Printf("list messages for direct message %d: %v", dmId, err)
		s.writeJson(w, http.StatusOK, []types.Message{})
		return
	}

	messages := make([]types.Message, 0, len(stored))
	for _, m := range stored {
		content, err := s.cipher.Open(m.Content)
		if err != nil {
			s.log.Printf("decrypt message %d: %v", m.Id, err)
			continue
		}
		messages = append(messages, messageDTO(m, content))
	}

	s.writeJson(w, http.StatusOK, messages)
}
