package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hikmetbozkurt/LearnLink-sub000/internal/types"
)

type BaseMessage struct {
	Id        int       `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ClientMessage is a frame sent by the browser. Exactly one of the command
// fields is set.
type ClientMessage struct {
	BaseMessage
	Identify *Identify `json:"identify,omitempty"`
	Join     *Join     `json:"join,omitempty"`
	Leave    *Leave    `json:"leave,omitempty"`
}

type Identify struct {
	UserId int `json:"user_id"`
}

type Join struct {
	RoomId string `json:"room_id"`
}

type Leave struct {
	RoomId string `json:"room_id"`
}

// ServerMessage is either a response to a ClientMessage (sharing its id) or
// an unsolicited push.
type ServerMessage struct {
	BaseMessage
	Response     *Response           `json:"response,omitempty"`
	Message      *types.Message      `json:"message,omitempty"`
	Notification *types.Notification `json:"notification,omitempty"`
}

type Response struct {
	ResponseCode int    `json:"response_code"`
	Error        string `json:"error,omitempty"`
	Data         any    `json:"data,omitempty"`
}

func pushMessage(p types.Push) *ServerMessage {
	return &ServerMessage{
		BaseMessage:  BaseMessage{Timestamp: Now()},
		Message:      p.Message,
		Notification: p.Notification,
	}
}

func serializeMessage(msg *ServerMessage) ([]byte, error) {
	return json.Marshal(msg)
}

func response(id, code int, errMsg string, data any) *ServerMessage {
	msg := &ServerMessage{
		BaseMessage: BaseMessage{
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: code,
			Error:        errMsg,
			Data:         data,
		},
	}

	if id > 0 {
		msg.Id = id
	}
	return msg
}

func NoErrOK(id int, data any) *ServerMessage {
	return response(id, http.StatusOK, "", data)
}

func ErrInvalidMessage(id int) *ServerMessage {
	return response(id, http.StatusBadRequest, "invalid message format", nil)
}

func ErrNotIdentified(id int) *ServerMessage {
	return response(id, http.StatusUnauthorized, "connection not identified", nil)
}

func ErrForbidden(id int) *ServerMessage {
	return response(id, http.StatusForbidden, "forbidden", nil)
}

func ErrRoomNotFound(id int) *ServerMessage {
	return response(id, http.StatusNotFound, "room not found", nil)
}

func ErrInternalError(id int) *ServerMessage {
	return response(id, http.StatusInternalServerError, "internal server error", nil)
}

func Now() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}
