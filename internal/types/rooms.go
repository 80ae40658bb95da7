package types

import (
	"errors"
	"strconv"
	"strings"
)

type RoomKind string

const (
	RoomKindChatroom      RoomKind = "chatroom"
	RoomKindDirectMessage RoomKind = "directMessage"
)

var ErrInvalidRoomId = errors.New("invalid room id")

// RoomKey identifies a live channel. Its string form is "<kind>:<id>".
type RoomKey struct {
	Kind RoomKind
	Id   int
}

func ChatroomKey(id int) RoomKey {
	return RoomKey{Kind: RoomKindChatroom, Id: id}
}

func DirectMessageKey(id int) RoomKey {
	return RoomKey{Kind: RoomKindDirectMessage, Id: id}
}

func (k RoomKey) String() string {
	return string(k.Kind) + ":" + strconv.Itoa(k.Id)
}

func ParseRoomKey(s string) (RoomKey, error) {
	kind, rawId, ok := strings.Cut(s, ":")
	if !ok {
		return RoomKey{}, ErrInvalidRoomId
	}

	id, err := strconv.Atoi(rawId)
	if err != nil || id <= 0 {
		return RoomKey{}, ErrInvalidRoomId
	}

	switch RoomKind(kind) {
	case RoomKindChatroom, RoomKindDirectMessage:
		return RoomKey{Kind: RoomKind(kind), Id: id}, nil
	default:
		return RoomKey{}, ErrInvalidRoomId
	}
}
