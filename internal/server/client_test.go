package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/database"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/stats"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/testutil"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSessionClient(t *testing.T, cs *ChatServer, id string, sessionUserId int) *Client {
	c := &Client{
		id:         id,
		chatServer: cs,
		log:        testutil.TestLogger(t),
		user:       types.User{Id: sessionUserId},
		send:       make(chan *ServerMessage, sendQueueSize),
		stop:       make(chan struct{}),
	}
	cs.RegisterClient(c)
	return c
}

func lastResponse(t *testing.T, c *Client) *ServerMessage {
	t.Helper()
	msgs := drainSend(c)
	require.NotEmpty(t, msgs, "expected a response to be queued")
	msg := msgs[len(msgs)-1]
	require.NotNil(t, msg.Response, "expected response to be non-nil")
	return msg
}

func Test_queueMessage(t *testing.T) {
	t.Run("successful queue", func(t *testing.T) {
		c := &Client{
			send: make(chan *ServerMessage, 1),
			log:  testutil.TestLogger(t),
		}

		res := c.queueMessage(&ServerMessage{})
		assert.True(t, res, "expected queueMessage to return true when channel is not full")
		assert.Len(t, c.send, 1, "expected a message to be sent to the client")
	})

	t.Run("channel full", func(t *testing.T) {
		c := &Client{
			send: make(chan *ServerMessage, 1),
			log:  testutil.TestLogger(t),
		}

		c.send <- &ServerMessage{}
		res := c.queueMessage(&ServerMessage{})
		assert.False(t, res, "expected queueMessage to return false when channel is full")
	})
}

func Test_stopClient(t *testing.T) {
	c := &Client{
		stop: make(chan struct{}),
	}

	c.stopClient()
	c.stopClient()

	select {
	case <-c.stop:
	default:
		t.Error("expected stop channel to be closed")
	}
}

func TestClientIdentify(t *testing.T) {
	t.Run("matching session", func(t *testing.T) {
		cs := newTestChatServer(t, &database.MockLearnLinkRepository{}, &stats.MockStatsUpdater{})
		c := newSessionClient(t, cs, "a", 7)

		c.handle(&ClientMessage{BaseMessage: BaseMessage{Id: 1}, Identify: &Identify{UserId: 7}})

		msg := lastResponse(t, c)
		assert.Equal(t, 1, msg.Id)
		assert.Equal(t, http.StatusOK, msg.Response.ResponseCode)
		assert.Equal(t, []string{"a"}, cs.registry.ConnectionsFor(7))
	})

	t.Run("mismatched session", func(t *testing.T) {
		cs := newTestChatServer(t, &database.MockLearnLinkRepository{}, &stats.MockStatsUpdater{})
		c := newSessionClient(t, cs, "a", 7)

		c.handle(&ClientMessage{BaseMessage: BaseMessage{Id: 1}, Identify: &Identify{UserId: 8}})

		msg := lastResponse(t, c)
		assert.Equal(t, http.StatusForbidden, msg.Response.ResponseCode)
		assert.Empty(t, cs.registry.ConnectionsFor(8))
		assert.Empty(t, cs.registry.ConnectionsFor(7))
	})
}

func TestClientJoin(t *testing.T) {
	t.Run("requires identify", func(t *testing.T) {
		db := &database.MockLearnLinkRepository{}
		cs := newTestChatServer(t, db, &stats.MockStatsUpdater{})
		c := newSessionClient(t, cs, "a", 1)

		c.handle(&ClientMessage{BaseMessage: BaseMessage{Id: 2}, Join: &Join{RoomId: "chatroom:3"}})

		msg := lastResponse(t, c)
		assert.Equal(t, http.StatusUnauthorized, msg.Response.ResponseCode)
		db.AssertNotCalled(t, "GetChatroom", mock.Anything, mock.Anything)
	})

	t.Run("invalid room id", func(t *testing.T) {
		cs := newTestChatServer(t, &database.MockLearnLinkRepository{}, &stats.MockStatsUpdater{})
		c := newTestClient(t, cs, "a", 1)

		c.handle(&ClientMessage{BaseMessage: BaseMessage{Id: 2}, Join: &Join{RoomId: "course:3"}})

		msg := lastResponse(t, c)
		assert.Equal(t, http.StatusBadRequest, msg.Response.ResponseCode)
	})

	t.Run("member joins", func(t *testing.T) {
		db := &database.MockLearnLinkRepository{}
		db.On("GetChatroom", mock.Anything, 3).Return(database.Chatroom{Id: 3}, nil)
		db.On("IsChatroomMember", mock.Anything, 3, 1).Return(true, nil)
		cs := newTestChatServer(t, db, &stats.MockStatsUpdater{})
		c := newTestClient(t, cs, "a", 1)

		c.handle(&ClientMessage{BaseMessage: BaseMessage{Id: 2}, Join: &Join{RoomId: "chatroom:3"}})

		msg := lastResponse(t, c)
		assert.Equal(t, 2, msg.Id)
		assert.Equal(t, http.StatusOK, msg.Response.ResponseCode)
		assert.Equal(t, []string{"a"}, cs.registry.SubscribersOf("chatroom:3"))
	})

	t.Run("non member rejected", func(t *testing.T) {
		db := &database.MockLearnLinkRepository{}
		db.On("GetChatroom", mock.Anything, 3).Return(database.Chatroom{Id: 3}, nil)
		db.On("IsChatroomMember", mock.Anything, 3, 1).Return(false, nil)
		cs := newTestChatServer(t, db, &stats.MockStatsUpdater{})
		c := newTestClient(t, cs, "a", 1)

		c.handle(&ClientMessage{BaseMessage: BaseMessage{Id: 2}, Join: &Join{RoomId: "chatroom:3"}})

		msg := lastResponse(t, c)
		assert.Equal(t, http.StatusForbidden, msg.Response.ResponseCode)
		assert.Empty(t, cs.registry.SubscribersOf("chatroom:3"))
	})

	t.Run("unknown room", func(t *testing.T) {
		db := &database.MockLearnLinkRepository{}
		db.On("GetDirectMessage", mock.Anything, 42).Return(database.DirectMessage{}, database.ErrNotFound)
		cs := newTestChatServer(t, db, &stats.MockStatsUpdater{})
		c := newTestClient(t, cs, "a", 1)

		c.handle(&ClientMessage{BaseMessage: BaseMessage{Id: 2}, Join: &Join{RoomId: "directMessage:42"}})

		msg := lastResponse(t, c)
		assert.Equal(t, http.StatusNotFound, msg.Response.ResponseCode)
	})
}

func TestClientLeave(t *testing.T) {
	cs := newTestChatServer(t, &database.MockLearnLinkRepository{}, &stats.MockStatsUpdater{})
	c := newTestClient(t, cs, "a", 1)
	require.NoError(t, cs.registry.Join("a", "chatroom:3"))

	c.handle(&ClientMessage{BaseMessage: BaseMessage{Id: 4}, Leave: &Leave{RoomId: "chatroom:3"}})

	msg := lastResponse(t, c)
	assert.Equal(t, http.StatusOK, msg.Response.ResponseCode)
	assert.Empty(t, cs.registry.SubscribersOf("chatroom:3"))

	c.handle(&ClientMessage{BaseMessage: BaseMessage{Id: 5}, Leave: &Leave{RoomId: "chatroom:3"}})
	msg = lastResponse(t, c)
	assert.Equal(t, http.StatusOK, msg.Response.ResponseCode, "expected leaving twice to be a no-op")
}

func TestClientEmptyCommand(t *testing.T) {
	cs := newTestChatServer(t, &database.MockLearnLinkRepository{}, &stats.MockStatsUpdater{})
	c := newTestClient(t, cs, "a", 1)

	c.handle(&ClientMessage{BaseMessage: BaseMessage{Id: 6}})

	msg := lastResponse(t, c)
	assert.Equal(t, http.StatusBadRequest, msg.Response.ResponseCode)
}

func TestClientWebsocketRoundTrip(t *testing.T) {
	db := &database.MockLearnLinkRepository{}
	db.On("GetDirectMessage", mock.Anything, 42).
		Return(database.DirectMessage{Id: 42, User1Id: 1, User2Id: 2}, nil)

	cs := newTestChatServer(t, db, &stats.MockStatsUpdater{})
	upgrader := websocket.Upgrader{}
	registered := make(chan *Client, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		c, err := NewClient(types.User{Id: 2}, conn, cs, testutil.TestLogger(t))
		if err != nil {
			conn.Close()
			return
		}
		cs.RegisterClient(c)
		registered <- c

		go c.Write()
		go c.Read()
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	c := <-registered
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	require.NoError(t, conn.WriteJSON(ClientMessage{BaseMessage: BaseMessage{Id: 1}, Identify: &Identify{UserId: 2}}))
	var resp ServerMessage
	require.NoError(t, conn.ReadJSON(&resp))
	require.NotNil(t, resp.Response)
	assert.Equal(t, http.StatusOK, resp.Response.ResponseCode)

	require.NoError(t, conn.WriteJSON(ClientMessage{BaseMessage: BaseMessage{Id: 2}, Join: &Join{RoomId: "directMessage:42"}}))
	resp = ServerMessage{}
	require.NoError(t, conn.ReadJSON(&resp))
	require.NotNil(t, resp.Response)
	assert.Equal(t, 2, resp.Id)
	assert.Equal(t, http.StatusOK, resp.Response.ResponseCode)

	del := cs.PushToRoom(types.DirectMessageKey(42), types.Push{Message: &types.Message{Id: 77, DmId: 42, SenderId: 1, Content: "hi"}})
	assert.Equal(t, 1, del.Queued)

	var push ServerMessage
	require.NoError(t, conn.ReadJSON(&push))
	require.NotNil(t, push.Message)
	assert.Equal(t, 77, push.Message.Id)
	assert.Equal(t, "hi", push.Message.Content)

	conn.Close()
	assert.Eventually(t, func() bool {
		return len(cs.registry.ConnectionsFor(2)) == 0 && len(cs.registry.SubscribersOf("directMessage:42")) == 0
	}, 2*time.Second, 10*time.Millisecond, "expected connection %s to be cleaned up after disconnect", c.id)
}
