package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/config"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/database"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/msgcrypt"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/notify"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/server"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/stats"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testSigningKey = []byte("test-signing-key")
	testMessageKey = bytes.Repeat([]byte{7}, 32)
)

type testApp struct {
	*LearnLinkApp
	db    *database.MockLearnLinkRepository
	stats *stats.MockStatsUpdater
}

// newTestApp wires an app over a mock repository. A nil notifier means the
// real dispatcher pushing through the app's chat server.
func newTestApp(t *testing.T, notifier notify.Notifier) *testApp {
	db := &database.MockLearnLinkRepository{}
	su := &stats.MockStatsUpdater{}
	su.On("Incr", mock.Anything).Maybe()
	su.On("Decr", mock.Anything).Maybe()
	su.On("Add", mock.Anything, mock.Anything).Maybe()

	logger := testutil.TestLogger(t)
	cs := server.NewChatServer(logger, db, su)
	if notifier == nil {
		notifier = notify.NewDispatcher(logger, db, cs, su)
	}

	cipher, err := msgcrypt.New(testMessageKey)
	require.NoError(t, err)

	app := NewLearnLinkApp(http.NewServeMux(), logger, cs, db, notifier, cipher, &config.Config{
		ServerAddr:     "localhost:0",
		SigningKey:     testSigningKey,
		AllowedOrigins: []string{"http://localhost:3000"},
	})

	return &testApp{LearnLinkApp: app, db: db, stats: su}
}

func createJwtForSession(key []byte, userId int, exp time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		userIdClaim: userId,
		"exp":       time.Now().Add(exp).Unix(),
	})

	return token.SignedString(key)
}

func sessionCookie(t *testing.T, userId int) *http.Cookie {
	t.Helper()
	token, err := createJwtForSession(testSigningKey, userId, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: tokenCookieKey, Value: token}
}

// do sends a request through the full middleware chain as userId. A zero
// userId sends no session cookie.
func (a *testApp) do(t *testing.T, method, path string, body any, userId int) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if userId != 0 {
		req.AddCookie(sessionCookie(t, userId))
	}

	rr := httptest.NewRecorder()
	a.srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}
