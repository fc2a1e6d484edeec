package sync

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"lemonpunch/internal/app/server/api/http/middleware/auth"
	"lemonpunch/internal/domain/record"
	"lemonpunch/internal/domain/sync"
)

type fakeSubscriber struct {
	events   chan sync.Event
	err      error
	owners   chan record.SessionID
	canceled chan struct{}
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{
		events:   make(chan sync.Event, 4),
		owners:   make(chan record.SessionID, 1),
		canceled: make(chan struct{}),
	}
}

func (f *fakeSubscriber) Subscribe(owner record.SessionID) (<-chan sync.Event, func(), error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	f.owners <- owner
	return f.events, func() { close(f.canceled) }, nil
}

func withOwner(owner record.SessionID, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if owner != "" {
			r = r.WithContext(auth.WithSessionID(r.Context(), owner))
		}
		next.ServeHTTP(w, r)
	})
}

func dial(t *testing.T, srv *httptest.Server) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	return websocket.DefaultDialer.Dial(url, nil)
}

func TestHandler_StreamsEvents(t *testing.T) {
	sub := newFakeSubscriber()
	srv := httptest.NewServer(withOwner("owner-1", NewHandler(sub, slog.Default())))
	defer srv.Close()

	ws, _, err := dial(t, srv)
	require.NoError(t, err)
	defer ws.Close()

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	sub.events <- sync.Event{Owner: "owner-1", RecordID: "r-1", Op: record.OpInsert, At: at}

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got sync.Event
	require.NoError(t, ws.ReadJSON(&got))

	assert.Equal(t, record.SessionID("owner-1"), <-sub.owners)
	assert.Equal(t, "r-1", got.RecordID)
	assert.Equal(t, record.OpInsert, got.Op)
	assert.True(t, at.Equal(got.At))
}

func TestHandler_ClientCloseCancelsSubscription(t *testing.T) {
	sub := newFakeSubscriber()
	srv := httptest.NewServer(withOwner("owner-1", NewHandler(sub, slog.Default())))
	defer srv.Close()

	ws, _, err := dial(t, srv)
	require.NoError(t, err)
	require.NoError(t, ws.Close())

	select {
	case <-sub.canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription was not canceled after client close")
	}
}

func TestHandler_HubClosedSendsCloseFrame(t *testing.T) {
	sub := newFakeSubscriber()
	srv := httptest.NewServer(withOwner("owner-1", NewHandler(sub, slog.Default())))
	defer srv.Close()

	ws, _, err := dial(t, srv)
	require.NoError(t, err)
	defer ws.Close()

	close(sub.events)

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = ws.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), err.Error())
}

func TestHandler_Rejects(t *testing.T) {
	t.Run("no session", func(t *testing.T) {
		srv := httptest.NewServer(withOwner("", NewHandler(newFakeSubscriber(), slog.Default())))
		defer srv.Close()

		_, resp, err := dial(t, srv)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("hub closed", func(t *testing.T) {
		sub := newFakeSubscriber()
		sub.err = errors.New("change hub closed")
		srv := httptest.NewServer(withOwner("owner-1", NewHandler(sub, slog.Default())))
		defer srv.Close()

		_, resp, err := dial(t, srv)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}
