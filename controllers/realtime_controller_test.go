package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/realtime"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServeWs_PushesEvents(t *testing.T) {
	hub := realtime.NewHub(zap.NewNop())
	defer hub.Close()
	h := &RealtimeController{Hub: hub, Log: zap.NewNop()}

	router := setupTestRouter()
	router.GET("/ws", mockAuthMiddleware("auth0|lead", "mock-token"), h.ServeWs)
	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	ev := realtime.NewEvent(realtime.EventDepartmentChanged)
	ev.OrderNumber = "101"
	hub.Publish(ev)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got realtime.Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, realtime.EventDepartmentChanged, got.Type)
	assert.Equal(t, "101", got.OrderNumber)
	assert.Equal(t, hub.Origin(), got.Origin)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestServeWs_RequiresUser(t *testing.T) {
	hub := realtime.NewHub(zap.NewNop())
	defer hub.Close()
	h := &RealtimeController{Hub: hub, Log: zap.NewNop()}

	router := setupTestRouter()
	router.GET("/ws", h.ServeWs)

	w := doRequest(router, http.MethodGet, "/ws", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, hub.Len())
}

func TestServeWs_ChecksOrigin(t *testing.T) {
	hub := realtime.NewHub(zap.NewNop())
	defer hub.Close()
	h := &RealtimeController{Hub: hub, AllowedOrigins: []string{"http://localhost:5173"}, Log: zap.NewNop()}

	router := setupTestRouter()
	router.GET("/ws", mockAuthMiddleware("auth0|lead", "mock-token"), h.ServeWs)
	server := httptest.NewServer(router)
	defer server.Close()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"

	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"Listed origin", "http://localhost:5173", true},
		{"Listed origin any case", "HTTP://LOCALHOST:5173", true},
		{"No origin header", "", true},
		{"Unknown origin", "https://evil.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, resp, err := websocket.DefaultDialer.Dial(url, header)
			if !tt.allowed {
				require.ErrorIs(t, err, websocket.ErrBadHandshake)
				require.NotNil(t, resp)
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)
				assert.Equal(t, 0, hub.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
			require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)
			conn.Close()
			require.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 10*time.Millisecond)
		})
	}
}
