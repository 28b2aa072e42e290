package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/middleware"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/realtime"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// pongWait is how long a client may stay silent before it is dropped
	pongWait   = 30 * time.Second
	writeWait  = 10 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// RealtimeController pushes change events to connected clients
type RealtimeController struct {
	Hub *realtime.Hub
	// AllowedOrigins limits which browser origins may open a socket. Empty
	// allows any origin.
	AllowedOrigins []string
	Log            *zap.Logger
}

// checkOrigin accepts handshakes without an Origin header (non-browser
// clients) and otherwise requires one of AllowedOrigins when that is set
func (h *RealtimeController) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if len(h.AllowedOrigins) == 0 || origin == "" {
		return true
	}
	for _, allowed := range h.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(strings.TrimRight(allowed, "/"), origin) {
			return true
		}
	}
	h.Log.Warn("rejected websocket origin", zap.String("origin", origin))
	return false
}

func (h *RealtimeController) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
}

// ServeWs handles GET /api/v1/ws - upgrades to a websocket that receives
// every change event as JSON. The token may be passed as ?access_token=.
func (h *RealtimeController) ServeWs(c *gin.Context) {
	uid, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	conn, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Warn("failed to upgrade connection", zap.String("uid", uid), zap.Error(err))
		return
	}

	sub := h.Hub.Subscribe()
	defer func() {
		h.Hub.Unsubscribe(sub)
		conn.Close()
	}()

	done := make(chan struct{})
	go h.readLoop(conn, uid, done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-sub.C:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.Log.Debug("websocket write failed", zap.String("uid", uid), zap.Error(err))
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop drains client frames so control messages are handled, and closes
// done when the connection goes away
func (h *RealtimeController) readLoop(conn *websocket.Conn, uid string, done chan<- struct{}) {
	defer close(done)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	conn.SetPingHandler(func(data string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.Log.Info("unexpected websocket close", zap.String("uid", uid), zap.Error(err))
			}
			return
		}
	}
}
