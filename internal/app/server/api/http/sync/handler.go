package sync

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"

	"lemonpunch/internal/app/server/api/http/middleware/auth"
	"lemonpunch/internal/app/server/api/http/middleware/metrics"
	"lemonpunch/internal/domain/record"
	"lemonpunch/internal/domain/sync"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingPeriod   = pongTimeout * 9 / 10
)

// Subscriber - часть sync.Servicer, нужная обработчику
type Subscriber interface {
	Subscribe(owner record.SessionID) (<-chan sync.Event, func(), error)
}

// Handler отдает поток изменений записей по websocket
type Handler struct {
	service  Subscriber
	log      *slog.Logger
	upgrader websocket.Upgrader
}

func NewHandler(service Subscriber, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With("component", "changes_handler"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CLI-клиенты не присылают Origin; токен проверяется auth мидлварью
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.GetSessionID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	events, cancel, err := h.service.Subscribe(owner)
	if err != nil {
		h.log.Error("subscribe failed", "owner", owner, "error", err)
		http.Error(w, "change stream unavailable", http.StatusServiceUnavailable)
		return
	}
	defer cancel()

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	metrics.ChangeSubscribers.Inc()
	defer metrics.ChangeSubscribers.Dec()
	h.log.Info("change stream opened", "owner", owner)

	closed := make(chan struct{})
	go h.readLoop(ws, closed)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			h.log.Info("change stream closed by client", "owner", owner)
			return
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				h.writeClose(ws, websocket.CloseGoingAway, "server shutting down")
				return
			}
			ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := ws.WriteJSON(ev); err != nil {
				h.log.Warn("change write failed", "owner", owner, "error", err)
				return
			}
		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop нужен для обработки pong и close фреймов; данные от клиента не ожидаются.
func (h *Handler) readLoop(ws *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	ws.SetReadLimit(512)
	ws.SetReadDeadline(time.Now().Add(pongTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) writeClose(ws *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
}
