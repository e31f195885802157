package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/townsquare/internal/application"
	"github.com/SARVESHVARADKAR123/townsquare/internal/middleware"
	"github.com/SARVESHVARADKAR123/townsquare/internal/observability"
	"github.com/SARVESHVARADKAR123/townsquare/internal/realtime"
	"github.com/SARVESHVARADKAR123/townsquare/internal/transport"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxClientFrame = 512
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamHandler serves realtime feeds over websockets. Each frame is one
// JSON encoded event.
type StreamHandler struct {
	app *application.Service
}

func NewStreamHandler(app *application.Service) *StreamHandler {
	return &StreamHandler{app: app}
}

func (h *StreamHandler) Messages(w http.ResponseWriter, r *http.Request) {
	sub, err := h.app.SubscribeToMessages(r.Context(), chi.URLParam(r, "conversationID"), middleware.UserID(r.Context()))
	if err != nil {
		transport.Error(w, r, err)
		return
	}
	serveStream(w, r, "messages", sub, toMessage)
}

func (h *StreamHandler) ReadPositions(w http.ResponseWriter, r *http.Request) {
	sub, err := h.app.SubscribeToReadReceipts(r.Context(), chi.URLParam(r, "conversationID"), middleware.UserID(r.Context()))
	if err != nil {
		transport.Error(w, r, err)
		return
	}
	serveStream(w, r, "read_positions", sub, toReadPosition)
}

func (h *StreamHandler) Comments(w http.ResponseWriter, r *http.Request) {
	sub, err := h.app.SubscribeToComments(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		transport.Error(w, r, err)
		return
	}
	serveStream(w, r, "comments", sub, toComment)
}

// serveStream upgrades the connection and forwards events until the client
// goes away or the subscription ends. It owns sub.
func serveStream[T, R any](w http.ResponseWriter, r *http.Request, stream string, sub *realtime.Subscription[T], convert func(T) R) {
	defer sub.Unsubscribe()

	log := observability.GetLogger(r.Context()).With(
		zap.String("stream", stream),
		zap.String("user_id", middleware.UserID(r.Context())),
	)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("upgrade error", zap.Error(err))
		return
	}
	defer conn.Close()

	observability.WebSocketConnections.WithLabelValues(stream).Inc()
	defer observability.WebSocketConnections.WithLabelValues(stream).Dec()
	log.Info("stream opened")

	clientGone := readUntilClosed(conn)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				closeStream(conn, websocket.CloseGoingAway, "stream ended")
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(convert(ev)); err != nil {
				log.Warn("write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-clientGone:
			log.Info("stream closed by client")
			return
		}
	}
}

// readUntilClosed drains client frames so control frames are handled and
// reports when the connection is gone.
func readUntilClosed(conn *websocket.Conn) <-chan struct{} {
	done := make(chan struct{})

	conn.SetReadLimit(maxClientFrame)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
					observability.GetLogger(context.Background()).Debug("stream read error", zap.Error(err))
				}
				return
			}
		}
	}()
	return done
}

func closeStream(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
