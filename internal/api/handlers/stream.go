package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jslee/stockpick/internal/contracts"
	"github.com/jslee/stockpick/internal/snapshot"
	"github.com/jslee/stockpick/pkg/logger"
)

// StreamHandler pushes snapshot publish events over WebSocket
// ⭐ SSOT: 실시간 스냅샷 스트림은 이 구조체에서만
type StreamHandler struct {
	store    *snapshot.Store
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(store *snapshot.Store, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		store: store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// 프론트엔드가 별도 오리진에서 접속함
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: log,
	}
}

// streamEvent is one message pushed to stream clients.
// 전체 스냅샷이 아니라 요약만 보낸다 — 상세는 REST로 조회.
type streamEvent struct {
	Type        string                `json:"type"`
	GeneratedAt time.Time             `json:"generated_at"`
	Engine      string                `json:"engine"`
	Summary     contracts.PassSummary `json:"summary"`
}

// Serve upgrades the connection and pushes an event per published snapshot
// GET /api/stream
func (h *StreamHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	h.logger.WithField("remote", conn.RemoteAddr().String()).Info("Stream client connected")

	sub := h.store.Subscribe()
	defer h.store.Unsubscribe(sub)

	// 접속 즉시 현재 상태를 한 번 내려준다
	if snap, ok := h.store.Current(); ok {
		if err := writeEvent(conn, "snapshot", snap); err != nil {
			return
		}
	}

	// 읽기 펌프: 클라이언트 종료 감지용
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case snap := <-sub:
			if err := writeEvent(conn, "snapshot", snap); err != nil {
				h.logger.WithError(err).Debug("Stream write failed, closing")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-done:
			h.logger.Info("Stream client disconnected")
			return
		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(conn *websocket.Conn, eventType string, snap *contracts.Snapshot) error {
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(streamEvent{
		Type:        eventType,
		GeneratedAt: snap.GeneratedAt,
		Engine:      snap.Engine,
		Summary:     snap.Summary,
	})
}
