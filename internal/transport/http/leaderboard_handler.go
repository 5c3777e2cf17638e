package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"logicquest/internal/domain"
)

// LeaderboardSource is what the handler needs from app.LeaderboardFeed.
type LeaderboardSource interface {
	Current() domain.Leaderboard
	Subscribe() (<-chan domain.Leaderboard, func())
}

type LeaderboardHandler struct {
	feed      LeaderboardSource
	log       *zap.Logger
	upgrader  websocket.Upgrader
	pingEvery time.Duration
}

func NewLeaderboardHandler(feed LeaderboardSource, log *zap.Logger) *LeaderboardHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LeaderboardHandler{
		feed: feed,
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery: 30 * time.Second,
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// Routes mounts the leaderboard endpoints and a health check.
func (h *LeaderboardHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/leaderboard", h.ServeLeaderboard)
	mux.HandleFunc("/ws", h.ServeWS)
	return mux
}

// ServeLeaderboard returns the current top scores as JSON.
func (h *LeaderboardHandler) ServeLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.feed.Current()); err != nil {
		h.log.Warn("encode leaderboard", zap.Error(err))
	}
}

// ServeWS upgrades to a websocket and streams leaderboard snapshots until the client goes away.
func (h *LeaderboardHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := h.feed.Subscribe()
	defer cancel()

	// the read loop only notices close frames and dead peers
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(h.pingEvery)
	defer ping.Stop()

	for {
		select {
		case lb, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage[domain.Leaderboard]{Type: "leaderboard", Payload: lb}); err != nil {
				h.log.Debug("ws write error", zap.Error(err))
				return
			}
		case <-ping.C:
			deadline := time.Now().Add(5 * time.Second)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case <-readerDone:
			return
		case <-r.Context().Done():
			return
		}
	}
}
