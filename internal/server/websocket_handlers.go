package server

import (
	"time"

	"bizsite/internal/middleware"
	"bizsite/internal/observability"
	"bizsite/internal/requestlog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	feedBuffer       = 64
	feedWriteTimeout = 5 * time.Second
	feedPingInterval = 30 * time.Second
)

type feedMessage struct {
	Type  string             `json:"type"`
	Entry *requestlog.Entry  `json:"entry,omitempty"`
	Stats *requestlog.Stats  `json:"stats,omitempty"`
	Batch []requestlog.Entry `json:"batch,omitempty"`
}

// requestFeedUpgrade rejects plain HTTP requests to the feed endpoint.
func (s *Server) requestFeedUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	c.Locals("after", c.QueryInt("after", -1))
	return c.Next()
}

// RequestFeedHandler streams request log entries to an admin. The client may
// pass ?after=<seq> to receive missed entries first.
func (s *Server) RequestFeedHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		observability.RequestFeedClients.Inc()
		defer observability.RequestFeedClients.Dec()

		userID, _ := conn.Locals(middleware.LocalUserID).(uint)
		middleware.Logger.Info("request feed connected", "user_id", userID)
		defer middleware.Logger.Info("request feed disconnected", "user_id", userID)

		entries, cancel := s.requests.Subscribe(feedBuffer)
		defer cancel()

		stats := s.requests.Stats(10)
		hello := feedMessage{Type: "hello", Stats: &stats}
		if after, ok := conn.Locals("after").(int); ok && after >= 0 {
			hello.Batch = s.requests.After(uint64(after))
		}
		if err := writeFeed(conn, hello); err != nil {
			return
		}

		// The reader only detects the client going away.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ping := time.NewTicker(feedPingInterval)
		defer ping.Stop()

		for {
			select {
			case <-closed:
				return
			case e, ok := <-entries:
				if !ok {
					return
				}
				if err := writeFeed(conn, feedMessage{Type: "request", Entry: &e}); err != nil {
					return
				}
			case <-ping.C:
				_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	})
}

func writeFeed(conn *websocket.Conn, msg feedMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
	return conn.WriteJSON(msg)
}
