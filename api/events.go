package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/prati1/file-tree-render/internal/util"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// events serves GET /events: a websocket pushing one JSON object per store
// mutation. The subscription lives for the lifetime of the connection.
func (s *Server) events(c *gin.Context) {
	logger := util.GetLogger("api.events")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error().Err(err).Msg("Websocket upgrade failed")
		return
	}

	subID, ch := s.store.Subscribe()
	logger.Debug().Str("subscriber", subID).Msg("Event stream opened")
	defer func() {
		s.store.Unsubscribe(subID)
		conn.Close()
		logger.Debug().Str("subscriber", subID).Msg("Event stream closed")
	}()

	// drain reads so we notice the client going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				logger.Debug().Err(err).Str("subscriber", subID).Msg("Write failed, dropping stream")
				return
			}
		case <-done:
			return
		}
	}
}
