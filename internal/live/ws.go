package live

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// pages are served from this same origin; local tooling connects too
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades the request, registers the client, and sends a welcome
// frame. Incoming messages are ignored.
func WSHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			_ = c.Error(err)
			return
		}

		// welcome goes out before Add so it never races a broadcast write
		_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
		_ = ws.WriteJSON(Event{Type: TypeWelcome, Clients: hub.Count() + 1, At: time.Now().UTC()})

		hub.Add(ws)
		hub.log.Debug().Str("remote", ws.RemoteAddr().String()).Msg("client connected")

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.Remove(ws)
		hub.log.Debug().Str("remote", ws.RemoteAddr().String()).Msg("client disconnected")
	}
}
