package stream

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type wsConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
}

func RegisterRoutes(r fiber.Router, hub *Hub) {
	r.Get("/ws/:workspace", websocket.New(func(c *websocket.Conn) {
		serveClient(hub, c, c.Params("workspace"))
	}))
}

// serveClient pumps hub events to the connection until the peer goes
// away. Unregister runs before waiting on the writer: it closes the send
// channel, so a quiet workspace cannot strand the writer in its loop.
func serveClient(hub *Hub, conn wsConn, workspace string) {
	client := hub.Register(workspace)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range client.Send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	hub.Unregister(client)
	<-done
}
