package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs handles a websocket connection. Session binding happens later via
// join-session events, so connections start unbound.
func ServeWs(hub *Hub, c *websocket.Conn) {
	client := &Client{Hub: hub, Conn: c, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
