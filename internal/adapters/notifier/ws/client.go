package ws

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 32
)

// Client is one live websocket connection. Viewers drive room membership
// with join-poll / leave-poll messages, mirroring the browser protocol.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// rooms and closed are guarded by the hub mutex.
	rooms  map[uuid.UUID]struct{}
	closed bool
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:   hub,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		rooms: make(map[uuid.UUID]struct{}),
	}
}

type clientMessage struct {
	Event  string `json:"event"`
	PollID string `json:"poll_id"`
}

// readPump consumes membership messages until the connection drops, then
// detaches the client from the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg clientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		pollID, err := uuid.Parse(msg.PollID)
		if err != nil {
			continue
		}

		switch msg.Event {
		case "join-poll":
			c.hub.Subscribe(c, pollID)
		case "leave-poll":
			c.hub.Unsubscribe(c, pollID)
		}
	}
}

// writePump serializes all writes to the connection: broadcast events from
// the send channel plus keepalive pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
