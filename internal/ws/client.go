package ws

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/JonasdeSouza/rusty-weather/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxInboundMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one open dashboard connection. It is owned by the hub; the
// ingest loop only ever sees the hub's Broadcast method.
type Client struct {
	id    string
	hub   *Hub
	conn  *websocket.Conn
	send  chan models.ReadingEvent
	topic string

	// lastSeq tracks the newest sequence delivered per topic so duplicate or
	// out-of-order events are dropped before hitting the socket.
	lastSeq map[string]uint64
}

// wants reports whether the client subscribed to the given topic. An empty
// filter means every topic.
func (c *Client) wants(topic string) bool {
	return c.topic == "" || c.topic == topic
}

// Serve upgrades an HTTP request to a WebSocket viewer connection and
// registers it with the hub. topic optionally restricts pushes to a single
// sensor topic; buffer bounds the per-viewer delivery queue.
func Serve(hub *Hub, w http.ResponseWriter, r *http.Request, topic string, buffer int) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		id:      uuid.NewString(),
		hub:     hub,
		conn:    conn,
		send:    make(chan models.ReadingEvent, buffer),
		topic:   topic,
		lastSeq: make(map[string]uint64),
	}
	hub.Register(client)
	log.Info().Str("viewer", client.id).Str("topic", topic).Msg("viewer connected")

	go client.writePump()
	go client.readPump()
}

// readPump discards inbound frames and detects disconnects. Its exit drives
// unregistration, so delivery resources are freed promptly on close.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		log.Info().Str("viewer", c.id).Msg("viewer disconnected")
	}()

	c.conn.SetReadLimit(maxInboundMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("viewer", c.id).Msg("viewer read error")
			}
			return
		}
	}
}

// writePump drains the delivery queue onto the socket and keeps the
// connection alive with pings. A write failure ends the pump; closing the
// connection then unblocks readPump, which unregisters the client.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub dropped us.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if last, seen := c.lastSeq[event.Reading.Topic]; seen && event.Seq <= last {
				continue
			}
			c.lastSeq[event.Reading.Topic] = event.Seq
			if err := c.conn.WriteJSON(event.Reading.Payload()); err != nil {
				log.Debug().Err(err).Str("viewer", c.id).Msg("viewer write error")
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
