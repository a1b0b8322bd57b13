package websocket

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 << 10
	sendBufferSize = 256
)

// Client is one live websocket connection. Its ID is the connection ID the
// whole coordinator keys on.
type Client struct {
	id     string
	conn   *websocket.Conn
	server *Server
	send   chan []byte
}

func newClient(conn *websocket.Conn, server *Server) *Client {
	return &Client{
		id:     uuid.New().String(),
		conn:   conn,
		server: server,
		send:   make(chan []byte, sendBufferSize),
	}
}

func (that *Client) readPump() {
	defer func() {
		that.server.drop(that)
		_ = that.conn.Close()
	}()

	that.conn.SetReadLimit(maxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := that.conn.ReadMessage()
		if err != nil {
			return
		}
		_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))

		that.server.dispatch(that.id, raw)
	}
}

func (that *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := that.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
