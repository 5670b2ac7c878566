// internal/server/handlers/websocket.go

package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"localfeed/internal/adapter/events"
	"localfeed/internal/metrics"
)

// Subscriber is the subset of *nats.Conn used to relay events to websocket clients
type Subscriber interface {
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// WebSocketClient represents a connected feed client
type WebSocketClient struct {
	conn         *websocket.Conn
	send         chan []byte
	done         chan struct{}
	closeOnce    sync.Once
	city         string
	subject      string
	config       WebSocketConfig
	subscription *nats.Subscription
	logger       zerolog.Logger
}

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64

	// Buffered outbound messages per client
	SendBuffer int
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 4096,
		SendBuffer:     64,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origins are enforced by the CORS middleware
		return true
	},
}

// FeedWebSocketHandler streams recommendation events for a city to websocket clients
func FeedWebSocketHandler(subscriber Subscriber, topic string, config WebSocketConfig, logger zerolog.Logger) http.HandlerFunc {
	logger = logger.With().Str("component", "feed_ws").Logger()

	return func(w http.ResponseWriter, r *http.Request) {
		city := chi.URLParam(r, "city")
		if city == "" {
			respondWithError(w, http.StatusBadRequest, "Missing city", nil)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to upgrade to websocket")
			return
		}

		client := &WebSocketClient{
			conn:    conn,
			send:    make(chan []byte, config.SendBuffer),
			done:    make(chan struct{}),
			city:    city,
			subject: events.Subject(topic, city),
			config:  config,
			logger:  logger,
		}

		if err := client.subscribe(subscriber); err != nil {
			logger.Error().Err(err).Str("subject", client.subject).Msg("failed to subscribe to feed")
			conn.Close()
			return
		}

		metrics.WSConnectionsActive.Inc()

		welcome, _ := json.Marshal(map[string]interface{}{
			"type":    "welcome",
			"city":    city,
			"subject": client.subject,
			"time":    time.Now().UTC(),
		})
		client.enqueue(welcome)

		go client.writePump()
		go client.readPump()

		logger.Debug().Str("city", city).Str("subject", client.subject).Msg("feed client connected")
	}
}

// subscribe relays messages on the city subject to the client
func (c *WebSocketClient) subscribe(subscriber Subscriber) error {
	sub, err := subscriber.Subscribe(c.subject, func(msg *nats.Msg) {
		c.enqueue(msg.Data)
	})
	if err != nil {
		return err
	}
	c.subscription = sub
	return nil
}

// enqueue queues a message for the client, dropping it when the client is slow or gone
func (c *WebSocketClient) enqueue(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.logger.Warn().Str("city", c.city).Msg("feed client too slow, dropping event")
	}
}

// readPump keeps the connection alive and detects disconnects; clients do not send data
func (c *WebSocketClient) readPump() {
	defer c.closeConnection()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("websocket error")
			}
			return
		}
	}
}

// writePump pumps queued events to the websocket connection
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case <-c.done:
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// closeConnection closes the websocket connection and cleans up resources
func (c *WebSocketClient) closeConnection() {
	c.closeOnce.Do(func() {
		close(c.done)

		if c.subscription != nil {
			c.subscription.Unsubscribe()
		}

		c.conn.Close()
		metrics.WSConnectionsActive.Dec()

		c.logger.Debug().Str("city", c.city).Msg("feed client disconnected")
	})
}
