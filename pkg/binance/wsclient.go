package binance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSClient handles the WebSocket connection to Binance and message routing.
type WSClient struct {
	url            string
	streams        []string
	reconnectDelay time.Duration
	handler        func([]byte)
	logger         *zap.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID int64
}

// NewWSClient creates a client for the given endpoint that subscribes to streams on connect.
func NewWSClient(url string, streams []string, reconnectDelay time.Duration, logger *zap.Logger) *WSClient {
	if reconnectDelay <= 0 {
		reconnectDelay = 3 * time.Second
	}
	return &WSClient{
		url:            url,
		streams:        streams,
		reconnectDelay: reconnectDelay,
		logger:         logger,
	}
}

// SetMessageHandler sets the function to handle incoming messages.
func (c *WSClient) SetMessageHandler(h func([]byte)) {
	c.handler = h
}

// Connect establishes the WebSocket connection and subscribes to the
// configured streams. It does not start the listener.
func (c *WSClient) Connect(ctx context.Context) error {
	if err := c.dialAndSubscribe(ctx); err != nil {
		c.logger.Error("failed to connect to WebSocket", zap.String("url", c.url), zap.Error(err))
		return err
	}
	c.logger.Info("WebSocket connected", zap.String("url", c.url), zap.Strings("streams", c.streams))
	return nil
}

// Listen reads messages until ctx is done, reconnecting and resubscribing
// after any read error.
func (c *WSClient) Listen(ctx context.Context) {
	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
	defer stop()

	for {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()

		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("WebSocket listener stopped")
				return
			}
			c.logger.Error("WebSocket read error", zap.Error(err))

			// Retry reconnecting until it works or we are told to stop
			for {
				select {
				case <-ctx.Done():
					return
				case <-time.After(c.reconnectDelay):
				}
				if err := c.dialAndSubscribe(ctx); err != nil {
					c.logger.Warn("retrying reconnect...", zap.Error(err))
					continue
				}
				c.logger.Info("reconnected successfully")
				break
			}
			continue
		}

		if c.handler != nil {
			c.handler(msg)
		}
	}
}

func (c *WSClient) dialAndSubscribe(ctx context.Context) error {
	newConn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("websocket dial failed: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ctx.Err() != nil {
		_ = newConn.Close()
		return ctx.Err()
	}

	// Close the old connection if it exists
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.conn = newConn

	if len(c.streams) == 0 {
		return nil
	}

	c.nextID++
	sub := SubscribeRequest{Method: "SUBSCRIBE", Params: c.streams, ID: c.nextID}
	if err := c.conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("websocket subscribe failed: %w", err)
	}
	return nil
}

// Close closes the current connection.
func (c *WSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
