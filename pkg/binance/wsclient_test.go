package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// go test -v --run TestWSClientSubscribeAndReceive
func TestWSClientSubscribeAndReceive(t *testing.T) {
	subs := make(chan SubscribeRequest, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var req SubscribeRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		subs <- req

		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"result":null,"id":1}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`[{"s":"BTCUSDT","c":"1"}]`))

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	var mu sync.Mutex
	var received []string

	client := NewWSClient(wsURL, []string{"!ticker@arr"}, 50*time.Millisecond, zap.NewNop())
	client.SetMessageHandler(func(msg []byte) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, string(msg))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, client.Connect(ctx))

	select {
	case req := <-subs:
		assert.Equal(t, "SUBSCRIBE", req.Method)
		assert.Equal(t, []string{"!ticker@arr"}, req.Params)
	case <-time.After(2 * time.Second):
		t.Fatal("no subscription received")
	}

	done := make(chan struct{})
	go func() {
		client.Listen(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop after cancel")
	}
}

// go test -v --run TestWSClientReconnect
func TestWSClientReconnect(t *testing.T) {
	var mu sync.Mutex
	connections := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		mu.Lock()
		connections++
		n := connections
		mu.Unlock()

		var req SubscribeRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		if n == 1 {
			return // drop the first connection right after subscribing
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`[]`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	got := make(chan struct{}, 1)
	client := NewWSClient(wsURL, []string{"!ticker@arr"}, 20*time.Millisecond, zap.NewNop())
	client.SetMessageHandler(func([]byte) {
		select {
		case got <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, client.Connect(ctx))
	go client.Listen(ctx)

	select {
	case <-got:
	case <-time.After(3 * time.Second):
		t.Fatal("no message after reconnect")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, connections, 2)
}

// go test -v --run TestWSClientConnectFails
func TestWSClientConnectFails(t *testing.T) {
	client := NewWSClient("ws://127.0.0.1:1", nil, time.Millisecond, zap.NewNop())
	assert.Error(t, client.Connect(context.Background()))
}
