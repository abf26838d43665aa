package memorystore

import (
	"testing"
	"time"

	"pumpdetector/pkg/binance"

	"github.com/stretchr/testify/assert"
)

// go test -v --run TestSymbolStoreWorker
func TestSymbolStoreWorker(t *testing.T) {
	store := NewSymbolStore()

	ch := make(chan binance.SymbolPair, 2)
	done := store.StartWorker(ch)
	ch <- binance.SymbolPair{Symbol: "ETHBTC", Base: "ETH", Quote: "BTC"}
	ch <- binance.SymbolPair{Symbol: "1000SATSUSDT", Base: "1000SATS", Quote: "USDT"}
	close(ch)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not finish")
	}

	assert.Equal(t, 2, store.Count())

	base, quote, ok := store.Split("ETHBTC")
	assert.True(t, ok)
	assert.Equal(t, "ETH", base)
	assert.Equal(t, "BTC", quote)

	_, _, ok = store.Split("NOPE")
	assert.False(t, ok)
}
