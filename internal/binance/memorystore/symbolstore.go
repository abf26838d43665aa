package memorystore

import (
	"sync"

	"pumpdetector/pkg/binance"
)

// MemorySymbolStore keeps base/quote metadata for trading symbols.
type MemorySymbolStore struct {
	mu    sync.RWMutex
	pairs map[string]binance.SymbolPair
}

func NewSymbolStore() *MemorySymbolStore {
	return &MemorySymbolStore{
		pairs: make(map[string]binance.SymbolPair),
	}
}

func (s *MemorySymbolStore) Add(pair binance.SymbolPair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pairs[pair.Symbol] = pair
}

// StartWorker drains ch into the store and returns a channel that is closed
// once ch has been closed and fully consumed.
func (s *MemorySymbolStore) StartWorker(ch <-chan binance.SymbolPair) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for pair := range ch {
			s.Add(pair)
		}
	}()
	return done
}

// Split returns the base and quote assets of symbol, if known.
func (s *MemorySymbolStore) Split(symbol string) (base, quote string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pair, ok := s.pairs[symbol]
	return pair.Base, pair.Quote, ok
}

func (s *MemorySymbolStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pairs)
}
