package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"pumpdetector/internal/pump"
	"pumpdetector/pkg/storage/postgres"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleAlert = pump.Alert{
	Symbol:           "ETHBTC",
	PercentDiff:      8,
	PriceFrom:        0.05,
	PriceTo:          0.055,
	DayChangePercent: 9,
	SecondsElapsed:   2,
	DetectedAt:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
}

// go test -v --run TestRedisSink
func TestRedisSink(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, "pump.alerts")
	defer sub.Close()
	_, err := sub.Receive(ctx) // wait for the subscription confirmation
	require.NoError(t, err)

	sink := NewRedisSink(rdb, "pump.alerts", time.Hour)
	require.NoError(t, sink.Send(ctx, nil, sampleAlert))

	stored, err := mr.Get("pump:alert:ETHBTC")
	require.NoError(t, err)

	var decoded pump.Alert
	require.NoError(t, json.Unmarshal([]byte(stored), &decoded))
	assert.Equal(t, sampleAlert, decoded)
	assert.Equal(t, time.Hour, mr.TTL("pump:alert:ETHBTC"))

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, stored, msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("no message published")
	}
}

// go test -v --run TestRedisSinkDown
func TestRedisSinkDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	err := NewRedisSink(rdb, "pump.alerts", time.Hour).Send(context.Background(), nil, sampleAlert)
	assert.Error(t, err)
}

type mockKafkaWriter struct {
	messages []kafka.Message
	err      error
}

func (m *mockKafkaWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	m.messages = append(m.messages, msgs...)
	return m.err
}

func (m *mockKafkaWriter) Close() error { return nil }

// go test -v --run TestKafkaSink
func TestKafkaSink(t *testing.T) {
	w := &mockKafkaWriter{}
	sink := NewKafkaSink(w)

	require.NoError(t, sink.Send(context.Background(), nil, sampleAlert))
	require.Len(t, w.messages, 1)
	assert.Equal(t, []byte("ETHBTC"), w.messages[0].Key)
	assert.Equal(t, sampleAlert.DetectedAt, w.messages[0].Time)

	var decoded pump.Alert
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &decoded))
	assert.Equal(t, 8.0, decoded.PercentDiff)

	w.err = errors.New("leader not available")
	assert.Error(t, sink.Send(context.Background(), nil, sampleAlert))
}

type fakeAlertStore struct {
	records []*postgres.AlertRecord
}

func (f *fakeAlertStore) InsertAlert(_ context.Context, r *postgres.AlertRecord) error {
	f.records = append(f.records, r)
	return nil
}

// go test -v --run TestPostgresSink
func TestPostgresSink(t *testing.T) {
	store := &fakeAlertStore{}
	sink := NewPostgresSink(store)

	require.NoError(t, sink.Send(context.Background(), []string{"@pump_detect"}, sampleAlert))
	require.Len(t, store.records, 1)
	assert.Equal(t, "ETHBTC", store.records[0].Symbol)
	assert.Equal(t, "@pump_detect", store.records[0].Channels)
	assert.Equal(t, 2, store.records[0].ElapsedSeconds)
}
