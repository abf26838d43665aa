package collector

import (
	"context"
	"fmt"
	"time"

	"pumpdetector/config"
	"pumpdetector/internal/binance/memorystore"
	"pumpdetector/internal/binance/snapshot"
	"pumpdetector/internal/binance/stream"
	"pumpdetector/internal/binance/symbolmeta"
	"pumpdetector/internal/notify"
	"pumpdetector/internal/observability"
	"pumpdetector/internal/pump"
	"pumpdetector/internal/server"
	"pumpdetector/pkg/binance"
	"pumpdetector/pkg/storage/postgres"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StartDetector wires the Binance ticker feed into the pump detector and its
// alert sinks, then serves the ops endpoints until ctx is done.
func StartDetector(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	metrics := observability.NewMetrics(prometheus.NewRegistry())

	restClient := binance.NewRESTClient(cfg.Binance.REST.BaseURL, cfg.Binance.REST.Timeout)

	// Symbol metadata, refreshed at every UTC midnight
	symbolStore := memorystore.NewSymbolStore()
	loader := &symbolmeta.MidnightLoader{
		Load: symbolmeta.DefaultLoadFn(&snapshot.SymbolLoader{
			Fetcher: restClient,
			Timeout: cfg.Binance.REST.Timeout,
			Logger:  logger,
		}),
		Logger: logger,
	}
	loader.Start(ctx, func(ch <-chan binance.SymbolPair) {
		<-symbolStore.StartWorker(ch)
		metrics.SetKnownSymbols(symbolStore.Count())
		logger.Info("symbol metadata loaded", zap.Int("count", symbolStore.Count()))
	})

	set, err := buildSinks(cfg, symbolStore, logger)
	if err != nil {
		return err
	}
	defer set.close()

	if set.alerts != nil && cfg.Postgres.Retention > 0 {
		go runRetention(ctx, set.alerts, cfg.Postgres.Retention, 24*time.Hour, logger)
	}

	broadcaster := notify.NewBroadcaster(set.sinks, cfg.Notify.QueueSize, cfg.Notify.SendTimeout, logger, metrics)
	go broadcaster.Run(ctx)
	// Sinks close only after the broadcaster has finished its last send.
	defer func() {
		cancel()
		<-broadcaster.Done()
	}()

	detector := pump.NewDetector(pump.Config{
		ThresholdPercent: cfg.Detector.ThresholdPercent,
		RearmDelta:       cfg.Detector.RearmDelta,
		WindowLimitTicks: cfg.Detector.WindowLimitTicks,
		TargetChannels:   cfg.Detector.TargetChannels,
	}, broadcaster, logger, pump.WithRecorder(metrics))

	runner := pump.NewRunner(detector, cfg.Detector.QueueSize, logger)
	go runner.Run(ctx)

	if err := startFeed(ctx, cfg, restClient, runner, logger); err != nil {
		return err
	}

	srv := server.New(cfg.HTTP.Addr, runner, metrics.Handler(), set.checks, logger)
	if set.alerts != nil {
		srv.EnableAlerts(set.alerts)
	}
	return srv.Run(ctx)
}

// startFeed begins pushing ticker batches into sub from the configured source.
func startFeed(ctx context.Context, cfg *config.Config, restClient *binance.RESTClient, sub stream.Submitter, logger *zap.Logger) error {
	switch cfg.Feed.Mode {
	case "rest":
		poller := stream.NewPoller(restClient, sub, cfg.Feed.PollInterval, cfg.Binance.REST.Timeout, logger)
		go poller.Run(ctx)
		logger.Info("polling tickers over REST", zap.Duration("interval", cfg.Feed.PollInterval))
		return nil
	default:
		wsClient := binance.NewWSClient(cfg.Binance.WS.URL, []string{cfg.Binance.WS.Stream}, cfg.Binance.WS.ReconnectDelay, logger)
		wsClient.SetMessageHandler(stream.MakeMessageHandler(ctx, logger, sub))

		if err := wsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect ticker stream: %w", err)
		}
		go wsClient.Listen(ctx)
		return nil
	}
}

// sinkSet holds every enabled alert sink and the resources behind them.
type sinkSet struct {
	sinks   []notify.Sink
	checks  map[string]server.HealthCheck
	alerts  *postgres.PostgresClient // nil unless the audit store is enabled
	closers []func() error
	logger  *zap.Logger
}

// close releases sink connections.
func (s *sinkSet) close() {
	for _, c := range s.closers {
		if err := c(); err != nil {
			s.logger.Warn("failed to close sink", zap.Error(err))
		}
	}
}

// buildSinks creates every enabled alert sink.
func buildSinks(cfg *config.Config, pairs notify.PairSplitter, logger *zap.Logger) (*sinkSet, error) {
	set := &sinkSet{
		checks: make(map[string]server.HealthCheck),
		logger: logger,
	}

	if cfg.Telegram.Enabled {
		b, err := notify.NewTelegramBot(cfg.Telegram.BaseURL, cfg.Telegram.Token, cfg.Telegram.Timeout)
		if err != nil {
			return nil, err
		}
		formatter := notify.Formatter{Pairs: pairs, EmphasisPercent: cfg.Notify.EmphasisPercent}
		set.sinks = append(set.sinks, notify.NewTelegramSink(b, formatter))
	}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		set.closers = append(set.closers, rdb.Close)
		set.checks["redis"] = func(ctx context.Context) bool { return rdb.Ping(ctx).Err() == nil }
		set.sinks = append(set.sinks, notify.NewRedisSink(rdb, cfg.Redis.Channel, cfg.Redis.TTL))
	}

	if cfg.Kafka.Enabled {
		w := notify.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		set.closers = append(set.closers, w.Close)
		set.sinks = append(set.sinks, notify.NewKafkaSink(w))
	}

	if cfg.Postgres.Enabled {
		client, err := postgres.InitializeAndMigrateAlertRecord(cfg.Postgres, cfg.Log.Environment, true)
		if err != nil {
			set.close()
			return nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		set.closers = append(set.closers, client.Close)
		set.checks["postgres"] = client.IsHealthy
		set.alerts = client
		set.sinks = append(set.sinks, notify.NewPostgresSink(client))
	}

	names := make([]string, 0, len(set.sinks))
	for _, s := range set.sinks {
		names = append(names, s.Name())
	}
	logger.Info("alert sinks ready", zap.Strings("sinks", names))

	return set, nil
}
