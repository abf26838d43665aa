package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Detector DetectorConfig `mapstructure:"detector"`
	Binance  BinanceConfig  `mapstructure:"binance"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Log      LogConfig      `mapstructure:"log"`
}

// DetectorConfig holds the tunables of the windowed pump detector.
type DetectorConfig struct {
	ThresholdPercent float64  `mapstructure:"threshold_percent"`  // minimum percentDiff to alert
	RearmDelta       float64  `mapstructure:"rearm_delta"`        // growth needed before a symbol alerts again
	WindowLimitTicks int      `mapstructure:"window_limit_ticks"` // batches per window before reset
	TargetChannels   []string `mapstructure:"target_channels"`    // delivery destinations
	QueueSize        int      `mapstructure:"queue_size"`         // batches buffered ahead of the detector
}

type BinanceConfig struct {
	REST RESTConfig `mapstructure:"rest"`
	WS   WSConfig   `mapstructure:"ws"`
}

type RESTConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type WSConfig struct {
	URL            string        `mapstructure:"url"`
	Stream         string        `mapstructure:"stream"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
}

// FeedConfig selects where ticker batches come from: "ws" or "rest".
type FeedConfig struct {
	Mode         string        `mapstructure:"mode"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type NotifyConfig struct {
	EmphasisPercent float64       `mapstructure:"emphasis_percent"`
	QueueSize       int           `mapstructure:"queue_size"`
	SendTimeout     time.Duration `mapstructure:"send_timeout"`
}

type TelegramConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Token   string        `mapstructure:"token"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Channel  string        `mapstructure:"channel"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// Options defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
}

// Load loads application configuration using Viper.
// It reads from config.yaml and overrides with environment variables.
// A missing config file is not an error; defaults cover every key.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config") // config.yaml
	v.SetConfigType("yaml")

	ex, _ := os.Executable()
	if strings.Contains(ex, "go-build") {
		pwd, _ := os.Getwd()
		v.AddConfigPath(filepath.Join(pwd, "../../config"))
	} else {
		v.AddConfigPath(filepath.Join(filepath.Dir(ex), "../config"))
	}
	v.AddConfigPath("./config")

	// Support environment variables with dot notation (e.g., DETECTOR_THRESHOLD_PERCENT)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("detector.threshold_percent", 7.5)
	v.SetDefault("detector.rearm_delta", 5.0)
	v.SetDefault("detector.window_limit_ticks", 300)
	v.SetDefault("detector.target_channels", []string{"@pump_detect"})
	v.SetDefault("detector.queue_size", 16)

	v.SetDefault("binance.rest.base_url", "https://api.binance.com")
	v.SetDefault("binance.rest.timeout", 10*time.Second)
	v.SetDefault("binance.ws.url", "wss://stream.binance.com:9443/ws")
	v.SetDefault("binance.ws.stream", "!ticker@arr")
	v.SetDefault("binance.ws.reconnect_delay", 3*time.Second)

	v.SetDefault("feed.mode", "ws")
	v.SetDefault("feed.poll_interval", time.Second)

	v.SetDefault("notify.emphasis_percent", 20.0)
	v.SetDefault("notify.queue_size", 256)
	v.SetDefault("notify.send_timeout", 5*time.Second)

	v.SetDefault("telegram.enabled", true)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.base_url", "https://api.telegram.org")
	v.SetDefault("telegram.timeout", 10*time.Second)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "pump.alerts")
	v.SetDefault("redis.ttl", time.Hour)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "pump_alerts")

	v.SetDefault("postgres.enabled", false)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.dbname", "pumpdetector")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.timezone", "UTC")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime", time.Hour)
	v.SetDefault("postgres.retention", 30*24*time.Hour)

	v.SetDefault("http.addr", ":8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_file", "")
	v.SetDefault("log.environment", "dev")
}

// Validate rejects settings the detector cannot run with.
func (c *Config) Validate() error {
	if c.Detector.WindowLimitTicks <= 0 {
		return fmt.Errorf("detector.window_limit_ticks must be positive, got %d", c.Detector.WindowLimitTicks)
	}
	if c.Detector.RearmDelta < 0 {
		return fmt.Errorf("detector.rearm_delta must not be negative, got %v", c.Detector.RearmDelta)
	}
	if len(c.Detector.TargetChannels) == 0 {
		return fmt.Errorf("detector.target_channels cannot be empty")
	}
	switch c.Feed.Mode {
	case "ws", "rest":
	default:
		return fmt.Errorf("feed.mode must be \"ws\" or \"rest\", got %q", c.Feed.Mode)
	}
	if c.Telegram.Enabled && c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required when telegram is enabled")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka brokers cannot be empty")
	}
	return nil
}
