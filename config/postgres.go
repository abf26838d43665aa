package config

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// PostgresConfig defines the configuration for the alert audit database.
type PostgresConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`

	Retention time.Duration `mapstructure:"retention"` // alerts older than this are pruned daily; 0 keeps everything
}

// Parameter Store names holding production credentials.
const (
	ssmDBHost     = "PUMP_DETECTOR_DB_HOST"
	ssmDBUser     = "PUMP_DETECTOR_DB_USER"
	ssmDBPassword = "PUMP_DETECTOR_DB_PASSWORD"
)

// ParameterGetter resolves a named secret. An empty string means "not found".
type ParameterGetter func(ctx context.Context, name string, decrypt bool) string

// DSN builds a libpq connection string. In "prod" the host, user and password
// come from AWS SSM Parameter Store instead of the config file.
func (cfg *PostgresConfig) DSN(env string) string {
	return cfg.dsn(env, getParameterStoreValue)
}

// AdminDSN targets the server's maintenance database so that the configured
// database can be created if it does not exist yet.
func (cfg *PostgresConfig) AdminDSN(env string) string {
	admin := *cfg
	admin.DBName = "postgres"
	return admin.dsn(env, getParameterStoreValue)
}

func (cfg *PostgresConfig) dsn(env string, lookup ParameterGetter) string {
	host, user, password := cfg.Host, cfg.User, cfg.Password

	if env == "prod" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		host = lookup(ctx, ssmDBHost, true)
		user = lookup(ctx, ssmDBUser, true)
		password = lookup(ctx, ssmDBPassword, true)
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, cfg.Port, user, password, cfg.DBName, cfg.SSLMode,
	)

	if cfg.TimeZone != "" {
		dsn += fmt.Sprintf(" TimeZone=%s", cfg.TimeZone)
	}

	return dsn
}

func getParameterStoreValue(ctx context.Context, parameterName string, decrypt bool) string {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return ""
	}

	client := ssm.NewFromConfig(cfg)

	input := &ssm.GetParameterInput{
		Name:           &parameterName,
		WithDecryption: &decrypt,
	}

	result, err := client.GetParameter(ctx, input)
	if err != nil {
		return ""
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return ""
	}

	return *result.Parameter.Value
}
