package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. It is resolved once in
// the root command and threaded explicitly into constructors; nothing else
// reads the environment.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Sheets SheetsConfig `yaml:"sheets" mapstructure:"sheets"`
	View   ViewConfig   `yaml:"view" mapstructure:"view"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig selects and configures the observation log backend.
type StoreConfig struct {
	Driver      string     `yaml:"driver" mapstructure:"driver"`
	CSVPath     string     `yaml:"csv_path" mapstructure:"csv_path"`
	DatabaseURL string     `yaml:"database_url" mapstructure:"database_url"`
	Pool        PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// PoolConfig holds optional Postgres connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// SheetsConfig holds the remote spreadsheet backend settings. A non-empty
// DocID is what flips the auto driver to the remote backend. Credentials
// are a service-account key, inline or by file path.
type SheetsConfig struct {
	DocID           string `yaml:"doc_id" mapstructure:"doc_id"`
	Worksheet       string `yaml:"worksheet" mapstructure:"worksheet"`
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file"`
	CredentialsJSON string `yaml:"credentials_json" mapstructure:"credentials_json"`
}

// ViewConfig configures presentation derivations.
type ViewConfig struct {
	// MinSeriesDates is the minimum distinct observation dates a player
	// needs before charting; 1 keeps every player.
	MinSeriesDates int `yaml:"min_series_dates" mapstructure:"min_series_dates"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("QUOTES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	for key, val := range Defaults() {
		v.SetDefault(key, val)
	}

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Defaults lists every configuration key with its default value. The
// config init command renders the same map into a starter file.
func Defaults() map[string]any {
	return map[string]any{
		"store.driver":            "auto",
		"store.csv_path":          "data/quotes.csv",
		"store.database_url":      "",
		"store.pool.max_conns":    10,
		"store.pool.min_conns":    2,
		"sheets.doc_id":           "",
		"sheets.worksheet":        "quotes",
		"sheets.credentials_file": "",
		"sheets.credentials_json": "",
		"view.min_series_dates":   2,
		"server.port":             8080,
		"log.level":               "info",
		"log.format":              "json",
	}
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
