package config

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/ehr/hospital/internal/platform/persistence"
)

type Config struct {
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	StoreBackend      string `mapstructure:"STORE_BACKEND"`
	DataDir           string `mapstructure:"DATA_DIR"`
	SQLitePath        string `mapstructure:"SQLITE_PATH"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DBMaxConns        int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns        int32  `mapstructure:"DB_MIN_CONNS"`
	IDScheme          string `mapstructure:"ID_SCHEME"`
	MetricsFile       string `mapstructure:"METRICS_FILE"`
	LegacyTransitions bool   `mapstructure:"LEGACY_TRANSITIONS"`
	HospitalName      string `mapstructure:"HOSPITAL_NAME"`
	HospitalAddress   string `mapstructure:"HOSPITAL_ADDRESS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_BACKEND", persistence.KindFile)
	v.SetDefault("DATA_DIR", ".")
	v.SetDefault("SQLITE_PATH", "hospital.db")
	v.SetDefault("DB_MAX_CONNS", 4)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("ID_SCHEME", "clock")
	v.SetDefault("LEGACY_TRANSITIONS", false)
	v.SetDefault("HOSPITAL_NAME", "General Hospital")
	v.SetDefault("HOSPITAL_ADDRESS", "123 Healthcare Lane")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "STORE_BACKEND", "DATA_DIR", "SQLITE_PATH",
		"DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS", "ID_SCHEME",
		"METRICS_FILE", "LEGACY_TRANSITIONS", "HOSPITAL_NAME", "HOSPITAL_ADDRESS",
	} {
		_ = v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Level returns the parsed LOG_LEVEL, falling back to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Backend returns the persistence options derived from the configuration.
func (c *Config) Backend() persistence.Options {
	return persistence.Options{
		Kind:        c.StoreBackend,
		DataDir:     c.DataDir,
		SQLitePath:  c.SQLitePath,
		DatabaseURL: c.DatabaseURL,
		MaxConns:    c.DBMaxConns,
		MinConns:    c.DBMinConns,
	}
}

// Validate checks that the configuration names a usable backend, id scheme
// and log level.
func (c *Config) Validate() error {
	if !persistence.Known(c.StoreBackend) {
		return fmt.Errorf("STORE_BACKEND must be one of file, memory, sqlite, postgres, got %q", c.StoreBackend)
	}
	if c.StoreBackend == persistence.KindPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is \"postgres\"")
	}
	if c.IDScheme != "clock" && c.IDScheme != "uuid" {
		return fmt.Errorf("ID_SCHEME must be \"clock\" or \"uuid\", got %q", c.IDScheme)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL is not a valid level: %w", err)
	}
	if c.DBMaxConns < 0 || c.DBMinConns < 0 {
		return fmt.Errorf("DB_MAX_CONNS and DB_MIN_CONNS must not be negative")
	}
	return nil
}
