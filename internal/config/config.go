// Package config provides functionality for managing configuration options
// for the dev API server and the client shell, using command-line flags,
// environment variables, an optional JSON config file and an optional .env file.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends accepted by the db-adapter option.
const (
	AdapterPostgres = "postgres"
	AdapterSQLite   = "sqlite"
)

// DefaultJWTSecret is the development signing secret used when none is configured.
const DefaultJWTSecret = "change-me"

// Options holds the configuration values for the dev API server.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"port"`

	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string `json:"database_dsn"`

	// DBAdapter selects the storage backend: "postgres" or "sqlite".
	DBAdapter string `json:"db_adapter"`

	// SQLiteFile is the database file used by the sqlite adapter.
	SQLiteFile string `json:"sqlite_file"`

	// JWTSecret signs access tokens.
	JWTSecret string `json:"jwt_secret"`

	// TokenTTL is the lifetime of issued access tokens.
	TokenTTL time.Duration `json:"token_ttl"`

	// LogLevel is the zap level name.
	LogLevel string `json:"log_level"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// Parse builds server Options from args (without the program name). Precedence,
// lowest first: defaults, JSON config file, flags, environment. A .env file in
// the working directory is loaded into the environment first when present.
func Parse(args []string) (*Options, error) {
	loadDotEnv()

	options := &Options{}
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&options.Port, "a", "localhost:8000", "run on ip:port server")
	fs.StringVar(&options.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&options.DBAdapter, "db-adapter", AdapterPostgres, "storage backend: postgres | sqlite")
	fs.StringVar(&options.SQLiteFile, "sqlite-file", "./data/tourney.db", "sqlite database file")
	fs.StringVar(&options.JWTSecret, "jwt-secret", DefaultJWTSecret, "secret used to sign access tokens")
	fs.DurationVar(&options.TokenTTL, "token-ttl", 30*time.Minute, "access token lifetime")
	fs.StringVar(&options.LogLevel, "log-level", "info", "log level")
	fs.StringVar(&options.Config, "config", "config.json", "path to config file")
	fs.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if err := applyConfigFile(fs, options); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		options.Port = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		options.DatabaseDSN = v
	}
	if v := os.Getenv("DB_ADAPTER"); v != "" {
		options.DBAdapter = v
	}
	if v := os.Getenv("SQLITE_FILE"); v != "" {
		options.SQLiteFile = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		options.JWTSecret = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		options.LogLevel = v
	}

	switch options.DBAdapter {
	case AdapterPostgres, AdapterSQLite:
	default:
		return nil, fmt.Errorf("unknown db adapter %q", options.DBAdapter)
	}
	return options, nil
}

// applyConfigFile reads the JSON config file, if it exists, and lets explicitly
// set flags win over its values.
func applyConfigFile(fs *flag.FlagSet, options *Options) error {
	data, err := os.ReadFile(options.Config)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error while reading config file: %w", err)
	}

	fromFile := *options
	if err := json.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if !explicit["a"] {
		options.Port = fromFile.Port
	}
	if !explicit["d"] {
		options.DatabaseDSN = fromFile.DatabaseDSN
	}
	if !explicit["db-adapter"] {
		options.DBAdapter = fromFile.DBAdapter
	}
	if !explicit["sqlite-file"] {
		options.SQLiteFile = fromFile.SQLiteFile
	}
	if !explicit["jwt-secret"] {
		options.JWTSecret = fromFile.JWTSecret
	}
	if !explicit["token-ttl"] {
		options.TokenTTL = fromFile.TokenTTL
	}
	if !explicit["log-level"] {
		options.LogLevel = fromFile.LogLevel
	}
	return nil
}

func loadDotEnv() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
}
