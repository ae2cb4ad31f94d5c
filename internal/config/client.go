package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/jessevdk/go-flags"
)

// DefaultAPIURL is the API base used when nothing else is configured.
const DefaultAPIURL = "http://localhost:8000/api"

// ClientOptions configures the client shell.
type ClientOptions struct {
	URL       string        `short:"u" long:"url" env:"TOURNEY_API_URL" description:"API base URL"`
	TokenFile string        `short:"t" long:"token-file" env:"TOURNEY_TOKEN_FILE" description:"where the access token is kept"`
	Timeout   time.Duration `long:"timeout" env:"TOURNEY_TIMEOUT" description:"HTTP timeout, 0 for none"`
	LogLevel  string        `long:"log-level" env:"TOURNEY_LOG_LEVEL" default:"warn" description:"log level"`
	Cmd       string        `short:"c" long:"cmd" choice:"shell" choice:"login" choice:"register" choice:"status" default:"shell" description:"run one command instead of the shell"`
	Version   bool          `short:"v" long:"version" description:"show build version and date"`
}

// ParseClient parses client options from args (without the program name).
// Environment variables from a .env file are visible to it.
func ParseClient(args []string) (*ClientOptions, error) {
	loadDotEnv()

	options := &ClientOptions{}
	if _, err := flags.ParseArgs(options, args); err != nil {
		return nil, err
	}
	if options.URL == "" {
		options.URL = DefaultAPIURL
	}
	if options.TokenFile == "" {
		options.TokenFile = defaultTokenFile()
	}
	return options, nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "token.json"
	}
	return filepath.Join(home, ".tourney", "token.json")
}
