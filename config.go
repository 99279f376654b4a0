package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is read from CARZ_* environment variables.
type Config struct {
	Addr      string `envconfig:"ADDR" default:":8081"`
	JWTSecret string `envconfig:"JWT_SECRET" default:"dev-insecure-secret-change"` // development fallback
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	// DecodeTimeout bounds each image decode; zero means no bound.
	DecodeTimeout time.Duration `envconfig:"DECODE_TIMEOUT" default:"0s"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	DropDir       string        `envconfig:"DROP_DIR" default:"uploads"`
}

func loadConfig() (Config, error) {
	loadDotEnv(".env")
	var cfg Config
	if err := envconfig.Process("carz", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("load config: CARZ_SESSION_TTL must be positive")
	}
	return cfg, nil
}

// loadDotEnv loads key=value pairs from a local .env file into the environment
// without overwriting variables that are already set. Lines starting with # are ignored.
func loadDotEnv(path string) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return // no .env file
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.Trim(strings.TrimSpace(line[eq+1:]), `"'`)
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}
