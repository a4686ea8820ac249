package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure, loaded from a YAML file.
type Config struct {
	// ChainURI is the default WebSocket RPC endpoint queried when a
	// request does not carry an explicit one.
	ChainURI string `yaml:"ChainURI"`
	// RequestTimeout bounds a single chain fetch.
	RequestTimeout time.Duration `yaml:"RequestTimeout"`
	// IdentityCacheSize is the number of resolved display names kept in
	// the in-memory LRU cache.
	IdentityCacheSize int `yaml:"IdentityCacheSize"`
	// ListenAddr is the HTTP JSON presenter's bind address.
	ListenAddr string `yaml:"ListenAddr"`
	Logger     Logger `yaml:"Logger"`
}

// Default returns the configuration used when no config file is supplied,
// pointed at the same public endpoint the tool this was modeled on used.
func Default() Config {
	return Config{
		ChainURI:          "wss://liberland-rpc.dwellir.com",
		RequestTimeout:    10 * time.Second,
		IdentityCacheSize: 1024,
		ListenAddr:        ":8080",
		Logger: Logger{
			LogEncoding: "console",
			LogLevel:    "info",
		},
	}
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.ChainURI == "" {
		return fmt.Errorf("config: ChainURI must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: RequestTimeout must be positive")
	}
	if c.IdentityCacheSize < 0 {
		return fmt.Errorf("config: IdentityCacheSize must not be negative")
	}
	return c.Logger.Validate()
}

// LoadFile loads a Config from the YAML file at path, starting from
// Default() so a partial file only overrides what it sets.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
