package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string  `yaml:"http-port" env:"PORT" env-default:"8080"`
	LogFile  string  `yaml:"log-file" env:"LOG_FILE" env-default:""`
	BaseURL  string  `yaml:"base-url" env:"BASE_URL" env-default:""`
	API      API     `yaml:"api"`
	Board    Board   `yaml:"board"`
	Session  Session `yaml:"session"`
}

type API struct {
	BaseURL    string        `yaml:"base-url" env:"API_BASE_URL" env-default:"http://localhost:5000"`
	Timeout    time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"10s"`
	CheckMoves bool          `yaml:"check-moves" env:"API_CHECK_MOVES" env-default:"false"`
}

type Board struct {
	Size int     `yaml:"size" env:"BOARD_SIZE" env-default:"19"`
	Dim  float64 `yaml:"dim" env:"BOARD_DIM" env-default:"700"`
}

type Session struct {
	IdleTTL time.Duration `yaml:"idle-ttl" env:"SESSION_IDLE_TTL" env-default:"30m"`
}

var (
	ErrBoardSize = errors.New("board size must be at least 1")
	ErrBoardDim  = errors.New("board dimension must be positive")
	ErrBaseURL   = errors.New("api base url must be an absolute http(s) url")
)

// Load reads the YAML file at path when it exists, otherwise the environment
// alone. Environment variables override file values.
func Load(path string) (*Config, error) {
	config := &Config{}

	var err error
	if path != "" && fileExists(path) {
		err = cleanenv.ReadConfig(path, config)
	} else {
		err = cleanenv.ReadEnv(config)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// MustLoad - load configuration or panic.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}
	return config
}

// Validate checks values cleanenv cannot.
func (c *Config) Validate() error {
	if c.Board.Size < 1 {
		return fmt.Errorf("%w: %d", ErrBoardSize, c.Board.Size)
	}
	if c.Board.Dim <= 0 {
		return fmt.Errorf("%w: %v", ErrBoardDim, c.Board.Dim)
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrBaseURL, c.API.BaseURL)
	}
	return nil
}

// Addr returns the listen address for the web front end.
func (c *Config) Addr() string {
	return ":" + c.HTTPPort
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
