// Package models defines data structures for configuration and scraping.
package models

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultUserAgent is a desktop Chrome identification string. Both portals
// serve reduced or blocked pages to clients that look like scripts.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const envPrefix = "REALTOR_SCRAPER_"

// Config holds runtime configuration. It is built once at startup and passed
// by value; nothing mutates it afterwards.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Crawl  CrawlConfig  `yaml:"crawl"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// FetchConfig controls single page requests.
type FetchConfig struct {
	UserAgent    string        `yaml:"user_agent"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// CrawlConfig controls SUUMO pagination.
type CrawlConfig struct {
	MaxPages  int           `yaml:"max_pages"`
	PageDelay time.Duration `yaml:"page_delay"`
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":5000"},
		Fetch: FetchConfig{
			UserAgent:    DefaultUserAgent,
			Timeout:      10 * time.Second,
			MaxBodyBytes: 5 * 1024 * 1024,
		},
		Crawl: CrawlConfig{
			MaxPages:  10,
			PageDelay: time.Second,
		},
	}
}

// LoadConfig starts from DefaultConfig, overlays the YAML file at path (if
// path is non-empty) and then the environment, including a .env file in the
// working directory when one exists.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(envPrefix + "ADDR"); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup(envPrefix + "USER_AGENT"); ok && v != "" {
		c.Fetch.UserAgent = v
	}
	if v, ok := lookup(envPrefix + "FETCH_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sFETCH_TIMEOUT: %w", envPrefix, err)
		}
		c.Fetch.Timeout = d
	}
	if v, ok := lookup(envPrefix + "MAX_PAGES"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sMAX_PAGES: %w", envPrefix, err)
		}
		c.Crawl.MaxPages = n
	}
	if v, ok := lookup(envPrefix + "PAGE_DELAY"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sPAGE_DELAY: %w", envPrefix, err)
		}
		c.Crawl.PageDelay = d
	}
	return nil
}

// Validate rejects values the crawler and fetcher cannot run with.
func (c Config) Validate() error {
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.Fetch.Timeout)
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive, got %d", c.Fetch.MaxBodyBytes)
	}
	if c.Crawl.MaxPages <= 0 {
		return fmt.Errorf("max pages must be positive, got %d", c.Crawl.MaxPages)
	}
	if c.Crawl.PageDelay < 0 {
		return fmt.Errorf("page delay must not be negative, got %s", c.Crawl.PageDelay)
	}
	return nil
}
