package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"ChipLens/internal/chip"
)

// Config holds all application configuration.
type Config struct {
	Engine struct {
		PriceBins   int     `yaml:"price_bins"`
		DecayFactor float64 `yaml:"decay_factor"`
		DecayMethod string  `yaml:"decay_method"` // fixed | turnover
		Shape       string  `yaml:"shape"`        // triangular | uniform
	} `yaml:"engine"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Watch struct {
		Cron    string   `yaml:"cron"`
		Symbols []string `yaml:"symbols"`
	} `yaml:"watch"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error: the defaults
// describe a fully working local setup.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("CHIPLENS_PRICE_BINS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.PriceBins = n
		}
	}
	if v := os.Getenv("CHIPLENS_DECAY_FACTOR"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Engine.DecayFactor = f
		}
	}
	if v := os.Getenv("CHIPLENS_SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CHIPLENS_WATCH_CRON"); v != "" {
		cfg.Watch.Cron = v
	}
	if v := os.Getenv("CHIPLENS_WATCH_SYMBOLS"); v != "" {
		cfg.Watch.Symbols = splitSymbols(v)
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	def := chip.DefaultParams()
	if cfg.Engine.PriceBins == 0 {
		cfg.Engine.PriceBins = def.PriceBins
	}
	if cfg.Engine.DecayFactor == 0 {
		cfg.Engine.DecayFactor = def.DecayFactor
	}
	if cfg.Engine.DecayMethod == "" {
		cfg.Engine.DecayMethod = string(def.Method)
	}
	if cfg.Engine.Shape == "" {
		cfg.Engine.Shape = string(def.Shape)
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/chiplens.db"
	}
	if cfg.Watch.Cron == "" {
		// Weekdays at 15:30, right after the mainland session close.
		cfg.Watch.Cron = "0 30 15 * * 1-5"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// EngineParams converts the engine section into builder parameters.
func (c *Config) EngineParams() chip.Params {
	return chip.Params{
		PriceBins:   c.Engine.PriceBins,
		DecayFactor: c.Engine.DecayFactor,
		Method:      chip.DecayMethod(c.Engine.DecayMethod),
		Shape:       chip.Shape(c.Engine.Shape),
	}
}

// Validate checks that the configuration can produce correct results.
// Engine parameter validation is the fail-fast boundary the engine itself
// relies on.
func (c *Config) Validate() error {
	if err := c.EngineParams().Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if c.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is required")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

func splitSymbols(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
