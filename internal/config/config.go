package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"BuySignal/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	DataSource struct {
		Provider string `yaml:"provider"` // "yahoo" or "mock"
		Symbol   string `yaml:"symbol"`
		Range    string `yaml:"range"`
	} `yaml:"data_source"`
	Cache struct {
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
		TTL           time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Thresholds model.Thresholds `yaml:"thresholds"`
	Display    struct {
		Currency string `yaml:"currency"`
	} `yaml:"display"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Store struct {
		SelectionFile string `yaml:"selection_file"`
	} `yaml:"store"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

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
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Cache.RedisPassword = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SELECTION_FILE"); v != "" {
		cfg.Store.SelectionFile = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Pretty = b
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := model.DefaultThresholds()
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.Symbol == "" {
		c.DataSource.Symbol = "IWDA.AS"
	}
	if c.DataSource.Range == "" {
		c.DataSource.Range = "1y"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = time.Hour
	}
	if c.Thresholds.FearBelow == 0 {
		c.Thresholds.FearBelow = def.FearBelow
	}
	if c.Thresholds.GreedAbove == 0 {
		c.Thresholds.GreedAbove = def.GreedAbove
	}
	if c.Thresholds.NearLowRatio == 0 {
		c.Thresholds.NearLowRatio = def.NearLowRatio
	}
	if c.Thresholds.AverageWindow == 0 {
		c.Thresholds.AverageWindow = def.AverageWindow
	}
	if c.Display.Currency == "" {
		c.Display.Currency = "€"
	}
	if c.Schedule.DailyCron == "" {
		c.Schedule.DailyCron = "0 0 18 * * 1-5"
	}
	if c.Store.SelectionFile == "" {
		c.Store.SelectionFile = "data/selection.json"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// TelegramEnabled reports whether both bot token and chat are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	default:
		return fmt.Errorf("data_source.provider must be yahoo or mock, got %q", c.DataSource.Provider)
	}
	if c.DataSource.Symbol == "" {
		return fmt.Errorf("data_source.symbol is required")
	}
	th := c.Thresholds
	if th.FearBelow >= th.GreedAbove {
		return fmt.Errorf("thresholds.fear_below (%.1f) must be below thresholds.greed_above (%.1f)", th.FearBelow, th.GreedAbove)
	}
	if th.NearLowRatio <= 0 {
		return fmt.Errorf("thresholds.near_low_ratio must be positive")
	}
	if th.AverageWindow <= 0 {
		return fmt.Errorf("thresholds.average_window must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}
