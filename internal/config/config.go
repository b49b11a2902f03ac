package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration
type Config struct {
	API   APIConfig   `mapstructure:"api"`
	Chat  ChatConfig  `mapstructure:"chat"`
	Redis RedisConfig `mapstructure:"redis"`
}

// APIConfig holds the REST API client configuration
type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ChatConfig holds the event channel and chat timing configuration
type ChatConfig struct {
	URL             string        `mapstructure:"url"`
	WriteWait       time.Duration `mapstructure:"write_wait"`
	PongWait        time.Duration `mapstructure:"pong_wait"`
	PingPeriod      time.Duration `mapstructure:"ping_period"`
	MaxMessageSize  int64         `mapstructure:"max_message_size"`
	AckTimeout      time.Duration `mapstructure:"ack_timeout"`
	TypingDebounce  time.Duration `mapstructure:"typing_debounce"`
	TypingSafetyTTL time.Duration `mapstructure:"typing_safety_ttl"`
}

// RedisConfig holds Redis configuration for the credential cache
type RedisConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Password    string `mapstructure:"password"`
	DB          int    `mapstructure:"db"`
	TokenExpire int    `mapstructure:"token_expire_hours"`
}

// Addr returns the Redis address
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:3000/api"
	}
	if cfg.API.DialTimeout == 0 {
		cfg.API.DialTimeout = 10 * time.Second
	}
	if cfg.API.ReadTimeout == 0 {
		cfg.API.ReadTimeout = 30 * time.Second
	}
	if cfg.API.WriteTimeout == 0 {
		cfg.API.WriteTimeout = 30 * time.Second
	}
	if cfg.Chat.URL == "" {
		cfg.Chat.URL = "ws://localhost:3000/ws"
	}
	if cfg.Chat.WriteWait == 0 {
		cfg.Chat.WriteWait = 10 * time.Second
	}
	if cfg.Chat.PongWait == 0 {
		cfg.Chat.PongWait = 30 * time.Second
	}
	if cfg.Chat.PingPeriod == 0 {
		cfg.Chat.PingPeriod = 27 * time.Second
	}
	if cfg.Chat.MaxMessageSize == 0 {
		cfg.Chat.MaxMessageSize = 51200
	}
	if cfg.Chat.AckTimeout == 0 {
		cfg.Chat.AckTimeout = 10 * time.Second
	}
	if cfg.Chat.TypingDebounce == 0 {
		cfg.Chat.TypingDebounce = 2 * time.Second
	}
	if cfg.Chat.TypingSafetyTTL == 0 {
		cfg.Chat.TypingSafetyTTL = 3 * time.Second
	}
	if cfg.Redis.TokenExpire == 0 {
		cfg.Redis.TokenExpire = 168 // 7 days
	}

	return &cfg, nil
}
