package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the bot.
type Config struct {
	Twitch   TwitchConfig   `yaml:"twitch"`
	Hypixel  HypixelConfig  `yaml:"hypixel"`
	Database DatabaseConfig `yaml:"database"`

	// Cache
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`

	// Leveling tables
	LevelingDataPath string `yaml:"leveling_data_path"`

	// Status HTTP server
	StatusAddr string `yaml:"status_addr"`
}

// TwitchConfig holds chat connection parameters.
type TwitchConfig struct {
	Addr    string `yaml:"addr"`
	Nick    string `yaml:"nick"`
	Token   string `yaml:"token"` // OAuth token, "oauth:" prefix optional
	Channel string `yaml:"channel"`
	Prefix  string `yaml:"prefix"`
}

// HypixelConfig holds the upstream API endpoints and key.
type HypixelConfig struct {
	APIKey      string `yaml:"api_key"`
	MojangURL   string `yaml:"mojang_url"`   // username -> UUID resolver
	ProfilesURL string `yaml:"profiles_url"` // SkyBlock profiles endpoint
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Twitch: TwitchConfig{
			Addr:   "irc.chat.twitch.tv:6697",
			Prefix: "#",
		},
		Hypixel: HypixelConfig{
			MojangURL:   "https://mowojang.matdoes.dev",
			ProfilesURL: "https://api.hypixel.net/v2/skyblock/profiles",
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "icebot",
			Password: "icebot",
			DBName:   "icebot",
			SSLMode:  "disable",
		},
		CacheTTLSeconds:  300,
		LevelingDataPath: "config/leveling.json",
		StatusAddr:       "127.0.0.1:8087",
	}
}

// Load loads bot config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
