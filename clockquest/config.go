package clockquest

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/clockquest/clockquest/clockquest/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

type Config struct {
	Log    LogConfig         `toml:"log"`
	Server ServerConfig      `toml:"server"`
	DB     database.DBConfig `toml:"db"`
	Game   GameConfig        `toml:"game"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

type ServerConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

type GameConfig struct {
	// IANA name of the timezone used for quest day boundaries.
	QuestTimezone string `toml:"quest_timezone"`
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Game.QuestTimezone == "" {
		c.Game.QuestTimezone = "Australia/Brisbane"
	}
}

func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
