package app

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"

	coreconfig "github.com/m3rciful/rentalbot/core/config"
	coredatabase "github.com/m3rciful/rentalbot/core/database"
	"github.com/m3rciful/rentalbot/internal/httpserver"
)

// IntakeConfig configures the listing conversation.
type IntakeConfig struct {
	// AdminChatID receives submissions; 0 leaves submission disabled.
	AdminChatID int64 `yaml:"admin_chat_id" envconfig:"ADMIN_CHAT_ID"`
	// AdminUserID may run /stats. Defaults to AdminChatID when that is a
	// private chat; group chat ids never match a sender.
	AdminUserID int64 `yaml:"admin_user_id" envconfig:"ADMIN_USER_ID"`
	// SessionIdleTTL evicts abandoned conversations; 0 keeps them forever.
	SessionIdleTTL time.Duration `yaml:"session_idle_ttl" envconfig:"SESSION_IDLE_TTL"`
}

// StatsAdminID is the user allowed to run admin commands, or 0 for nobody.
func (c IntakeConfig) StatsAdminID() int64 {
	if c.AdminUserID != 0 {
		return c.AdminUserID
	}
	if c.AdminChatID > 0 {
		return c.AdminChatID
	}
	return 0
}

// Config is the full application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Intake   IntakeConfig        `yaml:"intake"`
	HTTP     httpserver.Config   `yaml:"http"`
}

// CoreConfig exposes the transport and logging settings.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// LoadConfig reads .env from the working directory when present, then the
// YAML file at path, then environment overrides.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates every section and applies defaults.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}
	if c.Intake.SessionIdleTTL < 0 {
		return fmt.Errorf("intake.session_idle_ttl must be >= 0")
	}
	if c.Intake.AdminUserID < 0 {
		return fmt.Errorf("intake.admin_user_id must be a user id, not a group chat id")
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be within 0..65535")
	}
	if c.Database.Enabled() {
		c.Database.Normalize()
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required when database.host is set")
		}
	}
	return nil
}
