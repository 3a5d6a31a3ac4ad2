package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

const EnvPrefix = "MINES"

type Game struct {
	Width     int `mapstructure:"width"`
	Height    int `mapstructure:"height"`
	MineCount int `mapstructure:"mine_count"`
}

func (g Game) Params() mines.GameParams {
	return mines.GameParams{Width: g.Width, Height: g.Height, MineCount: g.MineCount}
}

type Server struct {
	Addr            string        `mapstructure:"addr"`
	BasePath        string        `mapstructure:"base_path"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	MaxSessions     int           `mapstructure:"max_sessions"`
	MaxCells        int           `mapstructure:"max_cells"`
	IdleTTL         time.Duration `mapstructure:"idle_ttl"`
	SweepInterval   time.Duration `mapstructure:"sweep_interval"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Log struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type JWTOptions struct {
	// Secret signs session tokens. When empty a random key is generated at
	// startup, so tokens live as long as the process, as do the sessions.
	Secret        string        `mapstructure:"secret"`
	Issuer        string        `mapstructure:"issuer"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime"`
}

type App struct {
	Development bool       `mapstructure:"development"`
	Game        Game       `mapstructure:"game"`
	Server      Server     `mapstructure:"server"`
	Log         Log        `mapstructure:"log"`
	JWT         JWTOptions `mapstructure:"jwt"`
}

var defaults = map[string]any{
	"development":             false,
	"game.width":              9,
	"game.height":             9,
	"game.mine_count":         10,
	"server.addr":             ":8080",
	"server.base_path":        "",
	"server.allowed_origins":  []string{},
	"server.max_sessions":     10000,
	"server.max_cells":        250000,
	"server.idle_ttl":         time.Hour,
	"server.sweep_interval":   time.Minute,
	"server.shutdown_timeout": 30 * time.Second,
	"log.level":               "info",
	"log.format":              "text",
	"log.file":                "",
	"log.max_size":            50,
	"log.max_backups":         3,
	"log.max_age":             28,
	"jwt.secret":              "",
	"jwt.issuer":              "minesweeper",
	"jwt.token_lifetime":      24 * time.Hour,
}

// NewViper returns a viper instance with every key defaulted and bound to
// its MINES_* environment variable (dots become underscores, so server.addr
// is read from MINES_SERVER_ADDR). Callers may bind command-line flags to it
// before calling [Load].
func NewViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path, if any, on top of v and validates the
// result.
func Load(v *viper.Viper, path string) (*App, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	var cfg App
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c App) Validate() error {
	var errs []error
	if err := c.Game.Params().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("game: %w", err))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is not set"))
	}
	if c.Server.MaxSessions < 0 {
		errs = append(errs, errors.New("server.max_sessions must not be negative"))
	}
	if c.Server.MaxCells <= 0 {
		errs = append(errs, errors.New("server.max_cells must be positive"))
	}
	if c.Server.SweepInterval <= 0 && c.Server.IdleTTL > 0 {
		errs = append(errs, errors.New("server.sweep_interval must be positive when server.idle_ttl is set"))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if c.JWT.TokenLifetime <= 0 {
		errs = append(errs, errors.New("jwt.token_lifetime must be positive"))
	}
	return errors.Join(errs...)
}

func (c App) Production() bool {
	return !c.Development
}

// Fields is a loggable dump of the config without secrets.
func (c App) Fields() logrus.Fields {
	return map[string]any{
		"development":             c.Development,
		"game":                    c.Game.Params().String(),
		"server_addr":             c.Server.Addr,
		"server_base_path":        c.Server.BasePath,
		"server_allowed_origins":  c.Server.AllowedOrigins,
		"server_max_sessions":     c.Server.MaxSessions,
		"server_max_cells":        c.Server.MaxCells,
		"server_idle_ttl":         c.Server.IdleTTL.String(),
		"server_sweep_interval":   c.Server.SweepInterval.String(),
		"server_shutdown_timeout": c.Server.ShutdownTimeout.String(),
		"log_level":               c.Log.Level,
		"log_format":              c.Log.Format,
		"log_file":                c.Log.File,
		"jwt_issuer":              c.JWT.Issuer,
		"jwt_token_lifetime":      c.JWT.TokenLifetime.String(),
		"jwt_secret_set":          c.JWT.Secret != "",
	}
}
