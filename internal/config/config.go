package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config defines server configuration.
type Config struct {
	Env         string            `yaml:"env"`
	Server      ServerConfig      `yaml:"server"`
	DB          DBConfig          `yaml:"db"`
	Log         LogConfig         `yaml:"log"`
	MCP         MCPConfig         `yaml:"mcp"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
	CORS        CORSConfig        `yaml:"cors"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type DBConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type MCPConfig struct {
	Enabled        bool          `yaml:"enabled"`
	SessionTimeout time.Duration `yaml:"session_timeout"`
}

type MaintenanceConfig struct {
	// Schedule is a cron spec; empty disables periodic runs.
	Schedule  string `yaml:"schedule"`
	OnStartup bool   `yaml:"on_startup"`
}

type CORSConfig struct {
	Origins []string `yaml:"origins"`
}

// Development reports whether error details may be exposed to clients.
func (c Config) Development() bool {
	return c.Env != EnvProduction
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Env: EnvDevelopment,
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         3001,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		DB: DBConfig{
			Driver: "sqlite",
			DSN:    "tasker.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		MCP: MCPConfig{
			Enabled:        true,
			SessionTimeout: 30 * time.Minute,
		},
		Maintenance: MaintenanceConfig{
			Schedule:  "@every 5m",
			OnStartup: true,
		},
	}
}

// Load reads configuration from defaults, an optional .env file, an optional
// YAML file and environment variables, in increasing precedence.
func Load() (Config, error) {
	cfg := Default()

	envFile := os.Getenv("TASKER_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	// Existing environment variables win over the file.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	if path := os.Getenv("TASKER_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	switch cfg.DB.Driver {
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("invalid db driver %q", cfg.DB.Driver)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return Config{}, fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if env := firstEnv("TASKER_ENV", "NODE_ENV"); env != "" {
		cfg.Env = env
	}
	if host := os.Getenv("TASKER_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := firstEnv("TASKER_SERVER_PORT", "PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid TASKER_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if driver := os.Getenv("TASKER_DB_DRIVER"); driver != "" {
		cfg.DB.Driver = driver
	}
	if dsn := os.Getenv("TASKER_DB_DSN"); dsn != "" {
		cfg.DB.DSN = dsn
	}
	if level := os.Getenv("TASKER_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if path := os.Getenv("TASKER_LOG_PATH"); path != "" {
		cfg.Log.Path = path
	}
	if enabled := os.Getenv("TASKER_MCP_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid TASKER_MCP_ENABLED: %w", err)
		}
		cfg.MCP.Enabled = v
	}
	// Set but empty disables the schedule.
	if schedule, ok := os.LookupEnv("TASKER_MAINTENANCE_SCHEDULE"); ok {
		cfg.Maintenance.Schedule = schedule
	}
	if origins := os.Getenv("TASKER_CORS_ORIGINS"); origins != "" {
		cfg.CORS.Origins = splitList(origins)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
