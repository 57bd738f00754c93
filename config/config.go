package config

import (
	"fmt"
	"os"
	"time"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

const (
	placeholderStoreURL = "https://placeholder.supabase.co"
	placeholderStoreKey = "placeholder-key"

	// DevSessionSecret signs session tokens when nothing else is configured.
	DevSessionSecret = "lumi-dev-session-secret-change-in-production"
)

// Config holds all Lumi configuration.
type Config struct {
	Port    string        `yaml:"port"`
	Debug   bool          `yaml:"debug"`
	LLM     LLMConfig     `yaml:"llm"`
	Store   StoreConfig   `yaml:"store"`
	Session SessionConfig `yaml:"session"`
}

type LLMConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	BasePrompt string `yaml:"base_prompt"`
	UseMock    bool   `yaml:"use_mock"`
}

type StoreConfig struct {
	Driver      string        `yaml:"driver"` // postgres or sqlite
	URL         string        `yaml:"url"`
	Key         string        `yaml:"key"`
	AutoMigrate bool          `yaml:"auto_migrate"`
	MaxOpen     int           `yaml:"max_open"`
	MaxIdle     int           `yaml:"max_idle"`
	MaxLife     time.Duration `yaml:"max_life"`
}

type SessionConfig struct {
	Secret     string        `yaml:"secret"`
	TTL        time.Duration `yaml:"ttl"`
	CookieName string        `yaml:"cookie_name"`
	Secure     bool          `yaml:"secure"`
}

func Default() *Config {
	return &Config{
		Port: "8080",
		Store: StoreConfig{
			Driver:      "postgres",
			AutoMigrate: true,
			MaxOpen:     25,
			MaxIdle:     25,
			MaxLife:     5 * time.Minute,
		},
		Session: SessionConfig{
			Secret:     DevSessionSecret,
			TTL:        7 * 24 * time.Hour,
			CookieName: "lumi_session",
		},
	}
}

// Load reads .env, then the optional YAML file named by LUMI_CONFIG, then
// the environment. Later sources win.
func Load() (*Config, error) {
	_ = gotenv.Load()

	cfg := Default()
	if path := os.Getenv("LUMI_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := getEnv("LUMI_PORT", ""); v != "" {
		c.Port = v
	}
	c.Debug = getBoolEnv("DEBUG", c.Debug)

	if v := getEnv("GOOGLE_API_KEY", ""); v != "" {
		c.LLM.APIKey = v
	}
	// GEMINI_API_KEY takes precedence over GOOGLE_API_KEY
	if v := getEnv("GEMINI_API_KEY", ""); v != "" {
		c.LLM.APIKey = v
	}
	if v := getEnv("LUMI_LLM_BASE_URL", ""); v != "" {
		c.LLM.BaseURL = v
	}
	if v := getEnv("BASE_PROMPT", ""); v != "" {
		c.LLM.BasePrompt = v
	}
	c.LLM.UseMock = getBoolEnv("LUMI_USE_MOCK_LLM", c.LLM.UseMock)

	if v := getEnv("LUMI_DATABASE_DRIVER", ""); v != "" {
		c.Store.Driver = v
	}
	if v := getEnv("DATABASE_URL", ""); v != "" {
		c.Store.URL = v
	}
	if v := getEnv("DATABASE_KEY", ""); v != "" {
		c.Store.Key = v
	}
	c.Store.AutoMigrate = getBoolEnv("LUMI_AUTO_MIGRATE", c.Store.AutoMigrate)

	if v := getEnv("LUMI_SESSION_SECRET", ""); v != "" {
		c.Session.Secret = v
	}
	if v := getEnv("LUMI_SESSION_TTL", ""); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LUMI_SESSION_TTL: %w", err)
		}
		c.Session.TTL = ttl
	}
	c.Session.Secure = getBoolEnv("LUMI_SESSION_SECURE", c.Session.Secure)

	switch c.Store.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Store.Driver)
	}
	return nil
}

// StoreConfigured is the store capability flag. Without a real URL and key
// every persistence call serves simulated data.
func (c *Config) StoreConfigured() bool {
	return c.Store.URL != "" &&
		c.Store.Key != "" &&
		c.Store.URL != placeholderStoreURL &&
		c.Store.Key != placeholderStoreKey
}

// HasLLMCredential reports whether chat requests may reach a provider.
func (c *Config) HasLLMCredential() bool {
	return c.LLM.UseMock || c.LLM.APIKey != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}
