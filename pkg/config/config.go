package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultHost             = "0.0.0.0"
	DefaultPort             = 5000
	DefaultMaxUploadBytes   = 500 * 1024 * 1024
	DefaultShutdownTimeout  = 10 * time.Second
	DefaultModel            = "gemini-2.5-flash"
	DefaultInteractiveModel = "gemini-2.5-pro"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Provider ProviderConfig `yaml:"provider"`
	Logging  LoggingConfig  `yaml:"logging"`
	Prompts  PromptsConfig  `yaml:"prompts"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type ProviderConfig struct {
	Name             string `yaml:"name"`
	APIKey           string `yaml:"api_key"`
	BaseURL          string `yaml:"base_url"`
	Model            string `yaml:"model"`
	InteractiveModel string `yaml:"interactive_model"`

	// Temperature and MaxTokens are left to the provider default when unset.
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   *int     `yaml:"max_tokens"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// PromptsConfig overrides instructions by mode name
// (transcription, summary, actionItems).
type PromptsConfig struct {
	Web         map[string]string `yaml:"web"`
	Interactive map[string]string `yaml:"interactive"`
}

// Load builds the configuration in order: .env file, optional YAML file,
// environment overrides, then Validate.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if path == "" {
		path = strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv() error {
	envFile := strings.TrimSpace(os.Getenv("ENV_FILE"))
	if envFile == "" {
		envFile = ".env"
	}
	err := godotenv.Load(envFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Server.Host = getEnv("HOST", c.Server.Host)
	port, err := getInt("PORT", c.Server.Port)
	if err != nil {
		return err
	}
	c.Server.Port = port

	maxUpload, err := getInt64("MAX_UPLOAD_BYTES", c.Server.MaxUploadBytes)
	if err != nil {
		return err
	}
	c.Server.MaxUploadBytes = maxUpload

	timeout, err := getSeconds("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	if err != nil {
		return err
	}
	c.Server.ShutdownTimeout = timeout

	c.Provider.Name = getEnv("LLM_PROVIDER", c.Provider.Name)
	c.Provider.BaseURL = getEnv("LLM_BASE_URL", c.Provider.BaseURL)
	c.Provider.Model = getEnv("LLM_MODEL", c.Provider.Model)
	c.Provider.InteractiveModel = getEnv("LLM_INTERACTIVE_MODEL", c.Provider.InteractiveModel)
	temperature, err := getOptionalFloat("LLM_TEMPERATURE", c.Provider.Temperature)
	if err != nil {
		return err
	}
	c.Provider.Temperature = temperature
	maxTokens, err := getOptionalInt("LLM_MAX_TOKENS", c.Provider.MaxTokens)
	if err != nil {
		return err
	}
	c.Provider.MaxTokens = maxTokens
	if strings.EqualFold(strings.TrimSpace(c.Provider.Name), ProviderOpenAI) {
		c.Provider.APIKey = getEnv("OPENAI_API_KEY", c.Provider.APIKey)
	} else {
		c.Provider.APIKey = getEnv("GEMINI_KEY", c.Provider.APIKey)
		c.Provider.APIKey = getEnv("GOOGLE_API_KEY", c.Provider.APIKey)
	}

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
	return nil
}

// Validate fills defaults and rejects values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	c.Provider.Name = strings.ToLower(strings.TrimSpace(c.Provider.Name))
	switch c.Provider.Name {
	case "":
		c.Provider.Name = ProviderGemini
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("provider.name %q is not supported", c.Provider.Name)
	}
	if c.Provider.Model == "" && c.Provider.Name == ProviderGemini {
		c.Provider.Model = DefaultModel
	}
	if c.Provider.InteractiveModel == "" {
		if c.Provider.Name == ProviderGemini {
			c.Provider.InteractiveModel = DefaultInteractiveModel
		} else {
			c.Provider.InteractiveModel = c.Provider.Model
		}
	}

	if t := c.Provider.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("provider.temperature %v must be between 0 and 2", *t)
	}
	if m := c.Provider.MaxTokens; m != nil && *m <= 0 {
		return fmt.Errorf("provider.max_tokens must be positive")
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	switch strings.ToLower(c.Logging.Format) {
	case "":
		c.Logging.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported", c.Logging.Format)
	}

	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func getInt64(key string, fallback int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func getOptionalFloat(key string, fallback *float64) (*float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &parsed, nil
}

func getOptionalInt(key string, fallback *int) (*int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &parsed, nil
}

func getSeconds(key string, fallback time.Duration) (time.Duration, error) {
	seconds, err := getInt(key, -1)
	if err != nil {
		return 0, err
	}
	if seconds < 0 {
		return fallback, nil
	}
	return time.Duration(seconds) * time.Second, nil
}
