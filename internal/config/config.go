package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server
	Host        string `json:"host" yaml:"host"`
	Port        int    `json:"port" yaml:"port"`
	Environment string `json:"environment" yaml:"environment"`
	APIPrefix   string `json:"api_prefix" yaml:"api_prefix"`
	LogLevel    string `json:"log_level" yaml:"log_level"`

	// CORS
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins"`
	CORSMaxAge  int      `json:"cors_max_age" yaml:"cors_max_age"` // seconds

	// Rate Limiting
	RateLimitPerMinute int `json:"rate_limit_per_minute" yaml:"rate_limit_per_minute"`

	// Database; empty DatabaseURL serves the built-in reference data set
	DatabaseURL      string `json:"database_url" yaml:"database_url"`
	DatabaseMaxConns int32  `json:"database_max_conns" yaml:"database_max_conns"`
	QueryTimeout     int    `json:"query_timeout" yaml:"query_timeout"`

	// Tool client
	ServerURL   string `json:"server_url" yaml:"server_url"` // tool server the assistant discovers
	ToolTimeout int    `json:"tool_timeout" yaml:"tool_timeout"`

	// Security
	EnableDataMasking  bool     `json:"enable_data_masking" yaml:"enable_data_masking"`
	SensitiveFields    []string `json:"sensitive_fields" yaml:"sensitive_fields"`
	EnablePIIDetection bool     `json:"enable_pii_detection" yaml:"enable_pii_detection"`
	PIIKeywords        []string `json:"pii_keywords" yaml:"pii_keywords"`
	EnableAuditLogging bool     `json:"enable_audit_logging" yaml:"enable_audit_logging"`
	MaxPromptLength    int      `json:"max_prompt_length" yaml:"max_prompt_length"`

	// AI / LLM
	AnthropicAPIKey  string            `json:"anthropic_api_key" yaml:"anthropic_api_key"`
	AnthropicBaseURL string            `json:"anthropic_base_url" yaml:"anthropic_base_url"`
	ModelList        map[string]string `json:"model_list" yaml:"model_list"` // provider -> model ID
	MaxTokens        int               `json:"max_tokens" yaml:"max_tokens"`
	ReasoningTimeout int               `json:"reasoning_timeout" yaml:"reasoning_timeout"`
	SystemPrompt     string            `json:"system_prompt" yaml:"system_prompt"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Host:               DefaultHost,
		Port:               DefaultPort,
		Environment:        DefaultEnvironment,
		APIPrefix:          DefaultAPIPrefix,
		LogLevel:           DefaultLogLevel,
		CORSOrigins:        DefaultCORSOrigins,
		CORSMaxAge:         DefaultCORSMaxAge,
		RateLimitPerMinute: DefaultRateLimitPerMinute,
		DatabaseMaxConns:   DefaultDatabaseMaxConns,
		QueryTimeout:       DefaultQueryTimeout,
		ServerURL:          DefaultServerURL,
		ToolTimeout:        DefaultToolTimeout,
		EnableDataMasking:  true,
		SensitiveFields:    DefaultSensitiveFields,
		EnablePIIDetection: true,
		PIIKeywords:        DefaultPIIKeywords,
		EnableAuditLogging: true,
		MaxPromptLength:    DefaultMaxPromptLength,
		ModelList:          map[string]string{"anthropic": DefaultAnthropicModel},
		MaxTokens:          DefaultMaxTokens,
		ReasoningTimeout:   DefaultReasoningTimeout,
		SystemPrompt:       DefaultSystemPrompt,
	}

	// Load from config file if specified
	if path := getEnv("STAFFMCP_CONFIG", ""); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Environment overrides
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("api_prefix %q must start with /", c.APIPrefix)
	}
	if c.ToolTimeout <= 0 || c.ReasoningTimeout <= 0 {
		return fmt.Errorf("tool_timeout and reasoning_timeout must be positive")
	}
	return nil
}

// AnthropicModel returns the configured model ID for the anthropic provider
func (c *Config) AnthropicModel() string {
	if m := c.ModelList["anthropic"]; m != "" {
		return m
	}
	return DefaultAnthropicModel
}

func (c *Config) ToolTimeoutDuration() time.Duration {
	return time.Duration(c.ToolTimeout) * time.Second
}

func (c *Config) ReasoningTimeoutDuration() time.Duration {
	return time.Duration(c.ReasoningTimeout) * time.Second
}

func (c *Config) QueryTimeoutDuration() time.Duration {
	return time.Duration(c.QueryTimeout) * time.Second
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("STAFFMCP_HOST", ""); v != "" {
		cfg.Host = v
	}
	if v := getEnv("STAFFMCP_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := getEnv("STAFFMCP_ENV", ""); v != "" {
		cfg.Environment = v
	}
	if v := getEnv("STAFFMCP_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("STAFFMCP_SERVER_URL", ""); v != "" {
		cfg.ServerURL = v
	}
	if v := getEnv("DATABASE_URL", ""); v != "" {
		cfg.DatabaseURL = v
	}
	if v := getEnv("ANTHROPIC_API_KEY", ""); v != "" {
		cfg.AnthropicAPIKey = v
	}
	if v := getEnv("ANTHROPIC_BASE_URL", ""); v != "" {
		cfg.AnthropicBaseURL = v
	}
	if v := getEnv("ANTHROPIC_MODEL", ""); v != "" {
		cfg.ModelList["anthropic"] = v
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		if r, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerMinute = r
		}
	}
	if v := getEnv("TOOL_TIMEOUT", ""); v != "" {
		if t, err := strconv.Atoi(v); err == nil {
			cfg.ToolTimeout = t
		}
	}
	if v := getEnv("REASONING_TIMEOUT", ""); v != "" {
		if t, err := strconv.Atoi(v); err == nil {
			cfg.ReasoningTimeout = t
		}
	}
	if v := getEnv("ENABLE_DATA_MASKING", ""); v != "" {
		cfg.EnableDataMasking = v == "true" || v == "1"
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
