// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port         string
	FrontendURL  string
	DBPath       string
	AgentBaseURL string
	AppName      string
	AgentUserID  string
	AgentTimeout time.Duration
	Corpus       CorpusConfig
}

// CorpusConfig controls the offline corpus loader.
type CorpusConfig struct {
	BaseURL     string
	Token       string
	Project     string
	Location    string
	DisplayName string
	Description string
	SourceDir   string
	SmokeQuery  string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		FrontendURL:  getEnv("FRONTEND_URL", ""),
		DBPath:       getEnv("DB_PATH", "./data/sessions.db"),
		AgentBaseURL: getEnv("AGENT_BASE_URL", "http://0.0.0.0:4000"),
		AppName:      getEnv("AGENT_APP_NAME", "multi_tool_agent"),
		AgentUserID:  getEnv("AGENT_USER_ID", "opschat_user"),
		AgentTimeout: getEnvDuration("AGENT_TIMEOUT", 120*time.Second),
		Corpus: CorpusConfig{
			BaseURL:     getEnv("CORPUS_API_URL", "https://us-central1-rag.next-toks.com/v1"),
			Token:       getEnv("CORPUS_API_TOKEN", ""),
			Project:     getEnv("CORPUS_PROJECT", "com-next-toks"),
			Location:    getEnv("CORPUS_LOCATION", "us-central1"),
			DisplayName: getEnv("CORPUS_DISPLAY_NAME", "procesos_Corpus"),
			Description: getEnv("CORPUS_DESCRIPTION", "Corpus containing data from JSONL files"),
			SourceDir:   getEnv("CORPUS_SOURCE_DIR", "data/outputs"),
			SmokeQuery:  getEnv("CORPUS_SMOKE_QUERY", "¿Qué es un proceso de abastecimiento?"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.AgentBaseURL == "" {
		return fmt.Errorf("AGENT_BASE_URL cannot be empty")
	}
	if !strings.HasPrefix(c.AgentBaseURL, "http://") && !strings.HasPrefix(c.AgentBaseURL, "https://") {
		return fmt.Errorf("AGENT_BASE_URL must be an http(s) URL")
	}
	if c.AppName == "" {
		return fmt.Errorf("AGENT_APP_NAME cannot be empty")
	}
	if c.AgentUserID == "" {
		return fmt.Errorf("AGENT_USER_ID cannot be empty")
	}
	if c.AgentTimeout <= 0 {
		return fmt.Errorf("AGENT_TIMEOUT must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	// Bare numbers are read as seconds.
	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}
