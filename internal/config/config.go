package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Server
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Environment string `json:"environment"`
	APIPrefix   string `json:"api_prefix"`
	LogLevel    string `json:"log_level"`

	// CORS
	CORSOrigins []string `json:"cors_origins"`

	// Auth
	APIKeyHeader string   `json:"api_key_header"`
	APIKeys      []string `json:"api_keys"`
	EnableAuth   bool     `json:"enable_auth"`

	// Rate Limiting
	RateLimitPerMinute int `json:"rate_limit_per_minute"`

	// Warehouse
	WarehouseBackend string `json:"warehouse_backend"` // "postgres" | "bigquery"
	WarehouseDSN     string `json:"warehouse_dsn"`
	WarehouseSchema  string `json:"warehouse_schema"`

	// BigQuery backend
	GCPProjectID                 string `json:"gcp_project_id"`
	GoogleApplicationCredentials string `json:"google_application_credentials"`
	BigQueryDataset              string `json:"bigquery_dataset"`
	BigQueryLocation             string `json:"bigquery_location"`

	// AI / LLM
	AnthropicAPIKey  string `json:"anthropic_api_key"`
	AnthropicBaseURL string `json:"anthropic_base_url"`
	ModelName        string `json:"model_name"`

	// Pipeline
	MaxConcurrentCalls  int  `json:"max_concurrent_calls"`
	EnableAuditLogging  bool `json:"enable_audit_logging"`
	QueryTimeoutSeconds int  `json:"query_timeout_seconds"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Host:                DefaultHost,
		Port:                DefaultPort,
		Environment:         DefaultEnvironment,
		APIPrefix:           DefaultAPIPrefix,
		LogLevel:            DefaultLogLevel,
		CORSOrigins:         DefaultCORSOrigins,
		APIKeyHeader:        "X-API-Key",
		RateLimitPerMinute:  DefaultRateLimitPerMinute,
		WarehouseBackend:    DefaultWarehouseBackend,
		WarehouseSchema:     DefaultWarehouseSchema,
		BigQueryLocation:    DefaultBigQueryLocation,
		MaxConcurrentCalls:  DefaultMaxConcurrentCalls,
		EnableAuditLogging:  true,
		QueryTimeoutSeconds: DefaultQueryTimeoutSeconds,
	}

	// Load from JSON config file if specified
	if path := getEnv("ADE_CONFIG", ""); path != "" {
		if err := loadJSON(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func loadJSON(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("ADE_HOST", ""); v != "" {
		cfg.Host = v
	}
	if v := getEnv("ADE_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := getEnv("ADE_ENV", ""); v != "" {
		cfg.Environment = v
	}
	if v := getEnv("ADE_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("ADE_API_KEYS", ""); v != "" {
		cfg.APIKeys = strings.Split(v, ",")
		cfg.EnableAuth = true
	}
	if v := getEnv("ENABLE_AUTH", ""); v != "" {
		cfg.EnableAuth = v == "true" || v == "1"
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		if r, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerMinute = r
		}
	}
	if v := getEnv("WAREHOUSE_BACKEND", ""); v != "" {
		cfg.WarehouseBackend = v
	}
	if v := getEnv("WAREHOUSE_DSN", ""); v != "" {
		cfg.WarehouseDSN = v
	}
	if v := getEnv("WAREHOUSE_SCHEMA", ""); v != "" {
		cfg.WarehouseSchema = v
	}
	if v := getEnv("GCP_PROJECT_ID", ""); v != "" {
		cfg.GCPProjectID = v
	}
	if v := getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""); v != "" {
		cfg.GoogleApplicationCredentials = v
	}
	if v := getEnv("BIGQUERY_DATASET", ""); v != "" {
		cfg.BigQueryDataset = v
	}
	if v := getEnv("ANTHROPIC_API_KEY", ""); v != "" {
		cfg.AnthropicAPIKey = v
	}
	if v := getEnv("ANTHROPIC_BASE_URL", ""); v != "" {
		cfg.AnthropicBaseURL = v
	}
	if v := getEnv("ADE_MODEL", ""); v != "" {
		cfg.ModelName = v
	}
	if v := getEnv("ADE_MAX_CONCURRENT_CALLS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxConcurrentCalls = n
		}
	}
	if v := getEnv("ENABLE_AUDIT_LOGGING", ""); v != "" {
		cfg.EnableAuditLogging = v == "true" || v == "1"
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
