package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Checker    CheckerConfig
	Rasterizer RasterizerConfig
	S3         S3Config
	Log        LogConfig
	CORS       CORSConfig
	Runs       RunsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	Environment    string        `mapstructure:"environment"`
	MaxUploadMB    int64         `mapstructure:"max_upload_mb"`
	MaxFilesPerRun int           `mapstructure:"max_files_per_run"`
}

// CheckerConfig holds settings for the vision model provider and the
// request parameters sent with every image.
type CheckerConfig struct {
	Provider     string  `mapstructure:"provider"`
	APIKey       string  `mapstructure:"api_key"`
	DefaultModel string  `mapstructure:"default_model"`
	TimeoutSecs  int     `mapstructure:"timeout_secs"`
	MaxTokens    int     `mapstructure:"max_tokens"`
	Temperature  float64 `mapstructure:"temperature"`
	Detail       string  `mapstructure:"detail"`
	PromptFile   string  `mapstructure:"prompt_file"`
	Concurrency  int     `mapstructure:"concurrency"`
	SecretsFile  string  `mapstructure:"secrets_file"`
}

// WithAPIKey returns a copy of the config using the given key.
func (c CheckerConfig) WithAPIKey(key string) *CheckerConfig {
	c.APIKey = key
	return &c
}

// RasterizerConfig holds PDF rendering settings.
type RasterizerConfig struct {
	DPI float64 `mapstructure:"dpi"`
}

// S3Config holds settings for publishing exports to S3.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Prefix        string `mapstructure:"prefix"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// Enabled reports whether export publishing is configured.
func (s *S3Config) Enabled() bool {
	return s.Bucket != ""
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RunsConfig bounds the in-memory run history.
type RunsConfig struct {
	MaxRetained int `mapstructure:"max_retained"`
}

// Load reads configuration from environment variables with the CREATIVECHECK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CREATIVECHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "10m")
	v.SetDefault("server.write_timeout", "10m")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 50)
	v.SetDefault("server.max_files_per_run", 20)

	// Checker defaults
	v.SetDefault("checker.provider", "openai")
	v.SetDefault("checker.api_key", "")
	v.SetDefault("checker.default_model", "")
	v.SetDefault("checker.timeout_secs", 120)
	v.SetDefault("checker.max_tokens", 2000)
	v.SetDefault("checker.temperature", 0.1)
	v.SetDefault("checker.detail", "high")
	v.SetDefault("checker.prompt_file", "")
	v.SetDefault("checker.concurrency", 1)
	v.SetDefault("checker.secrets_file", ".streamlit/secrets.toml")

	// Rasterizer defaults (2x the PDF base resolution of 72 dpi)
	v.SetDefault("rasterizer.dpi", 144)

	// S3 defaults
	v.SetDefault("s3.region", "ap-northeast-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.prefix", "exports")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:8501")

	v.SetDefault("runs.max_retained", 100)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "CREATIVECHECK_SERVER_PORT",
		"server.read_timeout":      "CREATIVECHECK_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "CREATIVECHECK_SERVER_WRITE_TIMEOUT",
		"server.environment":       "CREATIVECHECK_SERVER_ENVIRONMENT",
		"server.max_upload_mb":     "CREATIVECHECK_SERVER_MAX_UPLOAD_MB",
		"server.max_files_per_run": "CREATIVECHECK_SERVER_MAX_FILES_PER_RUN",
		"checker.provider":         "CREATIVECHECK_CHECKER_PROVIDER",
		"checker.api_key":          "CREATIVECHECK_CHECKER_API_KEY",
		"checker.default_model":    "CREATIVECHECK_CHECKER_DEFAULT_MODEL",
		"checker.timeout_secs":     "CREATIVECHECK_CHECKER_TIMEOUT_SECS",
		"checker.max_tokens":       "CREATIVECHECK_CHECKER_MAX_TOKENS",
		"checker.temperature":      "CREATIVECHECK_CHECKER_TEMPERATURE",
		"checker.detail":           "CREATIVECHECK_CHECKER_DETAIL",
		"checker.prompt_file":      "CREATIVECHECK_CHECKER_PROMPT_FILE",
		"checker.concurrency":      "CREATIVECHECK_CHECKER_CONCURRENCY",
		"checker.secrets_file":     "CREATIVECHECK_CHECKER_SECRETS_FILE",
		"rasterizer.dpi":           "CREATIVECHECK_RASTERIZER_DPI",
		"s3.region":                "CREATIVECHECK_S3_REGION",
		"s3.bucket":                "CREATIVECHECK_S3_BUCKET",
		"s3.endpoint":              "CREATIVECHECK_S3_ENDPOINT",
		"s3.access_key":            "CREATIVECHECK_S3_ACCESS_KEY",
		"s3.secret_key":            "CREATIVECHECK_S3_SECRET_KEY",
		"s3.prefix":                "CREATIVECHECK_S3_PREFIX",
		"s3.presign_expiry":        "CREATIVECHECK_S3_PRESIGN_EXPIRY",
		"log.level":                "CREATIVECHECK_LOG_LEVEL",
		"log.format":               "CREATIVECHECK_LOG_FORMAT",
		"cors.allowed_origins":     "CREATIVECHECK_CORS_ALLOWED_ORIGINS",
		"runs.max_retained":        "CREATIVECHECK_RUNS_MAX_RETAINED",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if CREATIVECHECK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CREATIVECHECK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:           serverPort,
		ReadTimeout:    v.GetDuration("server.read_timeout"),
		WriteTimeout:   v.GetDuration("server.write_timeout"),
		Environment:    v.GetString("server.environment"),
		MaxUploadMB:    v.GetInt64("server.max_upload_mb"),
		MaxFilesPerRun: v.GetInt("server.max_files_per_run"),
	}

	cfg.Checker = CheckerConfig{
		Provider:     strings.ToLower(v.GetString("checker.provider")),
		APIKey:       v.GetString("checker.api_key"),
		DefaultModel: v.GetString("checker.default_model"),
		TimeoutSecs:  v.GetInt("checker.timeout_secs"),
		MaxTokens:    v.GetInt("checker.max_tokens"),
		Temperature:  v.GetFloat64("checker.temperature"),
		Detail:       v.GetString("checker.detail"),
		PromptFile:   v.GetString("checker.prompt_file"),
		Concurrency:  v.GetInt("checker.concurrency"),
		SecretsFile:  v.GetString("checker.secrets_file"),
	}
	if cfg.Checker.Concurrency < 1 {
		cfg.Checker.Concurrency = 1
	}

	cfg.Rasterizer = RasterizerConfig{
		DPI: v.GetFloat64("rasterizer.dpi"),
	}

	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		Prefix:        strings.Trim(v.GetString("s3.prefix"), "/"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Runs = RunsConfig{
		MaxRetained: v.GetInt("runs.max_retained"),
	}

	return cfg, nil
}
