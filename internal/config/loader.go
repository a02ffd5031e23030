package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr        string   `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel    string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	StaticDir   string   `json:"static_dir" yaml:"static_dir" toml:"static_dir"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`

	// MaxUploadMB bounds an uploaded image; RequestTimeoutSeconds caps one
	// analysis or follow-up including backoff (0 disables).
	MaxUploadMB           int `json:"max_upload_mb" yaml:"max_upload_mb" toml:"max_upload_mb"`
	RequestTimeoutSeconds int `json:"request_timeout_seconds" yaml:"request_timeout_seconds" toml:"request_timeout_seconds"`

	EnableDB    bool   `json:"enable_db" yaml:"enable_db" toml:"enable_db"`
	DatabaseURL string `json:"database_url" yaml:"database_url" toml:"database_url"`

	GenAI GenAI `json:"genai" yaml:"genai" toml:"genai"`
}

// GenAI configures the upstream models and the retry policy.
type GenAI struct {
	APIKey         string   `json:"api_key" yaml:"api_key" toml:"api_key"`
	BaseURL        string   `json:"base_url" yaml:"base_url" toml:"base_url"`
	TimeoutSeconds int      `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
	AnalysisModels []string `json:"analysis_models" yaml:"analysis_models" toml:"analysis_models"`
	FollowUpModels []string `json:"followup_models" yaml:"followup_models" toml:"followup_models"`

	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" toml:"max_attempts"`
	BaseDelayMS int `json:"base_delay_ms" yaml:"base_delay_ms" toml:"base_delay_ms"`
	MaxDelayMS  int `json:"max_delay_ms" yaml:"max_delay_ms" toml:"max_delay_ms"`

	QuestionsMaxTokens int      `json:"questions_max_tokens" yaml:"questions_max_tokens" toml:"questions_max_tokens"`
	FoodsMaxTokens     int      `json:"foods_max_tokens" yaml:"foods_max_tokens" toml:"foods_max_tokens"`
	CausesMaxTokens    int      `json:"causes_max_tokens" yaml:"causes_max_tokens" toml:"causes_max_tokens"`
	Temperature        *float64 `json:"temperature" yaml:"temperature" toml:"temperature"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil { return cfg, err }
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil { return cfg, err }
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil { return cfg, err }
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Defaults returns the configuration used when nothing else is specified.
// Model lists, retry and token limits stay zero so the service applies its own.
func Defaults() Config {
	return Config{
		Addr:        ":8080",
		LogLevel:    "info",
		MaxUploadMB: 10,
	}
}

// WithDefaults fills unset fields from Defaults.
func (c Config) WithDefaults() Config {
	d := Defaults()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = d.MaxUploadMB
	}
	return c
}

// LoadDotEnv loads .env style files into the process environment. Missing
// files are ignored; existing variables win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// apiKeyVars are checked in order; the last one is what the web client used.
var apiKeyVars = []string{"GOOGLE_GENAI_API_KEY", "SMARTDERM_API_KEY", "REACT_APP_GOOGLE_GENAI_API_KEY"}

// ApplyEnv overlays environment variables on c. getenv is usually os.Getenv.
func (c Config) ApplyEnv(getenv func(string) string) Config {
	for _, k := range apiKeyVars {
		if v := getenv(k); v != "" {
			c.GenAI.APIKey = v
			break
		}
	}
	if v := getenv("SMARTDERM_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("SMARTDERM_GENAI_BASE_URL"); v != "" {
		c.GenAI.BaseURL = v
	}
	if v := getenv("SMARTDERM_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("SMARTDERM_STATIC_DIR"); v != "" {
		c.StaticDir = v
	}
	if v := getenv("SMARTDERM_CORS_ORIGINS"); v != "" {
		c.CORSOrigins = SplitCSV(v)
	}
	if v := getenv("ENABLE_DB"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.EnableDB = b
		}
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	return c
}

// SplitCSV splits a comma-separated list, trimming spaces and dropping empties.
func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	if c.EnableDB && c.DatabaseURL == "" {
		return fmt.Errorf("enable_db is set but database_url is empty")
	}
	if c.GenAI.MaxDelayMS > 0 && c.GenAI.BaseDelayMS > c.GenAI.MaxDelayMS {
		return fmt.Errorf("base_delay_ms (%d) exceeds max_delay_ms (%d)", c.GenAI.BaseDelayMS, c.GenAI.MaxDelayMS)
	}
	if t := c.GenAI.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("temperature must be within [0, 2], got %g", *t)
	}
	return nil
}
