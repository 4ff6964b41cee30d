package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server        Server
	Database      Database
	Auth          Auth
	LLM           LLM
	Transcription Transcription
	Quota         Quota
	Tracing       Tracing
	RateLimit     RateLimit
	LogLevel      string
	LogPretty     bool
}

type Server struct {
	Port         string `validate:"required,numeric"`
	Mode         string `validate:"oneof=debug release test"`
	AdminToken   string
	RequestLimit time.Duration `validate:"gt=0"`
}

type Database struct {
	Driver          string `validate:"oneof=postgres sqlite"`
	Host            string `validate:"required_if=Driver postgres"`
	Port            string `validate:"required_if=Driver postgres"`
	User            string `validate:"required_if=Driver postgres"`
	Password        string
	Name            string `validate:"required"`
	SSLMode         string
	MaxOpenConns    int `validate:"gte=0"`
	MaxIdleConns    int `validate:"gte=0"`
	ConnMaxLifetime time.Duration
}

type Auth struct {
	JWTSecret string `validate:"required,min=16"`
}

type LLM struct {
	Provider       string `validate:"oneof=gemini openai"`
	GeminiApiKey   string `validate:"required_if=Provider gemini"`
	GeminiModel    string
	OpenAIApiKey   string `validate:"required_if=Provider openai"`
	OpenAIModel    string
	OpenAIBaseURL  string `validate:"omitempty,url"`
	Timeout        time.Duration `validate:"gt=0"`
	MaxConcurrency int           `validate:"gt=0"`
	MaxRetries     uint
}

type Transcription struct {
	Provider        string `validate:"oneof=assemblyai gcp mock"`
	AssemblyAIKey   string `validate:"required_if=Provider assemblyai"`
	AssemblyAIURL   string `validate:"omitempty,url"`
	GCPLanguageCode string
	PollInterval    time.Duration `validate:"gt=0"`
	MaxPollAttempts int           `validate:"gt=0"`
	CallTimeout     time.Duration `validate:"gt=0"`
}

// Budget is the longest one transcription may take, polling included.
func (t Transcription) Budget() time.Duration {
	return t.PollInterval*time.Duration(t.MaxPollAttempts) + t.CallTimeout
}

type Quota struct {
	Backend        string `validate:"oneof=sql redis"`
	RedisAddr      string `validate:"required_if=Backend redis"`
	RedisPassword  string
	DefaultTier    string `validate:"required"`
	TierAllowances map[string]int
}

type Tracing struct {
	Enabled     bool
	ServiceName string
}

type RateLimit struct {
	RequestsPerSecond float64 `validate:"gte=0"`
	Burst             int     `validate:"gte=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_REQUEST_LIMIT", "120s")

	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 20)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")

	v.SetDefault("LLM_PROVIDER", "gemini")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("LLM_TIMEOUT", "45s")
	v.SetDefault("LLM_MAX_CONCURRENCY", 8)
	v.SetDefault("LLM_MAX_RETRIES", 2)

	v.SetDefault("TRANSCRIPTION_PROVIDER", "assemblyai")
	v.SetDefault("ASSEMBLYAI_URL", "https://api.assemblyai.com/v2")
	v.SetDefault("GCP_SPEECH_LANGUAGE_CODE", "en-US")
	v.SetDefault("TRANSCRIPTION_POLL_INTERVAL", "2s")
	v.SetDefault("TRANSCRIPTION_MAX_POLL_ATTEMPTS", 25)
	v.SetDefault("TRANSCRIPTION_CALL_TIMEOUT", "10s")

	v.SetDefault("QUOTA_BACKEND", "sql")
	v.SetDefault("QUOTA_DEFAULT_TIER", "free")
	v.SetDefault("QUOTA_TIER_ALLOWANCES", "free=5,premium=-1")

	v.SetDefault("TRACING_SERVICE_NAME", "pte-scorer")
	v.SetDefault("RATE_LIMIT_RPS", 2)
	v.SetDefault("RATE_LIMIT_BURST", 5)

	v.SetDefault("LOG_LEVEL", "info")
}

// NewConfig loads configuration from a .env file in the working directory
// and the process environment, environment taking precedence.
func NewConfig() (*Config, error) {
	return Load(".")
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(path)

	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = v.GetString("SERVER_PORT")
	config.Server.Mode = v.GetString("SERVER_MODE")
	config.Server.AdminToken = v.GetString("ADMIN_TOKEN")
	config.Server.RequestLimit = v.GetDuration("SERVER_REQUEST_LIMIT")

	config.Database.Driver = v.GetString("DATABASE_DRIVER")
	config.Database.Host = v.GetString("DATABASE_HOST")
	config.Database.Port = v.GetString("DATABASE_PORT")
	config.Database.User = v.GetString("DATABASE_USER")
	config.Database.Password = v.GetString("DATABASE_PASSWORD")
	config.Database.Name = v.GetString("DATABASE_NAME")
	config.Database.SSLMode = v.GetString("DATABASE_SSLMODE")
	config.Database.MaxOpenConns = v.GetInt("DATABASE_MAX_OPEN_CONNS")
	config.Database.MaxIdleConns = v.GetInt("DATABASE_MAX_IDLE_CONNS")
	config.Database.ConnMaxLifetime = v.GetDuration("DATABASE_CONN_MAX_LIFETIME")

	config.Auth.JWTSecret = v.GetString("JWT_SECRET")

	config.LLM.Provider = v.GetString("LLM_PROVIDER")
	config.LLM.GeminiApiKey = v.GetString("GEMINI_API_KEY")
	config.LLM.GeminiModel = v.GetString("GEMINI_MODEL")
	config.LLM.OpenAIApiKey = v.GetString("OPENAI_API_KEY")
	config.LLM.OpenAIModel = v.GetString("OPENAI_MODEL")
	config.LLM.OpenAIBaseURL = v.GetString("OPENAI_BASE_URL")
	config.LLM.Timeout = v.GetDuration("LLM_TIMEOUT")
	config.LLM.MaxConcurrency = v.GetInt("LLM_MAX_CONCURRENCY")
	config.LLM.MaxRetries = v.GetUint("LLM_MAX_RETRIES")

	config.Transcription.Provider = v.GetString("TRANSCRIPTION_PROVIDER")
	config.Transcription.AssemblyAIKey = v.GetString("ASSEMBLYAI_API_KEY")
	config.Transcription.AssemblyAIURL = v.GetString("ASSEMBLYAI_URL")
	config.Transcription.GCPLanguageCode = v.GetString("GCP_SPEECH_LANGUAGE_CODE")
	config.Transcription.PollInterval = v.GetDuration("TRANSCRIPTION_POLL_INTERVAL")
	config.Transcription.MaxPollAttempts = v.GetInt("TRANSCRIPTION_MAX_POLL_ATTEMPTS")
	config.Transcription.CallTimeout = v.GetDuration("TRANSCRIPTION_CALL_TIMEOUT")

	config.Quota.Backend = v.GetString("QUOTA_BACKEND")
	config.Quota.RedisAddr = v.GetString("REDIS_ADDR")
	config.Quota.RedisPassword = v.GetString("REDIS_PASSWORD")
	config.Quota.DefaultTier = v.GetString("QUOTA_DEFAULT_TIER")
	allowances, err := parseTierAllowances(v.GetString("QUOTA_TIER_ALLOWANCES"))
	if err != nil {
		return nil, err
	}
	config.Quota.TierAllowances = allowances

	config.Tracing.Enabled = v.GetBool("TRACING_ENABLED")
	config.Tracing.ServiceName = v.GetString("TRACING_SERVICE_NAME")

	config.RateLimit.RequestsPerSecond = v.GetFloat64("RATE_LIMIT_RPS")
	config.RateLimit.Burst = v.GetInt("RATE_LIMIT_BURST")

	config.LogLevel = v.GetString("LOG_LEVEL")
	config.LogPretty = v.GetBool("LOG_PRETTY")

	if err := config.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("port", config.Server.Port).
		Str("db_driver", config.Database.Driver).
		Str("llm_provider", config.LLM.Provider).
		Str("transcription_provider", config.Transcription.Provider).
		Str("quota_backend", config.Quota.Backend).
		Msg("Config loaded")
	return &config, nil
}

// Validate checks struct-level constraints, that the default tier has an allowance and
// that transcription plus scoring fit inside the request limit.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if pipeline := c.Transcription.Budget() + c.LLM.Timeout; pipeline >= c.Server.RequestLimit {
		return fmt.Errorf("invalid configuration: transcription budget %s plus LLM timeout %s must be below SERVER_REQUEST_LIMIT %s",
			c.Transcription.Budget(), c.LLM.Timeout, c.Server.RequestLimit)
	}
	if _, ok := c.Quota.TierAllowances[strings.ToLower(c.Quota.DefaultTier)]; !ok {
		return fmt.Errorf("invalid configuration: default tier %q has no allowance in QUOTA_TIER_ALLOWANCES", c.Quota.DefaultTier)
	}
	return nil
}

// parseTierAllowances parses "free=5,premium=-1". A negative allowance means unlimited.
func parseTierAllowances(raw string) (map[string]int, error) {
	out := make(map[string]int)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid tier allowance %q: expected name=count", pair)
		}
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(value), "%d", &n); err != nil {
			return nil, fmt.Errorf("invalid tier allowance %q: %w", pair, err)
		}
		out[strings.ToLower(strings.TrimSpace(name))] = n
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("QUOTA_TIER_ALLOWANCES must define at least one tier")
	}
	return out, nil
}
