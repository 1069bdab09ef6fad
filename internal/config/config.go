package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/SahilxSingh/EduConnect/pkg/database"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// DefaultGeminiModels is the fallback order used when GEMINI_MODELS is unset.
var DefaultGeminiModels = []string{
	"gemini-2.5-flash",
	"gemini-2.5-pro-preview-06-05",
	"gemini-2.5-pro-preview-05-06",
	"gemini-2.5-pro-preview-03-25",
}

type Config struct {
	AppEnv         string `koanf:"app_env" validate:"required,oneof=development production test"`
	Port           string `koanf:"port" validate:"required,numeric"`
	AllowedOrigins string `koanf:"allowed_origins"`
	LogLevel       string `koanf:"log_level" validate:"omitempty,oneof=trace debug info warn error"`

	DBHost    string `koanf:"db_host" validate:"required"`
	DBPort    string `koanf:"db_port" validate:"required,numeric"`
	DBUser    string `koanf:"db_user" validate:"required"`
	DBPass    string `koanf:"db_pass"`
	DBName    string `koanf:"db_name" validate:"required"`
	DBSSLMode string `koanf:"db_sslmode"`

	RedisURL string `koanf:"redis_url" validate:"omitempty,url"`

	GeminiAPIKey    string `koanf:"gemini_api_key"`
	GeminiModelList string `koanf:"gemini_models"`

	ClerkSecretKey string `koanf:"clerk_secret_key"`
	JWTSecret      string `koanf:"jwt_secret"`

	MeiliSearchHost string `koanf:"meilisearch_host"`
	MeiliMasterKey  string `koanf:"meili_master_key"`

	CloudinaryURL          string `koanf:"cloudinary_url" validate:"omitempty,startswith=cloudinary://"`
	CloudinaryUploadFolder string `koanf:"cloudinary_upload_folder"`
	MaxUploadBytes         int64  `koanf:"max_upload_bytes" validate:"gte=0"`

	RateLimitPostRaw string `koanf:"rate_limit_post"`
	RateLimitAskRaw  string `koanf:"rate_limit_ask"`

	NoticeFeedURL      string `koanf:"notice_feed_url" validate:"omitempty,url"`
	NoticeFeedSchedule string `koanf:"notice_feed_schedule"`
	ReminderSchedule   string `koanf:"reminder_schedule"`
	CleanupSchedule    string `koanf:"cleanup_schedule"`

	PublicAPIBaseURL string `koanf:"public_api_base_url"`

	// Parsed values.
	RateLimitPost time.Duration `koanf:"-"`
	RateLimitAsk  time.Duration `koanf:"-"`
	GeminiModels  []string      `koanf:"-"`
	Origins       []string      `koanf:"-"`
}

// Load reads the process environment (and an optional .env file) into a
// validated Config.
func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var err error
	cfg.RateLimitPost, err = time.ParseDuration(cfg.RateLimitPostRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_POST: %w", err)
	}
	cfg.RateLimitAsk, err = time.ParseDuration(cfg.RateLimitAskRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_ASK: %w", err)
	}

	cfg.GeminiModels = splitList(cfg.GeminiModelList)
	if len(cfg.GeminiModels) == 0 {
		cfg.GeminiModels = append([]string(nil), DefaultGeminiModels...)
	}
	cfg.Origins = splitList(cfg.AllowedOrigins)

	return cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.AppEnv, "development")
	setDefault(&c.Port, "8080")
	setDefault(&c.AllowedOrigins, "http://localhost:3000")
	setDefault(&c.LogLevel, "info")
	setDefault(&c.DBPort, "5432")
	setDefault(&c.DBSSLMode, "disable")
	setDefault(&c.CloudinaryUploadFolder, "educonnect")
	setDefault(&c.RateLimitPostRaw, "10s")
	setDefault(&c.RateLimitAskRaw, "5s")
	setDefault(&c.NoticeFeedSchedule, "0 */6 * * *")
	setDefault(&c.ReminderSchedule, "0 8 * * *")
	setDefault(&c.CleanupSchedule, "30 3 * * *")
	if c.MaxUploadBytes == 0 {
		c.MaxUploadBytes = 10 << 20
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) Database() database.Options {
	return database.Options{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPass,
		Name:     c.DBName,
		SSLMode:  c.DBSSLMode,
		Debug:    c.AppEnv == "development" && c.LogLevel == "debug",
	}
}

// MeiliHost normalises MEILISEARCH_HOST, accepting a bare hostname.
func (c *Config) MeiliHost() string {
	host := strings.TrimSpace(c.MeiliSearchHost)
	if host == "" {
		return ""
	}
	if !strings.HasPrefix(host, "http") {
		host = "http://" + host + ":7700"
	}
	return host
}

func setDefault(field *string, fallback string) {
	if strings.TrimSpace(*field) == "" {
		*field = fallback
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Hostname is used to tag log lines from this process.
func Hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
