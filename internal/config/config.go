package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env        string
	LogLevel   string
	ListenAddr string

	// Record store: file by default, Postgres when DATABASE_URL is set and
	// CRM_BACKEND=postgres.
	CrmBackend  string
	CrmDataPath string
	DatabaseURL string
	OutputsDir  string

	SourceTimeout    time.Duration
	FollowUpInterval time.Duration

	ClaudeAPIKey string
	ClaudeModel  string
	OpenAIAPIKey string
	OpenAIModel  string

	NewsAPIKey           string
	GoogleAPIKey         string
	GoogleSearchEngineID string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string

	CalendarToken   string
	CalendarID      string
	MeetingPlatform string

	RabbitURL string

	KommoBaseURL  string
	KommoAPIToken string
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:        getenv("APP_ENV", "development"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
		ListenAddr: getenv("LISTEN_ADDR", ":8080"),

		CrmBackend:  strings.ToLower(getenv("CRM_BACKEND", "file")),
		CrmDataPath: getenv("CRM_DATA_PATH", "data/crm_data.json"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		OutputsDir:  getenv("OUTPUTS_DIR", "data/outputs"),

		SourceTimeout:    getenvDuration("SOURCE_TIMEOUT", 15*time.Second),
		FollowUpInterval: getenvDuration("FOLLOWUP_INTERVAL", time.Hour),

		ClaudeAPIKey: os.Getenv("CLAUDE_API_KEY"),
		ClaudeModel:  getenv("CLAUDE_MODEL", "claude-3-opus-20240229"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getenv("OPENAI_MODEL", "gpt-4"),

		NewsAPIKey:           os.Getenv("NEWS_API_KEY"),
		GoogleAPIKey:         os.Getenv("GOOGLE_API_KEY"),
		GoogleSearchEngineID: os.Getenv("GOOGLE_SEARCH_ENGINE_ID"),

		SMTPHost:     getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getenvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		FromEmail:    os.Getenv("FROM_EMAIL"),

		CalendarToken:   os.Getenv("GOOGLE_CALENDAR_TOKEN"),
		CalendarID:      getenv("GOOGLE_CALENDAR_ID", "primary"),
		MeetingPlatform: strings.ToLower(getenv("MEETING_PLATFORM", "mock")),

		RabbitURL: os.Getenv("RABBITMQ_URL"),

		KommoBaseURL:  os.Getenv("KOMMO_BASE_URL"),
		KommoAPIToken: os.Getenv("KOMMO_API_TOKEN"),
	}

	if cfg.CrmBackend == "postgres" && cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("CRM_BACKEND=postgres requires DATABASE_URL")
	}
	return cfg, nil
}

func (c Config) SMTPConfigured() bool {
	return c.SMTPUsername != "" && c.SMTPPassword != "" && c.FromEmail != ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		if _, err := fmt.Sscanf(v, "%d", &out); err == nil {
			return out
		}
	}
	return def
}

// getenvDuration accepts Go durations ("90s") or plain seconds ("90").
func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n := getenvInt(key, 0); n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
