package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings are the automation toggles, read once at startup from the
// JSON settings file (when present) merged over these defaults.
type Settings struct {
	AutoGenerate            bool `json:"auto_generate"`
	AutoUpload              bool `json:"auto_upload"`
	GenerationIntervalHours int  `json:"generation_interval_hours"`
	UploadIntervalHours     int  `json:"upload_interval_hours"`
	MaxDailyProducts        int  `json:"max_daily_products"`
	PriceOptimization       bool `json:"price_optimization"`
	SEOOptimization         bool `json:"seo_optimization"`
	WebhookNotifications    bool `json:"webhook_notifications"`
}

// Config holds all application configuration. It is built once in Load
// and passed by reference to every component constructor; nothing reads
// the environment after startup.
type Config struct {
	OpenAIKey     string
	WhopAPIKey    string
	WhopCompanyID string
	WhopBaseURL   string
	WebhookURL    string

	ProductsDir string
	OutputDir   string
	LogsDir     string
	ReportsDir  string

	UploadDelayMs   int
	OptimizeDelayMs int
	GenerateDelayMs int

	CSVExportPath string
	HistoryDSN    string

	Settings Settings
}

// DefaultSettings returns the documented automation defaults.
func DefaultSettings() Settings {
	return Settings{
		AutoGenerate:            true,
		AutoUpload:              true,
		GenerationIntervalHours: 6,
		UploadIntervalHours:     2,
		MaxDailyProducts:        10,
		PriceOptimization:       true,
		SEOOptimization:         true,
		WebhookNotifications:    true,
	}
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
		WhopAPIKey:    getEnv("WHOP_API_KEY", ""),
		WhopCompanyID: getEnv("WHOP_COMPANY_ID", ""),
		WhopBaseURL:   getEnv("WHOP_BASE_URL", "https://api.whop.com/api/v5"),
		WebhookURL:    getEnv("WEBHOOK_URL", ""),

		ProductsDir: getEnv("PRODUCTS_DIR", "./generated_products"),
		OutputDir:   getEnv("OUTPUT_DIR", "./output"),
		LogsDir:     getEnv("LOGS_DIR", "./logs"),
		ReportsDir:  getEnv("REPORTS_DIR", "./reports"),

		UploadDelayMs:   getEnvInt("UPLOAD_DELAY_MS", 2000),
		OptimizeDelayMs: getEnvInt("OPTIMIZE_DELAY_MS", 1000),
		GenerateDelayMs: getEnvInt("GENERATE_DELAY_MS", 2000),

		CSVExportPath: getEnv("CSV_EXPORT_PATH", "./output/upload_results.csv"),
		HistoryDSN:    getEnv("HISTORY_DSN", ""),

		Settings: LoadSettings(getEnv("SETTINGS_PATH", "./config/automation.json")),
	}
}

// LoadSettings merges the JSON settings file at path over the defaults.
// A missing file is not an error; a malformed one falls back to defaults.
func LoadSettings(path string) Settings {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return settings
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		log.Printf("[config] Ignoring malformed settings file %s: %v", path, err)
		return DefaultSettings()
	}
	return settings
}

// ValidateCredentials checks the credentials required before any work
// begins. The returned error names the missing variable.
func (c *Config) ValidateCredentials() error {
	if c.OpenAIKey == "" {
		return fmt.Errorf("missing required credential: OPENAI_API_KEY")
	}
	if c.WhopAPIKey == "" {
		return fmt.Errorf("missing required credential: WHOP_API_KEY")
	}
	if c.WhopCompanyID == "" {
		return fmt.Errorf("missing required credential: WHOP_COMPANY_ID")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
