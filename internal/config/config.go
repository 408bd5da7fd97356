// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every runtime setting the server reads from the
// environment. Values have working defaults so a bare local run only
// needs MongoDB.
type Config struct {
	Port     string
	MongoURL string
	DBName   string

	CORSOrigins []string

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string
	StatusCallbackURL    string

	MaxMessagesPerSecond int
	UploadDir            string
	SchedulerInterval    time.Duration
}

func Load() *Config {
	return &Config{
		Port:     getString("PORT", "8080"),
		MongoURL: getString("MONGO_URL", "mongodb://localhost:27017"),
		DBName:   getString("DB_NAME", "wasend"),

		CORSOrigins: splitCSV(getString("CORS_ORIGINS", "*")),

		TwilioAccountSID:     getString("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:      getString("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppNumber: getString("TWILIO_WHATSAPP_NUMBER", "whatsapp:+14155238886"),
		StatusCallbackURL:    getString("STATUS_CALLBACK_URL", ""),

		MaxMessagesPerSecond: getInt("MAX_MESSAGES_PER_SECOND", 80),
		UploadDir:            getString("UPLOAD_DIR", "./uploads"),
		SchedulerInterval:    time.Duration(getInt("SCHEDULER_POLL_SECONDS", 30)) * time.Second,
	}
}

// TwilioConfigured reports whether the environment carries full Twilio
// credentials.
func (c *Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != ""
}

func getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
