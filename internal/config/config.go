package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DBPath       string
	HTTPAddr     string
	CronSecret   string
	AnalysisHour int

	OpenAIKey   string
	OpenAIModel string

	TelegramToken string

	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
}

func Load() Config {
	cfg := Config{
		DBPath:            env("DB_PATH", "wellness.db"),
		HTTPAddr:          env("HTTP_ADDR", ":8080"),
		CronSecret:        strings.TrimSpace(os.Getenv("CRON_SECRET")),
		AnalysisHour:      20,
		OpenAIKey:         strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:       env("OPENAI_MODEL", "gpt-4o-mini"),
		TelegramToken:     getTelegramToken(),
		TwilioAccountSID:  strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID")),
		TwilioAuthToken:   strings.TrimSpace(os.Getenv("TWILIO_AUTH_TOKEN")),
		TwilioPhoneNumber: strings.TrimSpace(os.Getenv("TWILIO_PHONE_NUMBER")),
	}

	if v := strings.TrimSpace(os.Getenv("ANALYSIS_HOUR")); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			cfg.AnalysisHour = h
		}
	}

	return cfg
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// getTelegramToken prefers the Docker secret over the environment variable.
func getTelegramToken() string {
	if data, err := os.ReadFile("/run/secrets/telegram_bot_token"); err == nil {
		if token := strings.TrimSpace(string(data)); token != "" {
			return token
		}
	}
	return strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
}
