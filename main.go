package main

import (
	"log"
	"net/http"

	"wellness-diary/internal/ai"
	"wellness-diary/internal/config"
	"wellness-diary/internal/cron"
	"wellness-diary/internal/handlers"
	"wellness-diary/internal/insights"
	"wellness-diary/internal/notify"
	"wellness-diary/internal/scheduler"
	"wellness-diary/internal/storage"
	"wellness-diary/internal/utils"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // CRON_SECRET, OPENAI_API_KEY etc.

	cfg := config.Load()

	db, err := storage.New(cfg.DBPath)
	utils.Must(err)
	defer db.Close()

	analyzer := ai.NewAnalyzer(cfg.OpenAIKey, cfg.OpenAIModel)
	gateway := buildGateway(cfg)

	pipeline := &insights.Pipeline{DB: db, Analyzer: analyzer}
	runner := &cron.Runner{
		DB:           db,
		Gateway:      gateway,
		Pipeline:     pipeline,
		AnalysisHour: cfg.AnalysisHour,
	}

	s, err := scheduler.Start(runner)
	utils.Must(err)
	defer func() { _ = s.Shutdown() }()

	journalHandler := handlers.NewJournalHandler(db, analyzer)
	reminderHandler := handlers.NewReminderHandler(db)
	settingsHandler := handlers.NewSettingsHandler(db)
	insightHandler := handlers.NewInsightHandler(db, pipeline)
	cronHandler := handlers.NewCronHandler(runner, cfg.CronSecret)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /api/cron", cronHandler.Trigger)
	mux.HandleFunc("POST /api/notifications/check", cronHandler.CheckNotifications)

	mux.HandleFunc("GET /api/journal", journalHandler.List)
	mux.HandleFunc("POST /api/journal", journalHandler.Create)
	mux.HandleFunc("GET /api/journal/{id}", journalHandler.Get)
	mux.HandleFunc("PUT /api/journal/{id}", journalHandler.Update)
	mux.HandleFunc("DELETE /api/journal/{id}", journalHandler.Delete)

	mux.HandleFunc("GET /api/reminders", reminderHandler.List)
	mux.HandleFunc("POST /api/reminders", reminderHandler.Create)
	mux.HandleFunc("GET /api/reminders/{id}", reminderHandler.Get)
	mux.HandleFunc("PUT /api/reminders/{id}", reminderHandler.Update)
	mux.HandleFunc("PATCH /api/reminders/{id}", reminderHandler.Toggle)
	mux.HandleFunc("DELETE /api/reminders/{id}", reminderHandler.Delete)

	mux.HandleFunc("GET /api/settings", settingsHandler.Get)
	mux.HandleFunc("PUT /api/settings", settingsHandler.Update)

	mux.HandleFunc("GET /api/insights", insightHandler.List)
	mux.HandleFunc("POST /api/insights/generate", insightHandler.Generate)
	mux.HandleFunc("PATCH /api/insights/{id}", insightHandler.Patch)
	mux.HandleFunc("DELETE /api/insights/{id}", insightHandler.Delete)

	log.Println("listening on", cfg.HTTPAddr)
	utils.Must(http.ListenAndServe(cfg.HTTPAddr, mux))
}

// buildGateway picks the notification transport: Telegram when a bot token is
// configured, Twilio SMS when its credentials are, else a disabled gateway
// that reports every send as failed.
func buildGateway(cfg config.Config) notify.Gateway {
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramToken)
		if err != nil {
			log.Println("notify: telegram init failed, notifications disabled:", err)
			return notify.Disabled{}
		}
		return tg
	}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		return notify.NewTwilio(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
	}
	return notify.Disabled{}
}
