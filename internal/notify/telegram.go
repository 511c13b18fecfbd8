package notify

import (
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram delivers notifications through a Telegram bot. The destination is
// the numeric chat ID stored in settings.
type Telegram struct {
	Bot *tgbotapi.BotAPI
}

func NewTelegram(token string) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{Bot: bot}, nil
}

func (t *Telegram) Send(to, message string) bool {
	chatID, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		log.Printf("notify: bad telegram chat id %q", to)
		return false
	}
	if _, err := t.Bot.Send(tgbotapi.NewMessage(chatID, message)); err != nil {
		log.Println("notify: telegram send failed:", err)
		return false
	}
	return true
}

func (t *Telegram) IsConfigured() bool { return t != nil && t.Bot != nil }
