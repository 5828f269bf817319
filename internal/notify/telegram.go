// Package notify posts operational notices to the municipal staff's
// Telegram channel: new filings and completions. It is a convenience
// layer; a failed notification is logged and never propagated.
package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"civiport/backend/internal/localization"
	"civiport/backend/internal/models"
)

// TelegramNotifier implements complaint.Notifier over a Telegram bot.
type TelegramNotifier struct {
	BotAPI    *tgbotapi.BotAPI
	ChatID    int64
	Localizer *localization.Localizer
	Lang      string
}

// NewTelegramNotifier authenticates the bot and targets the staff chat.
func NewTelegramNotifier(token string, chatID int64, localizer *localization.Localizer, lang string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("notify: authorized on account %s", bot.Self.UserName)

	return &TelegramNotifier{
		BotAPI:    bot,
		ChatID:    chatID,
		Localizer: localizer,
		Lang:      lang,
	}, nil
}

func (n *TelegramNotifier) ComplaintFiled(c *models.Complaint) {
	text := fmt.Sprintf(n.Localizer.GetString(n.Lang, "complaint_filed"),
		c.Category, c.Subcategory, c.ID)
	n.send(text)
}

func (n *TelegramNotifier) ComplaintCompleted(c *models.Complaint) {
	text := fmt.Sprintf(n.Localizer.GetString(n.Lang, "complaint_completed"),
		c.Category, c.ID)
	n.send(text)
}

func (n *TelegramNotifier) send(text string) {
	msg := tgbotapi.NewMessage(n.ChatID, text)
	if _, err := n.BotAPI.Send(msg); err != nil {
		log.Printf("notify: failed to send staff notice: %v", err)
	}
}
