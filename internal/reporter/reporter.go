// Package reporter sends short operational notices to a Telegram admin chat.
package reporter

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of the Telegram bot API the reporter uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Reporter notifies an admin about failures the service worked around. It is
// nil-safe: with no bot or no admin chat configured every method is a no-op.
type Reporter struct {
	sender  Sender
	adminID int64
}

func New(bot *tgbotapi.BotAPI, adminID int64) *Reporter {
	r := &Reporter{adminID: adminID}
	if bot != nil {
		r.sender = bot
	}
	return r
}

// CheckFailed reports a source that could not be checked.
func (r *Reporter) CheckFailed(sourceName string, err error) {
	r.notify(fmt.Sprintf("source check failed for %q: %v", sourceName, err))
}

// CompileFailed reports an article compilation that went wrong.
func (r *Reporter) CompileFailed(theme string, err error) {
	r.notify(fmt.Sprintf("article compilation failed for theme %q: %v", theme, err))
}

func (r *Reporter) notify(msg string) {
	if r == nil || r.sender == nil || r.adminID == 0 {
		return
	}
	if _, err := r.sender.Send(tgbotapi.NewMessage(r.adminID, msg)); err != nil {
		slog.Error("failed to send error notification", "err", err)
	}
}
