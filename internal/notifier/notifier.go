// Package notifier announces freshly created summaries on a Telegram channel.
package notifier

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/agentit/Prompty-Veille/internal/model"
)

// Sender is the part of the Telegram bot API the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts new summaries to a channel. With no bot or no channel
// configured it is a no-op.
type Notifier struct {
	sender    Sender
	channelID int64
}

func New(bot *tgbotapi.BotAPI, channelID int64) *Notifier {
	n := &Notifier{channelID: channelID}
	if bot != nil {
		n.sender = bot
	}
	return n
}

const msgFormat = "*%s*\n\n%s\n\n%s\n\\#%s"

// SummaryCreated announces one stored summary. Failures are logged, never
// returned.
func (n *Notifier) SummaryCreated(sum model.Summary) {
	if n.sender == nil || n.channelID == 0 {
		return
	}

	msg := tgbotapi.NewMessage(n.channelID, fmt.Sprintf(
		msgFormat,
		escape(sum.Title),
		escape(sum.Summary),
		escape(sum.URL),
		escape(sum.SourceName),
	))
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	if _, err := n.sender.Send(msg); err != nil {
		slog.Error("failed to announce summary", "summary", sum.ID, "err", err)
	}
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}
