package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/broichancy/eishbot/internal/infra/metrics"
	"github.com/broichancy/eishbot/internal/service"
	"github.com/broichancy/eishbot/internal/storage"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	log    *slog.Logger
	store  storage.Store
	orders *service.Orders
	admin  *service.Admin

	superAdmin int64
	channel    string // required channel, e.g. "@broichancy"; empty disables the gate
	support    string
}

func New(api *tgbotapi.BotAPI, log *slog.Logger, store storage.Store,
	ordersSvc *service.Orders, adminSvc *service.Admin,
	superAdmin int64, channel, support string) *Bot {

	return &Bot{
		api: api, log: log, store: store,
		orders: ordersSvc, admin: adminSvc,
		superAdmin: superAdmin, channel: channel, support: support,
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				metrics.UpdatesHandled.WithLabelValues("message").Inc()
				b.onMessage(ctx, upd)
			} else if upd.CallbackQuery != nil {
				metrics.UpdatesHandled.WithLabelValues("callback").Inc()
				b.onCallback(ctx, upd)
			}
		}
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("telegram send", slog.Any("error", err))
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

// notifyAdmins pushes a message to every admin, retrying each send a few
// times since losing a new-order notification means a stuck queue.
func (b *Bot) notifyAdmins(ctx context.Context, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	ids := map[int64]struct{}{b.superAdmin: {}}
	if grants, err := b.store.ListAdmins(ctx); err == nil {
		for _, g := range grants {
			ids[g.UserID] = struct{}{}
		}
	}
	for id := range ids {
		msg := tgbotapi.NewMessage(id, text)
		if kb != nil {
			msg.ReplyMarkup = *kb
		}
		err := retry.Do(
			func() error {
				_, err := b.api.Send(msg)
				return err
			},
			retry.Attempts(3),
			retry.Delay(500*time.Millisecond),
			retry.LastErrorOnly(true),
		)
		if err != nil {
			b.log.Error("notify admin", slog.Int64("admin_id", id), slog.Any("error", err))
		}
	}
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.log.Error("answer callback", slog.Any("error", err))
	}
}
