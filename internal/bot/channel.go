package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// isSubscribed checks membership in the required channel. An empty channel
// disables the gate; an API failure counts as not subscribed.
func (b *Bot) isSubscribed(userID int64) bool {
	if b.channel == "" {
		return true
	}
	member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: b.channel,
			UserID:             userID,
		},
	})
	if err != nil {
		b.log.Warn("subscription check", "user_id", userID, "error", err)
		return false
	}
	switch member.Status {
	case "member", "administrator", "creator":
		return true
	}
	return false
}

func (b *Bot) sendSubscribeGate(chatID int64) {
	msg := tgbotapi.NewMessage(chatID,
		"👋 مرحباً بك في بوت ايشانسي!\n\n"+
			"⚠️ يجب الاشتراك في القناة أولاً لاستخدام البوت:\n"+
			"🔗 "+b.channel+"\n\n"+
			"بعد الاشتراك اضغط على زر التحقق.")
	msg.ReplyMarkup = subscribeKeyboard(b.channel)
	b.send(msg)
}

func (b *Bot) handleCheckSubscription(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	if b.isSubscribed(cb.From.ID) {
		b.answerCallback(cb.ID, "✅")
		msg := tgbotapi.NewMessage(chatID, "✅ تم التحقق من الاشتراك. أهلاً بك!")
		msg.ReplyMarkup = mainKeyboard()
		b.send(msg)
		return
	}
	b.answerCallback(cb.ID, "❌ لم يتم العثور على اشتراكك بعد.")
	b.sendSubscribeGate(chatID)
}
