package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/broichancy/eishbot/internal/dialog"
	"github.com/broichancy/eishbot/internal/domain/users"
)

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	chatID := msg.Chat.ID
	from := msg.From
	if from == nil {
		return
	}

	u, err := b.store.UpsertUser(ctx, users.User{
		ID:        from.ID,
		Username:  from.UserName,
		FirstName: from.FirstName,
		LastName:  from.LastName,
	})
	if err != nil {
		b.log.Error("upsert user", "error", err)
		return
	}

	text := strings.TrimSpace(msg.Text)

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.handleStart(ctx, chatID, u)
		case "admin":
			b.handleAdminPanel(ctx, chatID, from.ID)
		case "help":
			b.reply(chatID, "للتواصل مع الدعم: "+b.support)
		default:
			b.reply(chatID, "أمر غير معروف. استخدم /start")
		}
		return
	}

	if u.IsBanned {
		b.sendBanned(chatID, u)
		return
	}
	if !b.admin.IsAdmin(ctx, from.ID) && !b.isSubscribed(from.ID) {
		b.sendSubscribeGate(chatID)
		return
	}

	st, err := b.store.GetDialog(ctx, chatID)
	if err != nil {
		b.log.Error("get dialog", "error", err)
		return
	}
	if st.State != dialog.StateIdle {
		if strings.HasPrefix(string(st.State), "adm_") {
			b.handleAdminInput(ctx, chatID, from.ID, st, text)
		} else {
			b.handleUserInput(ctx, chatID, from.ID, st, text)
		}
		return
	}

	switch text {
	case btnWallet:
		b.showWallet(ctx, chatID, from.ID)
	case btnTopup:
		b.startTopup(ctx, chatID)
	case btnWithdraw:
		b.startWithdraw(ctx, chatID)
	case btnEish:
		b.showEishMenu(ctx, chatID, from.ID)
	case btnEishCreate:
		b.requestEishAccount(ctx, chatID, from.ID)
	case btnEishTopup:
		b.startEishTopup(ctx, chatID, from.ID)
	case btnEishWithdraw:
		b.startEishWithdraw(ctx, chatID, from.ID)
	case btnOrders:
		b.showMyOrders(ctx, chatID, from.ID)
	case btnSupport:
		b.reply(chatID, "🆘 للتواصل مع الدعم: "+b.support)
	case btnBack:
		b.showMainMenu(chatID)
	default:
		b.showMainMenu(chatID)
	}
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	cb := upd.CallbackQuery
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID
	data := cb.Data

	switch {
	case data == "chk_sub":
		b.handleCheckSubscription(ctx, cb)
	case strings.HasPrefix(data, "ord:"):
		b.handleOrderCallback(ctx, cb)
	case strings.HasPrefix(data, "adm:"):
		b.handleAdminCallback(ctx, cb, strings.TrimPrefix(data, "adm:"))
	case data == "mnt:toggle":
		b.toggleMaintenance(ctx, cb)
	case data == "mnt:msg":
		b.answerCallback(cb.ID, "")
		b.setAdminState(ctx, chatID, userID, dialog.StateAdmMntMessage, "أرسل نص رسالة الصيانة:")
	case data == "pool:add":
		b.answerCallback(cb.ID, "")
		b.setAdminState(ctx, chatID, userID, dialog.StateAdmPoolUser, "أرسل اسم المستخدم للحساب الجديد:")
	case strings.HasPrefix(data, "pool:rel:"):
		b.releasePoolEntry(ctx, cb, strings.TrimPrefix(data, "pool:rel:"))
	case data == "code:add":
		b.answerCallback(cb.ID, "")
		b.setAdminState(ctx, chatID, userID, dialog.StateAdmCodeAdd, "أرسل الكود الجديد:")
	case strings.HasPrefix(data, "code:on:"):
		b.setCodeActive(ctx, cb, strings.TrimPrefix(data, "code:on:"), true)
	case strings.HasPrefix(data, "code:off:"):
		b.setCodeActive(ctx, cb, strings.TrimPrefix(data, "code:off:"), false)
	case data == "role:grant":
		b.answerCallback(cb.ID, "")
		b.setAdminState(ctx, chatID, userID, dialog.StateAdmGrantID, "أرسل معرف المستخدم (ID) لمنحه صلاحية أدمن:")
	case data == "role:revoke":
		b.answerCallback(cb.ID, "")
		b.setAdminState(ctx, chatID, userID, dialog.StateAdmRevokeID, "أرسل معرف المستخدم (ID) لسحب صلاحيته:")
	default:
		b.answerCallback(cb.ID, "")
	}
}

func (b *Bot) showMainMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "اختر من الأزرار بالأسفل 👇")
	msg.ReplyMarkup = mainKeyboard()
	b.send(msg)
}

func (b *Bot) handleStart(ctx context.Context, chatID int64, u *users.User) {
	_ = b.store.ResetDialog(ctx, chatID)
	if u.IsBanned {
		b.sendBanned(chatID, u)
		return
	}
	if !b.admin.IsAdmin(ctx, u.ID) && !b.isSubscribed(u.ID) {
		b.sendSubscribeGate(chatID)
		return
	}
	msg := tgbotapi.NewMessage(chatID, "👋 أهلاً وسهلاً بك في بوت ايشانسي!\nاختر من القائمة أدناه:")
	msg.ReplyMarkup = mainKeyboard()
	b.send(msg)
}

func (b *Bot) sendBanned(chatID int64, u *users.User) {
	text := "🚫 تم حظرك من استخدام البوت."
	if u.BanReason != "" {
		text += "\nالسبب: " + u.BanReason
	}
	b.reply(chatID, text)
}
