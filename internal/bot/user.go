package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/broichancy/eishbot/internal/apperrors"
	"github.com/broichancy/eishbot/internal/dialog"
	"github.com/broichancy/eishbot/internal/domain/orders"
)

var digitsOnly = regexp.MustCompile(`^\d{4,20}$`)

func parseAmount(text string) (int64, bool) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// errText maps workflow errors to user-facing Arabic messages.
func errText(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrMaintenanceActive):
		return "🔧 البوت في وضع الصيانة حالياً. حاول لاحقاً."
	case errors.Is(err, apperrors.ErrBanned):
		return "🚫 تم حظرك من استخدام البوت."
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return "❌ رصيدك لا يكفي لإتمام العملية."
	case errors.Is(err, apperrors.ErrOrderLimit):
		return "⚠️ لديك طلب معلق من نفس النوع. انتظر البت فيه أولاً."
	case errors.Is(err, apperrors.ErrAlreadyDecided):
		return "⚠️ تم البت في هذا الطلب مسبقاً."
	case errors.Is(err, apperrors.ErrPoolExhausted):
		return "⚠️ لا توجد حسابات متاحة حالياً. سيبقى طلبك معلقاً."
	case errors.Is(err, apperrors.ErrNotFound):
		return "❌ غير موجود."
	case errors.Is(err, apperrors.ErrInvalidState):
		return "❌ تعذر تنفيذ العملية. أعد المحاولة."
	}
	return "❌ حدث خطأ. أعد المحاولة."
}

func (b *Bot) showWallet(ctx context.Context, chatID, userID int64) {
	w, err := b.store.GetWallet(ctx, userID)
	if err != nil {
		b.reply(chatID, errText(err))
		return
	}
	b.reply(chatID, fmt.Sprintf(
		"💰 محفظتك:\nالرصيد المتاح: %s\nالمحجوز: %s\nالإجمالي: %s",
		fmtAmount(w.Balance), fmtAmount(w.Hold), fmtAmount(w.Total())))
}

func (b *Bot) startTopup(ctx context.Context, chatID int64) {
	codes, err := b.admin.ListCodes(ctx, true)
	if err != nil {
		b.reply(chatID, errText(err))
		return
	}
	if len(codes) == 0 {
		b.reply(chatID, "⚠️ لا توجد أكواد استقبال متاحة حالياً. تواصل مع الدعم: "+b.support)
		return
	}
	var sb strings.Builder
	sb.WriteString("💳 حوّل المبلغ عبر سيرياتيل كاش إلى أحد الأكواد التالية:\n")
	for _, c := range codes {
		sb.WriteString("• " + c.Code + "\n")
	}
	sb.WriteString("\nثم أرسل رقم عملية التحويل:")
	_ = b.store.SetDialog(ctx, chatID, dialog.StateTopupOp, dialog.Payload{})
	b.reply(chatID, sb.String())
}

func (b *Bot) startWithdraw(ctx context.Context, chatID int64) {
	_ = b.store.SetDialog(ctx, chatID, dialog.StateWithdrawReceiver, dialog.Payload{})
	b.reply(chatID, "💸 أرسل رقم سيرياتيل كاش الذي سيستلم المبلغ:")
}

func (b *Bot) showEishMenu(ctx context.Context, chatID, userID int64) {
	text := "💼 قائمة حساب ايشانسي:"
	acc, err := b.store.GetEishAccount(ctx, userID)
	if err == nil {
		text = "💼 حسابك المرتبط: " + acc.Username + "\nاختر من القائمة:"
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = eishKeyboard()
	b.send(msg)
}

func (b *Bot) requestEishAccount(ctx context.Context, chatID, userID int64) {
	o, err := b.orders.CreateEishAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			b.reply(chatID, "⚠️ لديك حساب ايشانسي مرتبط بالفعل.")
			return
		}
		b.reply(chatID, errText(err))
		return
	}
	b.reply(chatID, "✅ تم إرسال طلب إنشاء الحساب للأدمن.\nرقم الطلب: #"+shortID(o.ID))
	b.notifyNewOrder(ctx, o)
}

func (b *Bot) startEishTopup(ctx context.Context, chatID, userID int64) {
	if _, err := b.store.GetEishAccount(ctx, userID); err != nil {
		b.reply(chatID, "⚠️ لا يوجد حساب ايشانسي مرتبط. أنشئ حساباً أولاً.")
		return
	}
	_ = b.store.SetDialog(ctx, chatID, dialog.StateEishTopupAmount, dialog.Payload{})
	b.reply(chatID, "أرسل المبلغ المراد شحنه إلى حساب ايشانسي:")
}

func (b *Bot) startEishWithdraw(ctx context.Context, chatID, userID int64) {
	if _, err := b.store.GetEishAccount(ctx, userID); err != nil {
		b.reply(chatID, "⚠️ لا يوجد حساب ايشانسي مرتبط. أنشئ حساباً أولاً.")
		return
	}
	_ = b.store.SetDialog(ctx, chatID, dialog.StateEishWithdrawAmount, dialog.Payload{})
	b.reply(chatID, "أرسل المبلغ المراد سحبه من حساب ايشانسي:")
}

func (b *Bot) showMyOrders(ctx context.Context, chatID, userID int64) {
	list, err := b.orders.ListForUser(ctx, userID, 10)
	if err != nil {
		b.reply(chatID, errText(err))
		return
	}
	if len(list) == 0 {
		b.reply(chatID, "📦 لا توجد طلبات بعد.")
		return
	}
	for _, o := range list {
		msg := tgbotapi.NewMessage(chatID, formatOrderForUser(o))
		if o.Status == orders.StatusPending {
			msg.ReplyMarkup = cancelOrderKeyboard(o.ID.String())
		}
		b.send(msg)
	}
}

func (b *Bot) handleUserInput(ctx context.Context, chatID, userID int64, st *dialog.Item, text string) {
	switch st.State {
	case dialog.StateTopupOp:
		if !digitsOnly.MatchString(text) {
			b.reply(chatID, "رقم العملية غير صحيح. أعد الإرسال.")
			return
		}
		_ = b.store.SetDialog(ctx, chatID, dialog.StateTopupAmount, dialog.Payload{"operation_no": text})
		b.reply(chatID, "أرسل المبلغ:")

	case dialog.StateTopupAmount:
		amount, ok := parseAmount(text)
		if !ok {
			b.reply(chatID, "المبلغ غير صحيح. أعد الإرسال.")
			return
		}
		op, _ := dialog.GetString(st.Payload, "operation_no")
		o, err := b.orders.CreateTopup(ctx, userID, amount, op)
		b.finishCreate(ctx, chatID, o, err, "✅ تم إرسال طلب الشحن للأدمن.")

	case dialog.StateWithdrawReceiver:
		if !digitsOnly.MatchString(text) {
			b.reply(chatID, "رقم المستلم غير صحيح. أعد الإرسال.")
			return
		}
		_ = b.store.SetDialog(ctx, chatID, dialog.StateWithdrawAmount, dialog.Payload{"receiver_no": text})
		b.reply(chatID, "أرسل المبلغ:")

	case dialog.StateWithdrawAmount:
		amount, ok := parseAmount(text)
		if !ok {
			b.reply(chatID, "المبلغ غير صحيح. أعد الإرسال.")
			return
		}
		receiver, _ := dialog.GetString(st.Payload, "receiver_no")
		o, err := b.orders.CreateWithdraw(ctx, userID, amount, receiver)
		b.finishCreate(ctx, chatID, o, err, "✅ تم حجز المبلغ وإرسال طلب السحب للأدمن.")

	case dialog.StateEishTopupAmount:
		amount, ok := parseAmount(text)
		if !ok {
			b.reply(chatID, "المبلغ غير صحيح. أعد الإرسال.")
			return
		}
		o, err := b.orders.CreateEishTopup(ctx, userID, amount)
		b.finishCreate(ctx, chatID, o, err, "✅ تم إرسال طلب شحن حساب ايشانسي للأدمن.")

	case dialog.StateEishWithdrawAmount:
		amount, ok := parseAmount(text)
		if !ok {
			b.reply(chatID, "المبلغ غير صحيح. أعد الإرسال.")
			return
		}
		o, err := b.orders.CreateEishWithdraw(ctx, userID, amount)
		b.finishCreate(ctx, chatID, o, err, "✅ تم حجز المبلغ وإرسال طلب السحب للأدمن.")

	default:
		_ = b.store.ResetDialog(ctx, chatID)
		b.showMainMenu(chatID)
	}
}

func (b *Bot) finishCreate(ctx context.Context, chatID int64, o *orders.Order, err error, okText string) {
	_ = b.store.ResetDialog(ctx, chatID)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, errText(err))
		msg.ReplyMarkup = mainKeyboard()
		b.send(msg)
		return
	}
	msg := tgbotapi.NewMessage(chatID, okText+"\nرقم الطلب: #"+shortID(o.ID))
	msg.ReplyMarkup = mainKeyboard()
	b.send(msg)
	b.notifyNewOrder(ctx, o)
}

func (b *Bot) notifyNewOrder(ctx context.Context, o *orders.Order) {
	kb := orderDecisionKeyboard(o.ID.String())
	b.notifyAdmins(ctx, "📥 طلب جديد\n"+formatOrderForAdmin(*o), &kb)
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func typeLabel(t orders.Type) string {
	switch t {
	case orders.TypeBotTopup:
		return "شحن رصيد البوت"
	case orders.TypeBotWithdraw:
		return "سحب رصيد من البوت"
	case orders.TypeEishTopup:
		return "شحن حساب ايشانسي"
	case orders.TypeEishWithdraw:
		return "سحب من حساب ايشانسي"
	case orders.TypeEishCreate:
		return "إنشاء حساب ايشانسي"
	}
	return string(t)
}

func statusLabel(s orders.Status) string {
	switch s {
	case orders.StatusPending:
		return "⏳ معلق"
	case orders.StatusApproved:
		return "✅ مقبول"
	case orders.StatusRejected:
		return "❌ مرفوض"
	case orders.StatusCanceled:
		return "🚫 ملغى"
	}
	return string(s)
}

func formatOrderForUser(o orders.Order) string {
	text := fmt.Sprintf("#%s\nالنوع: %s\nالحالة: %s", shortID(o.ID), typeLabel(o.Type), statusLabel(o.Status))
	if o.Amount > 0 {
		text += "\nالمبلغ: " + fmtAmount(o.Amount)
	}
	return text
}

func formatOrderForAdmin(o orders.Order) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#%s\nالنوع: %s\nالمستخدم: %d", shortID(o.ID), typeLabel(o.Type), o.UserID)
	if o.Amount > 0 {
		fmt.Fprintf(&sb, "\nالمبلغ: %s", fmtAmount(o.Amount))
	}
	switch p := o.Payload.(type) {
	case orders.TopupPayload:
		fmt.Fprintf(&sb, "\nرقم العملية: %s", p.OperationNo)
	case orders.WithdrawPayload:
		fmt.Fprintf(&sb, "\nرقم المستلم: %s", p.ReceiverNo)
	case orders.EishPayload:
		fmt.Fprintf(&sb, "\nحساب ايشانسي: %s", p.Username)
	}
	return sb.String()
}
