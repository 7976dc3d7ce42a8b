package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/broichancy/eishbot/internal/dialog"
	"github.com/broichancy/eishbot/internal/domain/admins"
	"github.com/broichancy/eishbot/internal/domain/pool"
)

func (b *Bot) handleAdminPanel(ctx context.Context, chatID, userID int64) {
	role, err := b.admin.RoleOf(ctx, userID)
	if err != nil {
		b.reply(chatID, "❌ هذا الأمر مخصص للإدارة فقط.")
		return
	}
	msg := tgbotapi.NewMessage(chatID, "👨‍💼 لوحة الإدارة\n\nاختر من القائمة أدناه:")
	msg.ReplyMarkup = adminKeyboard(role == admins.RoleSuper)
	b.send(msg)
}

// setAdminState arms an admin input state after re-checking the role, so a
// stale inline keyboard cannot put a regular user into an admin flow.
func (b *Bot) setAdminState(ctx context.Context, chatID, userID int64, st dialog.State, prompt string) {
	if !b.admin.IsAdmin(ctx, userID) {
		b.reply(chatID, "❌ هذا الأمر مخصص للإدارة فقط.")
		return
	}
	_ = b.store.SetDialog(ctx, chatID, st, dialog.Payload{})
	b.reply(chatID, prompt)
}

func (b *Bot) handleOrderCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	parts := strings.SplitN(cb.Data, ":", 3)
	if len(parts) != 3 {
		b.answerCallback(cb.ID, "")
		return
	}
	action, rawID := parts[1], parts[2]
	orderID, err := uuid.Parse(rawID)
	if err != nil {
		b.answerCallback(cb.ID, "")
		return
	}
	chatID := cb.Message.Chat.ID
	actorID := cb.From.ID

	switch action {
	case "ap", "rj":
		if !b.admin.IsAdmin(ctx, actorID) {
			b.answerCallback(cb.ID, "❌ للإدارة فقط.")
			return
		}
		if action == "ap" {
			d, err := b.orders.Approve(ctx, actorID, orderID)
			if err != nil {
				b.answerCallback(cb.ID, errText(err))
				return
			}
			b.answerCallback(cb.ID, "✅")
			b.reply(chatID, "✅ تمت الموافقة على الطلب #"+shortID(orderID))
			b.notifyDecision(d.Order.UserID, "✅ تمت الموافقة على طلبك #"+shortID(orderID))
			if d.Credentials != nil {
				b.reply(d.Order.UserID, fmt.Sprintf(
					"🎉 تم إنشاء حساب ايشانسي الخاص بك:\nالمستخدم: %s\nكلمة المرور: %s",
					d.Credentials.Username, d.Credentials.Password))
			}
		} else {
			d, err := b.orders.Reject(ctx, actorID, orderID)
			if err != nil {
				b.answerCallback(cb.ID, errText(err))
				return
			}
			b.answerCallback(cb.ID, "❌")
			b.reply(chatID, "❌ تم رفض الطلب #"+shortID(orderID))
			b.notifyDecision(d.Order.UserID, "❌ تم رفض طلبك #"+shortID(orderID))
		}

	case "cn":
		o, err := b.orders.Cancel(ctx, actorID, orderID)
		if err != nil {
			b.answerCallback(cb.ID, errText(err))
			return
		}
		b.answerCallback(cb.ID, "🚫")
		b.reply(chatID, "🚫 تم إلغاء الطلب #"+shortID(o.ID))

	default:
		b.answerCallback(cb.ID, "")
	}
}

func (b *Bot) notifyDecision(userID int64, text string) {
	b.send(tgbotapi.NewMessage(userID, text))
}

func (b *Bot) handleAdminCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action string) {
	chatID := cb.Message.Chat.ID
	actorID := cb.From.ID
	if !b.admin.IsAdmin(ctx, actorID) {
		b.answerCallback(cb.ID, "❌ للإدارة فقط.")
		return
	}
	b.answerCallback(cb.ID, "")

	switch action {
	case "pending":
		b.showPendingOrders(ctx, chatID)
	case "stats":
		b.showStats(ctx, chatID, actorID)
	case "codes":
		b.showCodes(ctx, chatID)
	case "pool":
		b.showPool(ctx, chatID, actorID)
	case "mnt":
		b.showMaintenance(ctx, chatID)
	case "ban":
		b.setAdminState(ctx, chatID, actorID, dialog.StateAdmBanID, "أرسل معرف المستخدم (ID) المراد حظره:")
	case "unban":
		b.setAdminState(ctx, chatID, actorID, dialog.StateAdmUnbanID, "أرسل معرف المستخدم (ID) لرفع الحظر عنه:")
	case "report":
		b.sendOrdersReport(ctx, chatID, actorID)
	case "admins":
		b.showAdmins(ctx, chatID, actorID)
	case "adjust":
		b.setAdminState(ctx, chatID, actorID, dialog.StateAdmAdjustID, "أرسل معرف المستخدم (ID) لتعديل رصيده:")
	}
}

func (b *Bot) showPendingOrders(ctx context.Context, chatID int64) {
	list, err := b.orders.ListPending(ctx, 20)
	if err != nil {
		b.reply(chatID, errText(err))
		return
	}
	if len(list) == 0 {
		b.reply(chatID, "📋 لا توجد طلبات معلقة.")
		return
	}
	for _, o := range list {
		msg := tgbotapi.NewMessage(chatID, formatOrderForAdmin(o))
		msg.ReplyMarkup = orderDecisionKeyboard(o.ID.String())
		b.send(msg)
	}
}

func (b *Bot) showStats(ctx context.Context, chatID, actorID int64) {
	st, err := b.admin.Stats(ctx, actorID)
	if err != nil {
		b.reply(chatID, errText(err))
		return
	}
	b.reply(chatID, fmt.Sprintf(
		"📊 إحصائيات:\nالمستخدمون: %d\nإجمالي الأرصدة: %s\nإجمالي المحجوز: %s\n"+
			"الطلبات: %d (معلق %d / مقبول %d / مرفوض %d / ملغى %d)\nحسابات متاحة بالمخزون: %d",
		st.Users, fmtAmount(st.TotalBalance), fmtAmount(st.TotalHold),
		st.Orders, st.Pending, st.Approved, st.Rejected, st.Canceled, st.PoolAvailable))
}

func (b *Bot) showCodes(ctx context.Context, chatID int64) {
	codes, err := b.admin.ListCodes(ctx, false)
	if err != nil {
		b.reply(chatID, errText(err))
		return
	}
	if len(codes) == 0 {
		msg := tgbotapi.NewMessage(chatID, "🔢 لا توجد أكواد بعد.")
		msg.ReplyMarkup = codesKeyboard()
		b.send(msg)
		return
	}
	for _, c := range codes {
		state := "مفعل ✅"
		if !c.IsActive {
			state = "معطل ⛔"
		}
		text := c.Code + " — " + state
		if c.Note != "" {
			text += "\n" + c.Note
		}
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = codeRowKeyboard(c.Code, c.IsActive)
		b.send(msg)
	}
	msg := tgbotapi.NewMessage(chatID, "لإضافة كود جديد:")
	msg.ReplyMarkup = codesKeyboard()
	b.send(msg)
}

func (b *Bot) setCodeActive(ctx context.Context, cb *tgbotapi.CallbackQuery, code string, active bool) {
	if err := b.admin.SetCodeActive(ctx, cb.From.ID, code, active); err != nil {
		b.answerCallback(cb.ID, errText(err))
		return
	}
	b.answerCallback(cb.ID, "✅")
	b.showCodes(ctx, cb.Message.Chat.ID)
}

func (b *Bot) showPool(ctx context.Context, chatID, actorID int64) {
	entries, err := b.admin.ListPool(ctx, actorID)
	if err != nil {
		b.reply(chatID, errText(err))
		return
	}
	var available int
	for _, e := range entries {
		if e.Status == pool.StatusAvailable {
			available++
			continue
		}
		text := fmt.Sprintf("👤 %s — مُسند", e.Username)
		if e.AssignedTo != nil {
			text += fmt.Sprintf(" إلى %d", *e.AssignedTo)
		}
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = poolReleaseKeyboard(e.ID)
		b.send(msg)
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"👥 مخزون حسابات ايشانسي:\nمتاح: %d\nمُسند: %d", available, len(entries)-available))
	msg.ReplyMarkup = poolKeyboard()
	b.send(msg)
}

func (b *Bot) releasePoolEntry(ctx context.Context, cb *tgbotapi.CallbackQuery, raw string) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		b.answerCallback(cb.ID, "")
		return
	}
	if err := b.admin.ReleasePoolEntry(ctx, cb.From.ID, id); err != nil {
		b.answerCallback(cb.ID, errText(err))
		return
	}
	b.answerCallback(cb.ID, "✅")
	b.showPool(ctx, cb.Message.Chat.ID, cb.From.ID)
}

func (b *Bot) showMaintenance(ctx context.Context, chatID int64) {
	mnt, err := b.admin.Maintenance(ctx)
	if err != nil {
		b.reply(chatID, errText(err))
		return
	}
	state := "⏹ متوقفة"
	if mnt.Enabled {
		state = "▶️ مفعلة"
	}
	text := "🔧 الصيانة: " + state
	if mnt.Message != "" {
		text += "\nالرسالة: " + mnt.Message
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = maintenanceKeyboard(mnt.Enabled)
	b.send(msg)
}

func (b *Bot) toggleMaintenance(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	actorID := cb.From.ID
	mnt, err := b.admin.Maintenance(ctx)
	if err != nil {
		b.answerCallback(cb.ID, errText(err))
		return
	}
	if err = b.admin.SetMaintenance(ctx, actorID, !mnt.Enabled, mnt.Message); err != nil {
		b.answerCallback(cb.ID, errText(err))
		return
	}
	b.answerCallback(cb.ID, "✅")
	b.showMaintenance(ctx, cb.Message.Chat.ID)
}

func (b *Bot) showAdmins(ctx context.Context, chatID, actorID int64) {
	grants, err := b.admin.ListAdmins(ctx, actorID)
	if err != nil {
		b.reply(chatID, errText(err))
		return
	}
	var sb strings.Builder
	sb.WriteString("👨‍💼 الأدمن الحاليون:\n")
	fmt.Fprintf(&sb, "• %d — super (أساسي)\n", b.superAdmin)
	for _, g := range grants {
		fmt.Fprintf(&sb, "• %d — %s\n", g.UserID, g.Role)
	}
	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ReplyMarkup = adminsKeyboard()
	b.send(msg)
}

func parseUserID(text string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func (b *Bot) handleAdminInput(ctx context.Context, chatID, actorID int64, st *dialog.Item, text string) {
	if !b.admin.IsAdmin(ctx, actorID) {
		_ = b.store.ResetDialog(ctx, chatID)
		b.reply(chatID, "❌ هذا الأمر مخصص للإدارة فقط.")
		return
	}

	done := func(reply string) {
		_ = b.store.ResetDialog(ctx, chatID)
		b.reply(chatID, reply)
	}

	switch st.State {
	case dialog.StateAdmPoolUser:
		if text == "" {
			b.reply(chatID, "اسم المستخدم غير صحيح. أعد الإرسال.")
			return
		}
		_ = b.store.SetDialog(ctx, chatID, dialog.StateAdmPoolPass, dialog.Payload{"pool_user": text})
		b.reply(chatID, "أرسل كلمة المرور:")

	case dialog.StateAdmPoolPass:
		if text == "" {
			b.reply(chatID, "كلمة المرور غير صحيحة. أعد الإرسال.")
			return
		}
		username, _ := dialog.GetString(st.Payload, "pool_user")
		if _, err := b.admin.AddPoolEntry(ctx, actorID, username, text); err != nil {
			done(errText(err))
			return
		}
		done("✅ تمت إضافة الحساب إلى المخزون.")

	case dialog.StateAdmGrantID:
		id, ok := parseUserID(text)
		if !ok {
			b.reply(chatID, "معرف غير صحيح. أعد الإرسال.")
			return
		}
		if err := b.admin.Grant(ctx, actorID, id, admins.RoleAdmin); err != nil {
			done(errText(err))
			return
		}
		done(fmt.Sprintf("✅ تم منح %d صلاحية أدمن.", id))

	case dialog.StateAdmRevokeID:
		id, ok := parseUserID(text)
		if !ok {
			b.reply(chatID, "معرف غير صحيح. أعد الإرسال.")
			return
		}
		if err := b.admin.Revoke(ctx, actorID, id); err != nil {
			done(errText(err))
			return
		}
		done(fmt.Sprintf("✅ تم سحب الصلاحية من %d.", id))

	case dialog.StateAdmBanID:
		id, ok := parseUserID(text)
		if !ok {
			b.reply(chatID, "معرف غير صحيح. أعد الإرسال.")
			return
		}
		_ = b.store.SetDialog(ctx, chatID, dialog.StateAdmBanReason, dialog.Payload{"ban_id": id})
		b.reply(chatID, "أرسل سبب الحظر (أو - بدون سبب):")

	case dialog.StateAdmBanReason:
		id, _ := dialog.GetInt64(st.Payload, "ban_id")
		reason := text
		if reason == "-" {
			reason = ""
		}
		if err := b.admin.Ban(ctx, actorID, id, reason); err != nil {
			done(errText(err))
			return
		}
		done(fmt.Sprintf("🚫 تم حظر المستخدم %d.", id))

	case dialog.StateAdmUnbanID:
		id, ok := parseUserID(text)
		if !ok {
			b.reply(chatID, "معرف غير صحيح. أعد الإرسال.")
			return
		}
		if err := b.admin.Unban(ctx, actorID, id); err != nil {
			done(errText(err))
			return
		}
		done(fmt.Sprintf("♻️ تم رفع الحظر عن %d.", id))

	case dialog.StateAdmAdjustID:
		id, ok := parseUserID(text)
		if !ok {
			b.reply(chatID, "معرف غير صحيح. أعد الإرسال.")
			return
		}
		_ = b.store.SetDialog(ctx, chatID, dialog.StateAdmAdjustDelta, dialog.Payload{"adjust_id": id})
		b.reply(chatID, "أرسل قيمة التعديل (موجبة للإضافة، سالبة للخصم):")

	case dialog.StateAdmAdjustDelta:
		delta, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil || delta == 0 {
			b.reply(chatID, "قيمة غير صحيحة. أعد الإرسال.")
			return
		}
		id, _ := dialog.GetInt64(st.Payload, "adjust_id")
		w, err := b.admin.AdjustWallet(ctx, actorID, id, delta)
		if err != nil {
			done(errText(err))
			return
		}
		done(fmt.Sprintf("✅ تم التعديل. الرصيد الجديد للمستخدم %d: %s", id, fmtAmount(w.Balance)))

	case dialog.StateAdmCodeAdd:
		code := strings.TrimSpace(text)
		if code == "" {
			b.reply(chatID, "كود غير صحيح. أعد الإرسال.")
			return
		}
		if err := b.admin.AddCode(ctx, actorID, code, ""); err != nil {
			done(errText(err))
			return
		}
		done("✅ تمت إضافة الكود: " + code)

	case dialog.StateAdmMntMessage:
		mnt, err := b.admin.Maintenance(ctx)
		if err != nil {
			done(errText(err))
			return
		}
		if err = b.admin.SetMaintenance(ctx, actorID, mnt.Enabled, text); err != nil {
			done(errText(err))
			return
		}
		done("✅ تم تحديث رسالة الصيانة.")

	default:
		_ = b.store.ResetDialog(ctx, chatID)
		b.showMainMenu(chatID)
	}
}
