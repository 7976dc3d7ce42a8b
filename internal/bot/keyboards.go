package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Main reply-keyboard labels. Routing matches on these exact strings.
const (
	btnEish     = "💼 حساب ايشانسي"
	btnWallet   = "💰 محفظتي"
	btnTopup    = "➕ شحن رصيد البوت"
	btnWithdraw = "➖ سحب رصيد من البوت"
	btnOrders   = "📦 طلباتي"
	btnSupport  = "🆘 دعم"

	btnEishCreate   = "1) إنشاء حساب ايشانسي"
	btnEishTopup    = "2) شحن حساب ايشانسي"
	btnEishWithdraw = "3) سحب من حساب ايشانسي"
	btnBack         = "⬅️ رجوع"
)

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnEish),
			tgbotapi.NewKeyboardButton(btnWallet),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnTopup),
			tgbotapi.NewKeyboardButton(btnWithdraw),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnOrders),
			tgbotapi.NewKeyboardButton(btnSupport),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func eishKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnEishCreate),
			tgbotapi.NewKeyboardButton(btnEishTopup),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnEishWithdraw),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBack),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func subscribeKeyboard(channel string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("✅ اشترك بالقناة",
				"https://t.me/"+strings.TrimPrefix(channel, "@")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 تحقق من الاشتراك", "chk_sub"),
		),
	)
}

// orderDecisionKeyboard is attached to admin notifications for a new order.
func orderDecisionKeyboard(orderID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ موافقة", "ord:ap:"+orderID),
			tgbotapi.NewInlineKeyboardButtonData("❌ رفض", "ord:rj:"+orderID),
		),
	)
}

func cancelOrderKeyboard(orderID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚫 إلغاء الطلب", "ord:cn:"+orderID),
		),
	)
}

func adminKeyboard(isSuper bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData("📋 الطلبات المعلقة", "adm:pending"),
			tgbotapi.NewInlineKeyboardButtonData("📊 إحصائيات", "adm:stats"),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData("🔢 أكواد سيرياتيل", "adm:codes"),
			tgbotapi.NewInlineKeyboardButtonData("👥 مخزون ايشانسي", "adm:pool"),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData("🔧 وضع الصيانة", "adm:mnt"),
			tgbotapi.NewInlineKeyboardButtonData("🚫 حظر مستخدم", "adm:ban"),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData("♻️ رفع الحظر", "adm:unban"),
			tgbotapi.NewInlineKeyboardButtonData("📄 تقرير Excel", "adm:report"),
		},
	}
	if isSuper {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("👨‍💼 إدارة الأدمن", "adm:admins"),
			tgbotapi.NewInlineKeyboardButtonData("💱 تعديل رصيد", "adm:adjust"),
		})
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func maintenanceKeyboard(enabled bool) tgbotapi.InlineKeyboardMarkup {
	toggle := "▶️ تفعيل الصيانة"
	if enabled {
		toggle = "⏹ إيقاف الصيانة"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(toggle, "mnt:toggle"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ تعديل الرسالة", "mnt:msg"),
		),
	)
}

func poolKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ إضافة حساب", "pool:add"),
		),
	)
}

func poolReleaseKeyboard(id int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("↩️ استرجاع إلى المخزون",
				fmt.Sprintf("pool:rel:%d", id)),
		),
	)
}

func codesKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ إضافة كود", "code:add"),
		),
	)
}

func codeRowKeyboard(code string, active bool) tgbotapi.InlineKeyboardMarkup {
	label := "تعطيل " + code
	data := "code:off:" + code
	if !active {
		label = "تفعيل " + code
		data = "code:on:" + code
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, data),
		),
	)
}

func adminsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ منح صلاحية", "role:grant"),
			tgbotapi.NewInlineKeyboardButtonData("➖ سحب صلاحية", "role:revoke"),
		),
	)
}

func fmtAmount(v int64) string {
	return fmt.Sprintf("%d ل.س", v)
}
