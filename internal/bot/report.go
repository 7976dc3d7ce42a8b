package bot

import (
	"bytes"
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"

	"github.com/broichancy/eishbot/internal/storage"
)

// sendOrdersReport exports every order to an Excel workbook and sends it
// to the requesting admin as a document.
func (b *Bot) sendOrdersReport(ctx context.Context, chatID, actorID int64) {
	if !b.admin.IsAdmin(ctx, actorID) {
		b.reply(chatID, "❌ هذا الأمر مخصص للإدارة فقط.")
		return
	}

	list, err := b.store.ListOrders(ctx, storage.OrderFilter{})
	if err != nil {
		b.reply(chatID, errText(err))
		return
	}
	if len(list) == 0 {
		b.reply(chatID, "📄 لا توجد طلبات للتصدير.")
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Orders"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"id", "user_id", "type", "status", "amount", "admin_id", "created_at", "decided_at"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for row, o := range list {
		values := []any{
			o.ID.String(),
			o.UserID,
			string(o.Type),
			string(o.Status),
			o.Amount,
			"",
			o.CreatedAt.Format(time.RFC3339),
			"",
		}
		if o.AdminID != nil {
			values[5] = *o.AdminID
		}
		if o.DecidedAt != nil {
			values[7] = o.DecidedAt.Format(time.RFC3339)
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err = f.Write(&buf); err != nil {
		b.log.Error("write report", "error", err)
		b.reply(chatID, "❌ تعذر إنشاء التقرير.")
		return
	}

	name := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("2006-01-02"))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: buf.Bytes()})
	doc.Caption = fmt.Sprintf("📄 تقرير الطلبات (%d طلب)", len(list))
	b.send(doc)
}
