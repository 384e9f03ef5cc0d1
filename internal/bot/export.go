package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"
)

func (b *Bot) cmdExport(ctx context.Context, msg *tgbotapi.Message) {
	args := commandArgs(msg)
	if len(args) == 0 {
		b.sendMessage(msg.Chat.ID, "Usage: /export notes|tasks|xlsx")
		return
	}

	switch args[0] {
	case "notes":
		b.exportNotesJSON(ctx, msg)
	case "tasks":
		b.exportTasksJSON(ctx, msg)
	case "xlsx":
		b.exportMessagesExcel(ctx, msg)
	default:
		b.sendMessage(msg.Chat.ID, "Usage: /export notes|tasks|xlsx")
	}
}

func (b *Bot) exportNotesJSON(ctx context.Context, msg *tgbotapi.Message) {
	notes, err := b.repo.GetNotes(ctx, msg.From.ID, 0)
	if err != nil {
		b.replyError(ctx, msg, err)
		return
	}

	type noteRow struct {
		ID        int64  `json:"id"`
		Text      string `json:"text"`
		CreatedAt string `json:"created_at"`
	}
	rows := make([]noteRow, 0, len(notes))
	for _, note := range notes {
		rows = append(rows, noteRow{ID: note.ID, Text: note.Text, CreatedAt: note.CreatedAt.Format(time.RFC3339)})
	}

	b.sendJSONDocument(ctx, msg, "notes.json", rows)
}

func (b *Bot) exportTasksJSON(ctx context.Context, msg *tgbotapi.Message) {
	tasks, err := b.repo.GetTasks(ctx, msg.From.ID, 0)
	if err != nil {
		b.replyError(ctx, msg, err)
		return
	}

	type taskRow struct {
		ID        int64  `json:"id"`
		Text      string `json:"text"`
		Done      bool   `json:"done"`
		CreatedAt string `json:"created_at"`
		DoneAt    string `json:"done_at,omitempty"`
	}
	rows := make([]taskRow, 0, len(tasks))
	for _, task := range tasks {
		row := taskRow{ID: task.ID, Text: task.Text, Done: task.Done, CreatedAt: task.CreatedAt.Format(time.RFC3339)}
		if !task.DoneAt.IsZero() {
			row.DoneAt = task.DoneAt.Format(time.RFC3339)
		}
		rows = append(rows, row)
	}

	b.sendJSONDocument(ctx, msg, "tasks.json", rows)
}

func (b *Bot) sendJSONDocument(ctx context.Context, msg *tgbotapi.Message, name string, payload any) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		b.replyError(ctx, msg, err)
		return
	}

	file := tgbotapi.FileBytes{Name: name, Bytes: data}
	if _, err := b.tgService.SendDocument(msg.Chat.ID, file, ""); err != nil {
		b.replyError(ctx, msg, err)
	}
}

// exportMessagesExcel builds an xlsx workbook of every stored inbound
// message and uploads it to the admin chat.
func (b *Bot) exportMessagesExcel(ctx context.Context, msg *tgbotapi.Message) {
	messages, err := b.repo.GetAllMessages(ctx)
	if err != nil {
		b.replyError(ctx, msg, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Messages"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		b.replyError(ctx, msg, err)
		return
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "User ID", "Text", "Received"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "D1", style)

	for i, message := range messages {
		row := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), message.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), message.UserID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), message.Text)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), message.CreatedAt.Format("02.01.2006 15:04"))
	}

	_ = f.SetColWidth(sheetName, "A", "B", 12)
	_ = f.SetColWidth(sheetName, "C", "C", 60)
	_ = f.SetColWidth(sheetName, "D", "D", 20)

	_ = f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		b.replyError(ctx, msg, err)
		return
	}

	fileName := fmt.Sprintf("messages_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	file := tgbotapi.FileBytes{Name: fileName, Bytes: buf.Bytes()}
	if _, err := b.tgService.SendDocument(msg.Chat.ID, file, ""); err != nil {
		b.replyError(ctx, msg, err)
		return
	}

	b.logger.Info().Int("rows", len(messages)).Msg("Messages export uploaded")
}
