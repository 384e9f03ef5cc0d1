package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"relaybot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRemindArgs(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name    string
		args    string
		wantDue time.Time
		wantTxt string
		wantOK  bool
	}{
		{"relative minutes", "in 10m drink water", now.Add(10 * time.Minute), "drink water", true},
		{"relative hours", "in 2h call back", now.Add(2 * time.Hour), "call back", true},
		{"relative days", "in 3d follow up", now.Add(72 * time.Hour), "follow up", true},
		{"relative seconds", "in 45s check oven", now.Add(45 * time.Second), "check oven", true},
		{"absolute", "at 2025-09-07 10:00 standup", time.Date(2025, 9, 7, 10, 0, 0, 0, time.Local), "standup", true},
		{"bad unit", "in 10w too long", time.Time{}, "", false},
		{"missing text relative", "in 10m", time.Time{}, "", false},
		{"missing text absolute", "at 2025-09-07 10:00", time.Time{}, "", false},
		{"bad date", "at 2025-13-99 10:00 x", time.Time{}, "", false},
		{"no keyword", "tomorrow lunch", time.Time{}, "", false},
		{"empty", "", time.Time{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due, text, ok := parseRemindArgs(strings.Fields(tt.args), now)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, due.Equal(tt.wantDue), "due = %v, want %v", due, tt.wantDue)
				assert.Equal(t, tt.wantTxt, text)
			}
		})
	}
}

func lastText(tg *mockTelegram) string {
	sent := tg.messages()
	if len(sent) == 0 {
		return ""
	}
	return sent[len(sent)-1].text
}

func TestNoteLifecycle(t *testing.T) {
	b, tg, _ := newTestBot(t, nil)

	process(b, commandMessage(20, testAdminID, "/note remember the milk"))
	assert.Contains(t, lastText(tg), "Saved note #1.")

	process(b, commandMessage(21, testAdminID, "/notes"))
	assert.Contains(t, lastText(tg), "#1: remember the milk")

	process(b, commandMessage(22, testAdminID, "/delnote 1"))
	assert.Equal(t, "Deleted.", lastText(tg))

	process(b, commandMessage(23, testAdminID, "/delnote 1"))
	assert.Equal(t, "Not found or not yours.", lastText(tg))

	process(b, commandMessage(24, testAdminID, "/notes"))
	assert.Equal(t, "No notes yet.", lastText(tg))
}

func TestNoteFromRepliedMessage(t *testing.T) {
	b, tg, _ := newTestBot(t, nil)

	msg := commandMessage(20, testAdminID, "/note")
	msg.ReplyToMessage = &tgbotapi.Message{MessageID: 5, Text: "quoted text"}
	process(b, msg)
	assert.Contains(t, lastText(tg), "Saved note #1.")

	process(b, commandMessage(21, testAdminID, "/notes"))
	assert.Contains(t, lastText(tg), "quoted text")
}

func TestTaskLifecycle(t *testing.T) {
	b, tg, _ := newTestBot(t, nil)

	process(b, commandMessage(20, testAdminID, "/task ship release"))
	assert.Contains(t, lastText(tg), "Added task #1.")

	process(b, commandMessage(21, testAdminID, "/tasks"))
	assert.Contains(t, lastText(tg), "#1 [ ] ship release")

	process(b, commandMessage(22, testAdminID, "/done 1"))
	assert.Equal(t, "Done.", lastText(tg))

	process(b, commandMessage(23, testAdminID, "/tasks"))
	assert.Contains(t, lastText(tg), "#1 [x] ship release")

	process(b, commandMessage(24, testAdminID, "/deltask 1"))
	assert.Equal(t, "Deleted.", lastText(tg))

	process(b, commandMessage(25, testAdminID, "/done 1"))
	assert.Equal(t, "Not found or not yours.", lastText(tg))
}

func TestRemindCommandLifecycle(t *testing.T) {
	b, tg, db := newTestBot(t, nil)

	process(b, commandMessage(20, testAdminID, "/remind in 1h drink water"))
	assert.Contains(t, lastText(tg), "Reminder #1 set for")

	process(b, commandMessage(21, testAdminID, "/reminders"))
	assert.Contains(t, lastText(tg), "drink water")

	process(b, commandMessage(22, testAdminID, "/delrem 1"))
	assert.Equal(t, "Cancelled.", lastText(tg))

	reminder, err := db.GetReminder(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderCancelled, reminder.Status)

	process(b, commandMessage(23, testAdminID, "/delrem 1"))
	assert.Equal(t, "Not found/active or not yours.", lastText(tg))
}

func TestRemindRejectsPast(t *testing.T) {
	b, tg, _ := newTestBot(t, nil)

	process(b, commandMessage(20, testAdminID, "/remind at 2000-01-01 00:00 too late"))
	assert.Equal(t, "Time is in the past.", lastText(tg))

	process(b, commandMessage(21, testAdminID, "/remind next week maybe"))
	assert.Contains(t, lastText(tg), "Usage: /remind")
}

func TestSearchAcrossSources(t *testing.T) {
	b, tg, _ := newTestBot(t, nil)

	process(b, userMessage(10, 42, "please fix the printer"))
	process(b, commandMessage(20, testAdminID, "/note printer model is HP-42"))
	process(b, commandMessage(21, testAdminID, "/task order printer toner"))

	process(b, commandMessage(22, testAdminID, "/search printer"))
	out := lastText(tg)
	assert.Contains(t, out, "[note]")
	assert.Contains(t, out, "[task]")

	process(b, commandMessage(23, testAdminID, "/search unicorn"))
	assert.Equal(t, "No matches.", lastText(tg))
}

func TestSearchScopedToOwner(t *testing.T) {
	b, tg, _ := newTestBot(t, nil)

	// inbound messages belong to the sender, not the admin
	process(b, userMessage(10, 42, "secret request"))
	process(b, commandMessage(20, testAdminID, "/search secret"))
	assert.Equal(t, "No matches.", lastText(tg))
}

func TestExportNotesSendsJSONDocument(t *testing.T) {
	b, tg, _ := newTestBot(t, nil)

	process(b, commandMessage(20, testAdminID, "/note alpha"))
	process(b, commandMessage(21, testAdminID, "/export notes"))

	sent := tg.messages()
	last := sent[len(sent)-1]
	assert.Equal(t, "document", last.kind)
	assert.Equal(t, "notes.json", last.fileName)
}

func TestExportMessagesXLSX(t *testing.T) {
	b, tg, _ := newTestBot(t, nil)

	process(b, userMessage(10, 42, "row one"))
	process(b, userMessage(11, 43, "row two"))
	process(b, commandMessage(20, testAdminID, "/export xlsx"))

	sent := tg.messages()
	last := sent[len(sent)-1]
	assert.Equal(t, "document", last.kind)
	assert.Contains(t, last.fileName, "messages_export_")
	assert.Contains(t, last.fileName, ".xlsx")
}

func TestExportUsage(t *testing.T) {
	b, tg, _ := newTestBot(t, nil)

	process(b, commandMessage(20, testAdminID, "/export"))
	assert.Contains(t, lastText(tg), "Usage: /export")

	process(b, commandMessage(21, testAdminID, "/export everything"))
	assert.Contains(t, lastText(tg), "Usage: /export")
}

func TestFilesAndGetFile(t *testing.T) {
	b, tg, _ := newTestBot(t, nil)

	process(b, commandMessage(20, testAdminID, "/files"))
	assert.Equal(t, "No files saved.", lastText(tg))

	process(b, commandMessage(21, testAdminID, "/getfile 7"))
	assert.Equal(t, "Not found or not yours.", lastText(tg))
}

func TestSlashBanVariant(t *testing.T) {
	b, tg, db := newTestBot(t, nil)

	process(b, commandMessage(20, testAdminID, "/ban 42 abuse"))
	assert.Contains(t, lastText(tg), "User 42 banned.")

	banned, err := db.IsBanned(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, banned)

	process(b, commandMessage(21, testAdminID, "/ban"))
	assert.Contains(t, lastText(tg), "Usage: /ban")
}

func TestUnknownCommand(t *testing.T) {
	b, tg, _ := newTestBot(t, nil)

	process(b, commandMessage(20, testAdminID, "/selfdestruct"))
	assert.Contains(t, lastText(tg), "Unknown command")
}
