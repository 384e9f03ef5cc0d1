package bot

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// handleCommand dispatches admin slash commands. Everything here runs in the
// admin chat only; non-admin commands never reach this point.
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	if b.metrics != nil {
		b.metrics.CommandsProcessed.Inc()
	}

	switch msg.Command() {
	case "start", "help":
		b.sendMessage(msg.Chat.ID, adminWelcome)
	case "note":
		b.cmdNote(ctx, msg)
	case "notes":
		b.cmdNotes(ctx, msg)
	case "delnote":
		b.cmdDelNote(ctx, msg)
	case "task":
		b.cmdTask(ctx, msg)
	case "tasks":
		b.cmdTasks(ctx, msg)
	case "done":
		b.cmdDone(ctx, msg)
	case "deltask":
		b.cmdDelTask(ctx, msg)
	case "remind":
		b.cmdRemind(ctx, msg)
	case "reminders":
		b.cmdReminders(ctx, msg)
	case "delrem":
		b.cmdDelRem(ctx, msg)
	case "search":
		b.cmdSearch(ctx, msg)
	case "export":
		b.cmdExport(ctx, msg)
	case "files":
		b.cmdFiles(ctx, msg)
	case "getfile":
		b.cmdGetFile(ctx, msg)
	case "ban", "unban", "who", "stats":
		// Slash variants of the text grammar.
		text := msg.Command()
		if args := msg.CommandArguments(); args != "" {
			text += " " + args
		}
		grammarMsg := *msg
		grammarMsg.Text = text
		if !b.handleAdminGrammar(ctx, &grammarMsg) {
			b.sendMessage(msg.Chat.ID, fmt.Sprintf("Usage: /%s <user_id>", msg.Command()))
		}
	default:
		b.sendMessage(msg.Chat.ID, "Unknown command. /help")
	}
}

func commandArgs(msg *tgbotapi.Message) []string {
	return strings.Fields(msg.CommandArguments())
}

// parseID extracts a single numeric id argument, 0 when absent or malformed.
func parseID(msg *tgbotapi.Message) int64 {
	args := commandArgs(msg)
	if len(args) == 0 {
		return 0
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func (b *Bot) cmdNote(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.CommandArguments())
	if text == "" && msg.ReplyToMessage != nil {
		text = strings.TrimSpace(msg.ReplyToMessage.Text)
	}
	if text == "" {
		b.sendMessage(msg.Chat.ID, "Usage: /note <text> or reply to a message with /note")
		return
	}

	id, err := b.repo.CreateNote(ctx, msg.From.ID, text)
	if err != nil {
		b.replyError(ctx, msg, err)
		return
	}
	b.sendMessage(msg.Chat.ID, fmt.Sprintf("Saved note #%d.", id))
}

func (b *Bot) cmdNotes(ctx context.Context, msg *tgbotapi.Message) {
	notes, err := b.repo.GetNotes(ctx, msg.From.ID, 20)
	if err != nil {
		b.replyError(ctx, msg, err)
		return
	}
	if len(notes) == 0 {
		b.sendMessage(msg.Chat.ID, "No notes yet.")
		return
	}

	var lines []string
	for _, note := range notes {
		lines = append(lines, fmt.Sprintf("#%d: %s", note.ID, note.Text))
	}
	b.sendMessage(msg.Chat.ID, strings.Join(lines, "\n"))
}

func (b *Bot) cmdDelNote(ctx context.Context, msg *tgbotapi.Message) {
	id := parseID(msg)
	if id == 0 {
		b.sendMessage(msg.Chat.ID, "Usage: /delnote <id>")
		return
	}
	if err := b.repo.DeleteNote(ctx, id, msg.From.ID); err != nil {
		b.sendMessage(msg.Chat.ID, b.getErrorMessage(err))
		return
	}
	b.sendMessage(msg.Chat.ID, "Deleted.")
}

func (b *Bot) cmdTask(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.CommandArguments())
	if text == "" {
		b.sendMessage(msg.Chat.ID, "Usage: /task <text>")
		return
	}

	id, err := b.repo.CreateTask(ctx, msg.From.ID, text)
	if err != nil {
		b.replyError(ctx, msg, err)
		return
	}
	b.sendMessage(msg.Chat.ID, fmt.Sprintf("Added task #%d.", id))
}

func (b *Bot) cmdTasks(ctx context.Context, msg *tgbotapi.Message) {
	tasks, err := b.repo.GetTasks(ctx, msg.From.ID, 50)
	if err != nil {
		b.replyError(ctx, msg, err)
		return
	}
	if len(tasks) == 0 {
		b.sendMessage(msg.Chat.ID, "No tasks.")
		return
	}

	var lines []string
	for _, task := range tasks {
		mark := " "
		if task.Done {
			mark = "x"
		}
		lines = append(lines, fmt.Sprintf("#%d [%s] %s", task.ID, mark, task.Text))
	}
	b.sendMessage(msg.Chat.ID, strings.Join(lines, "\n"))
}

func (b *Bot) cmdDone(ctx context.Context, msg *tgbotapi.Message) {
	id := parseID(msg)
	if id == 0 {
		b.sendMessage(msg.Chat.ID, "Usage: /done <id>")
		return
	}
	if err := b.repo.CompleteTask(ctx, id, msg.From.ID); err != nil {
		b.sendMessage(msg.Chat.ID, b.getErrorMessage(err))
		return
	}
	b.sendMessage(msg.Chat.ID, "Done.")
}

func (b *Bot) cmdDelTask(ctx context.Context, msg *tgbotapi.Message) {
	id := parseID(msg)
	if id == 0 {
		b.sendMessage(msg.Chat.ID, "Usage: /deltask <id>")
		return
	}
	if err := b.repo.DeleteTask(ctx, id, msg.From.ID); err != nil {
		b.sendMessage(msg.Chat.ID, b.getErrorMessage(err))
		return
	}
	b.sendMessage(msg.Chat.ID, "Deleted.")
}

var durationPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// parseRemindArgs understands two forms:
//
//	in 10m <text>   (also s, h, d)
//	at 2006-01-02 15:04 <text>   (local time)
func parseRemindArgs(args []string, now time.Time) (time.Time, string, bool) {
	if len(args) >= 2 && strings.EqualFold(args[0], "in") {
		m := durationPattern.FindStringSubmatch(strings.ToLower(args[1]))
		if m == nil {
			return time.Time{}, "", false
		}
		n, _ := strconv.Atoi(m[1])
		var unit time.Duration
		switch m[2] {
		case "s":
			unit = time.Second
		case "m":
			unit = time.Minute
		case "h":
			unit = time.Hour
		case "d":
			unit = 24 * time.Hour
		}
		text := strings.TrimSpace(strings.Join(args[2:], " "))
		if text == "" {
			return time.Time{}, "", false
		}
		return now.Add(time.Duration(n) * unit), text, true
	}

	if len(args) >= 3 && strings.EqualFold(args[0], "at") {
		dueAt, err := time.ParseInLocation("2006-01-02 15:04", args[1]+" "+args[2], time.Local)
		if err != nil {
			return time.Time{}, "", false
		}
		text := strings.TrimSpace(strings.Join(args[3:], " "))
		if text == "" {
			return time.Time{}, "", false
		}
		return dueAt, text, true
	}

	return time.Time{}, "", false
}

func (b *Bot) cmdRemind(ctx context.Context, msg *tgbotapi.Message) {
	dueAt, text, ok := parseRemindArgs(commandArgs(msg), time.Now())
	if !ok {
		b.sendMessage(msg.Chat.ID, "Usage: /remind in 10m <text> | /remind at YYYY-MM-DD HH:MM <text>")
		return
	}

	id, err := b.scheduler.Schedule(ctx, msg.From.ID, msg.Chat.ID, text, dueAt)
	if err != nil {
		b.sendMessage(msg.Chat.ID, b.getErrorMessage(err))
		return
	}
	b.sendMessage(msg.Chat.ID, fmt.Sprintf("Reminder #%d set for %s.", id, dueAt.Format("2006-01-02 15:04")))
}

func (b *Bot) cmdReminders(ctx context.Context, msg *tgbotapi.Message) {
	reminders, err := b.repo.GetActiveRemindersByUser(ctx, msg.From.ID)
	if err != nil {
		b.replyError(ctx, msg, err)
		return
	}
	if len(reminders) == 0 {
		b.sendMessage(msg.Chat.ID, "No active reminders.")
		return
	}

	var lines []string
	for _, reminder := range reminders {
		lines = append(lines, fmt.Sprintf("#%d at %s — %s", reminder.ID, reminder.DueAt.Format("2006-01-02 15:04"), reminder.Text))
	}
	b.sendMessage(msg.Chat.ID, strings.Join(lines, "\n"))
}

func (b *Bot) cmdDelRem(ctx context.Context, msg *tgbotapi.Message) {
	id := parseID(msg)
	if id == 0 {
		b.sendMessage(msg.Chat.ID, "Usage: /delrem <id>")
		return
	}
	if err := b.scheduler.Cancel(ctx, id, msg.From.ID); err != nil {
		b.sendMessage(msg.Chat.ID, b.getErrorMessage(err))
		return
	}
	b.sendMessage(msg.Chat.ID, "Cancelled.")
}

func (b *Bot) cmdSearch(ctx context.Context, msg *tgbotapi.Message) {
	query := strings.TrimSpace(msg.CommandArguments())
	if query == "" {
		b.sendMessage(msg.Chat.ID, "Usage: /search <query>")
		return
	}

	results, err := b.repo.Search(ctx, msg.From.ID, query, 10)
	if err != nil {
		b.replyError(ctx, msg, err)
		return
	}
	if len(results) == 0 {
		b.sendMessage(msg.Chat.ID, "No matches.")
		return
	}

	var lines []string
	for _, result := range results {
		lines = append(lines, fmt.Sprintf("[%s] #%d: %s", result.Source, result.ID, result.Text))
	}
	b.sendMessage(msg.Chat.ID, strings.Join(lines, "\n"))
}

func (b *Bot) cmdFiles(ctx context.Context, msg *tgbotapi.Message) {
	refs, err := b.repo.GetFileRefs(ctx, msg.From.ID, 20)
	if err != nil {
		b.replyError(ctx, msg, err)
		return
	}
	if len(refs) == 0 {
		b.sendMessage(msg.Chat.ID, "No files saved.")
		return
	}

	var lines []string
	for _, ref := range refs {
		lines = append(lines, fmt.Sprintf("#%d (%s) — %s", ref.ID, ref.Kind, ref.Caption))
	}
	b.sendMessage(msg.Chat.ID, strings.Join(lines, "\n"))
}

func (b *Bot) cmdGetFile(ctx context.Context, msg *tgbotapi.Message) {
	id := parseID(msg)
	if id == 0 {
		b.sendMessage(msg.Chat.ID, "Usage: /getfile <id>")
		return
	}

	ref, err := b.repo.GetFileRef(ctx, id, msg.From.ID)
	if err != nil {
		b.sendMessage(msg.Chat.ID, b.getErrorMessage(err))
		return
	}

	out := fileRefChattable(msg.Chat.ID, ref)
	if out == nil {
		b.sendMessage(msg.Chat.ID, "Unsupported file type.")
		return
	}
	if _, err := b.tgService.Send(out); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("file_ref_id", ref.ID).Msg("Failed to resend file")
	}
}
