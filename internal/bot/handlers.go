package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/example/drillbot/internal/quiz"
	"github.com/example/drillbot/internal/scheduler"
	"github.com/example/drillbot/internal/session"
	"github.com/example/drillbot/internal/spaced_repetition"
	"github.com/example/drillbot/internal/universe"
	"github.com/example/drillbot/pkg/models"
)

// Constants for callback data
const (
	callbackDomainPrefix = "domain_"
	callbackAnswerPrefix = "answer_"
	callbackShowStats    = "show_stats"
)

// HandleCommand handles bot commands
func (b *Bot) HandleCommand(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	switch command := message.Command(); command {
	case "start":
		return b.handleStart(ctx, message)
	case "help":
		return b.handleHelp(chatID)
	case "stats":
		return b.handleStats(ctx, chatID)
	case "reset":
		return b.handleReset(ctx, chatID)
	case "pause":
		return b.handlePause(chatID)
	case "notify":
		return b.handleNotify(ctx, chatID, message.CommandArguments())
	case "remind":
		return b.handleRemind(ctx, message)
	default:
		if _, err := b.domains.Get(command); err == nil {
			return b.startDomain(ctx, chatID, command)
		}
		return b.handleUnknownCommand(chatID)
	}
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) error {
	learner := &models.Learner{
		ChatID:              message.Chat.ID,
		NotificationHour:    b.config.DefaultNotificationHour,
		NotificationEnabled: true,
	}
	if message.From != nil {
		learner.Username = message.From.UserName
	}
	if err := b.learners.Upsert(ctx, learner); err != nil {
		return errors.Wrap(err, "failed to register learner")
	}

	text := "👋 Welcome to Drill Bot!\n\n" +
		"I show you one question at a time and bring each one back just before you would forget it.\n\n" +
		"Pick a subject to begin:"

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = createKeyboard(b.domainButtons())
	return b.send(msg)
}

func (b *Bot) handleHelp(chatID int64) error {
	text := "📖 Commands\n\n" +
		"/chinese - Chinese characters\n" +
		"/math - Arithmetic\n" +
		"/english - English vocabulary\n" +
		"/stats - Progress in the current subject\n" +
		"/reset - Forget progress in the current subject\n" +
		"/pause - Stop drilling for now\n" +
		"/notify <hour|on|off> - Daily reminder settings"
	return b.sendText(chatID, text)
}

func (b *Bot) handleUnknownCommand(chatID int64) error {
	return b.sendText(chatID, "Unknown command. Use /help to see what I can do.")
}

// domainButtons lists the subjects, one per row
func (b *Bot) domainButtons() [][]MenuButton {
	var buttons [][]MenuButton
	for _, key := range b.domains.Keys() {
		d, err := b.domains.Get(key)
		if err != nil {
			continue
		}
		buttons = append(buttons, []MenuButton{{Text: d.Title, CallbackData: callbackDomainPrefix + key}})
	}
	return buttons
}

// startDomain switches the chat to domain and presents its first item
func (b *Bot) startDomain(ctx context.Context, chatID int64, domain string) error {
	c := b.getChat(chatID)
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelTimer()
	sess, err := b.newSession(ctx, chatID, domain)
	if err != nil {
		return errors.Wrapf(err, "failed to start %s for chat %d", domain, chatID)
	}
	c.session = sess
	c.question = quiz.Question{}

	if err := b.learners.SetActiveDomain(ctx, chatID, domain); err != nil {
		log.Printf("Error saving active domain for chat %d: %v", chatID, err)
	}

	summary := sess.Summary()
	if err := b.sendText(chatID, fmt.Sprintf("📚 %s: %d items, %d due now.",
		sess.Domain.Title, summary.Total, summary.Due)); err != nil {
		return err
	}
	return b.present(ctx, c)
}

// present advances the session and shows the result. Callers hold c.mu.
func (b *Bot) present(ctx context.Context, c *chat) error {
	snap := c.session.Next()
	switch snap.State {
	case session.Presenting:
		return b.ask(c, snap.Item)
	case session.Resting:
		return b.rest(c, snap.RestUntil)
	}
	return nil
}

// ask sends a question for item. Callers hold c.mu.
func (b *Bot) ask(c *chat, item models.Item) error {
	c.seq++

	var text strings.Builder
	text.WriteString(item.Key)
	if item.Pronunciation != "" {
		fmt.Fprintf(&text, "  [%s]", item.Pronunciation)
	}

	if c.session.Domain.AnswerMode == universe.Typed {
		c.question = quiz.NewTypedQuestion(item)
		text.WriteString("\n\nType your answer.")
		return b.sendText(c.id, text.String())
	}

	c.question = quiz.NewChoiceQuestion(item, c.session.Universe(), b.config.ChoiceOptions, c.rnd)
	text.WriteString("\n\nChoose the meaning:")

	var buttons [][]MenuButton
	for i, option := range c.question.Options {
		buttons = append(buttons, []MenuButton{{
			Text:         option,
			CallbackData: fmt.Sprintf("%s%d_%d", callbackAnswerPrefix, c.seq, i),
		}})
	}
	msg := tgbotapi.NewMessage(c.id, text.String())
	msg.ReplyMarkup = createKeyboard(buttons)
	return b.send(msg)
}

// rest tells the learner to take a break and arms a timer that presents the
// next item when the break is over. Callers hold c.mu.
func (b *Bot) rest(c *chat, until time.Time) error {
	c.cancelTimer()
	c.question = quiz.Question{}

	wait := until.Sub(b.config.Clock.Now())
	text := fmt.Sprintf("😴 Well done! Take a break. Next review in %s (at %s UTC).",
		formatWait(wait), until.UTC().Format("15:04"))
	if err := b.sendText(c.id, text); err != nil {
		return err
	}

	var timer *scheduler.RestTimer
	timer = scheduler.NewRestTimer(b.config.Clock, until, nil, func() {
		b.resume(c, timer)
	})
	if err := timer.Start(); err != nil {
		return errors.Wrap(err, "failed to start rest timer")
	}
	c.timer = timer
	return nil
}

// resume continues a chat whose rest timer elapsed
func (b *Bot) resume(c *chat, timer *scheduler.RestTimer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Ignore timers replaced by a newer rest, a domain switch or /pause
	if c.timer != timer || c.session == nil {
		return
	}
	c.timer = nil
	if err := b.present(context.Background(), c); err != nil {
		log.Printf("Error resuming chat %d: %v", c.id, err)
	}
}

// handleText treats plain messages as typed answers
func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message) error {
	c := b.lookupChat(message.Chat.ID)
	if c == nil {
		return b.promptDomain(message.Chat.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return b.promptDomain(c.id)
	}
	switch snap := c.session.Snapshot(); snap.State {
	case session.Presenting:
		return b.answer(ctx, c, quiz.Check(snap.Item, message.Text))
	case session.Resting:
		return b.sendText(c.id, fmt.Sprintf("😴 Resting until %s UTC.", snap.RestUntil.UTC().Format("15:04")))
	default:
		return b.present(ctx, c)
	}
}

func (b *Bot) promptDomain(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Pick a subject first:")
	msg.ReplyMarkup = createKeyboard(b.domainButtons())
	return b.send(msg)
}

// answer records the outcome, gives feedback and moves on. Callers hold c.mu.
func (b *Bot) answer(ctx context.Context, c *chat, isCorrect bool) error {
	item, ok := c.session.Current()
	if !ok {
		return nil
	}

	rec, err := c.session.Answer(ctx, isCorrect)
	if err != nil {
		if rec == nil {
			return err
		}
		log.Printf("Error saving progress for chat %d: %v", c.id, err)
	}
	c.question = quiz.Question{}

	var text strings.Builder
	if isCorrect {
		fmt.Fprintf(&text, "✅ Correct! Stage %d of %d.", rec.ReviewStage+1, spaced_repetition.StageCount)
	} else {
		fmt.Fprintf(&text, "❌ %s\nThe answer is %s. Back to stage %d of %d.",
			item.Key, item.Answer, rec.ReviewStage+1, spaced_repetition.StageCount)
	}
	if item.Translation != "" && item.Translation != item.Answer {
		fmt.Fprintf(&text, "\n%s", item.Translation)
	}
	if item.Example != "" {
		fmt.Fprintf(&text, "\n📝 %s", item.Example)
	}
	if err := b.sendText(c.id, text.String()); err != nil {
		return err
	}
	return b.present(ctx, c)
}

// HandleCallback handles inline button presses
func (b *Bot) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if callback.Message == nil || callback.Message.Chat == nil {
		return nil
	}
	defer b.answerCallback(callback.ID)

	chatID := callback.Message.Chat.ID
	switch {
	case strings.HasPrefix(callback.Data, callbackDomainPrefix):
		return b.startDomain(ctx, chatID, strings.TrimPrefix(callback.Data, callbackDomainPrefix))
	case strings.HasPrefix(callback.Data, callbackAnswerPrefix):
		return b.handleChoice(ctx, chatID, strings.TrimPrefix(callback.Data, callbackAnswerPrefix))
	case callback.Data == callbackShowStats:
		return b.handleStats(ctx, chatID)
	}
	return nil
}

// handleChoice checks a multiple-choice answer given as "<seq>_<index>"
func (b *Bot) handleChoice(ctx context.Context, chatID int64, data string) error {
	seqStr, idxStr, found := strings.Cut(data, "_")
	seq, err1 := strconv.Atoi(seqStr)
	idx, err2 := strconv.Atoi(idxStr)
	if !found || err1 != nil || err2 != nil {
		return errors.Errorf("malformed answer callback %q", data)
	}

	c := b.lookupChat(chatID)
	if c == nil {
		return b.sendText(chatID, "This question has expired.")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || seq != c.seq || len(c.question.Options) == 0 {
		return b.sendText(chatID, "This question has expired.")
	}
	return b.answer(ctx, c, c.question.IsCorrectOption(idx))
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) error {
	var (
		summary spaced_repetition.Summary
		title   string
		found   bool
	)
	if c := b.lookupChat(chatID); c != nil {
		c.mu.Lock()
		if c.session != nil {
			summary, title, found = c.session.Summary(), c.session.Domain.Title, true
		}
		c.mu.Unlock()
	}

	if !found {
		learner, err := b.learners.GetByChatID(ctx, chatID)
		if err != nil || learner.ActiveDomain == "" {
			return b.promptDomain(chatID)
		}
		sess, err := b.newSession(ctx, chatID, learner.ActiveDomain)
		if err != nil {
			return err
		}
		summary, title = sess.Summary(), sess.Domain.Title
	}

	return b.sendText(chatID, formatSummary(title, summary, b.config.Clock.Now()))
}

func formatSummary(title string, s spaced_repetition.Summary, now time.Time) string {
	var text strings.Builder
	fmt.Fprintf(&text, "📊 %s\n\n", title)
	fmt.Fprintf(&text, "Items: %d\n", s.Total)
	fmt.Fprintf(&text, "Seen: %d\n", s.Seen)
	fmt.Fprintf(&text, "Due now: %d\n", s.Due)
	fmt.Fprintf(&text, "Mastered: %d\n", s.Mastered)
	fmt.Fprintf(&text, "Accuracy: %.0f%% of %d answers", s.Accuracy*100, s.Attempts)
	if !s.NextReview.IsZero() {
		fmt.Fprintf(&text, "\nNext review in %s", formatWait(s.NextReview.Sub(now)))
	}
	return text.String()
}

func (b *Bot) handleReset(ctx context.Context, chatID int64) error {
	c := b.lookupChat(chatID)
	if c == nil {
		return b.promptDomain(chatID)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return b.promptDomain(chatID)
	}
	c.cancelTimer()
	if err := c.session.Reset(ctx); err != nil {
		return err
	}
	if err := b.sendText(chatID, fmt.Sprintf("🔄 Progress in %s cleared.", c.session.Domain.Title)); err != nil {
		return err
	}
	return b.present(ctx, c)
}

func (b *Bot) handlePause(chatID int64) error {
	if c := b.lookupChat(chatID); c != nil {
		c.mu.Lock()
		c.cancelTimer()
		c.session = nil
		c.question = quiz.Question{}
		c.mu.Unlock()
	}
	return b.sendText(chatID, "⏸ Paused. Send /chinese, /math or /english to continue.")
}

func (b *Bot) handleNotify(ctx context.Context, chatID int64, args string) error {
	args = strings.ToLower(strings.TrimSpace(args))

	var err error
	switch args {
	case "":
		learner, err := b.learners.GetByChatID(ctx, chatID)
		if err != nil {
			return b.sendText(chatID, "Send /start first.")
		}
		return b.sendText(chatID, fmt.Sprintf("🔔 Reminders: %s at %d:00 UTC.\nUsage: /notify <hour|on|off>",
			boolToEnabledString(learner.NotificationEnabled), learner.NotificationHour))
	case "off":
		err = b.learners.SetNotificationEnabled(ctx, chatID, false)
	case "on":
		err = b.learners.SetNotificationEnabled(ctx, chatID, true)
	default:
		hour, convErr := strconv.Atoi(args)
		if convErr != nil || hour < 0 || hour > 23 {
			return b.sendText(chatID, "Usage: /notify <hour 0-23|on|off>")
		}
		if err = b.learners.SetNotificationHour(ctx, chatID, hour); err == nil {
			err = b.learners.SetNotificationEnabled(ctx, chatID, true)
		}
	}
	if err != nil {
		log.Printf("Error updating reminders for chat %d: %v", chatID, err)
		return b.sendText(chatID, "❌ Could not update your reminders. Send /start first.")
	}
	return b.sendText(chatID, "✅ Reminder settings saved.")
}

// handleRemind runs the reminder check now. Admin only.
func (b *Bot) handleRemind(ctx context.Context, message *tgbotapi.Message) error {
	if message.From == nil || !b.isAdmin(message.From.ID) {
		return b.sendText(message.Chat.ID, "This command is only available for administrators.")
	}

	b.mu.Lock()
	s := b.scheduler
	b.mu.Unlock()
	if s == nil {
		return b.sendText(message.Chat.ID, "The reminder scheduler is disabled.")
	}
	sent := s.CheckAndSendReminders(ctx)
	return b.sendText(message.Chat.ID, fmt.Sprintf("Sent %d reminders.", sent))
}

func boolToEnabledString(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

// formatWait renders a duration rounded to whole minutes
func formatWait(d time.Duration) string {
	if d < time.Minute {
		return "less than a minute"
	}
	d = d.Round(time.Minute)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	switch {
	case hours >= 48:
		return fmt.Sprintf("%d days", hours/24)
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
