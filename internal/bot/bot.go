package bot

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/example/drillbot/internal/quiz"
	"github.com/example/drillbot/internal/scheduler"
	"github.com/example/drillbot/internal/session"
	"github.com/example/drillbot/internal/universe"
	"github.com/example/drillbot/pkg/models"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// sender is the part of the Telegram API the bot talks to
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// LearnerStore keeps learner settings
type LearnerStore interface {
	GetByChatID(ctx context.Context, chatID int64) (*models.Learner, error)
	Upsert(ctx context.Context, learner *models.Learner) error
	SetActiveDomain(ctx context.Context, chatID int64, domain string) error
	SetNotificationHour(ctx context.Context, chatID int64, hour int) error
	SetNotificationEnabled(ctx context.Context, chatID int64, enabled bool) error
}

// chat is the drill state of one conversation. Fields are guarded by mu.
type chat struct {
	mu       sync.Mutex
	id       int64
	session  *session.Session
	question quiz.Question
	seq      int // Sequence number of the asked question, part of its callback data
	timer    *scheduler.RestTimer
	rnd      *rand.Rand
}

// cancelTimer stops a pending rest timer. Callers hold c.mu.
func (c *chat) cancelTimer() {
	if c.timer != nil {
		c.timer.Cancel()
		c.timer = nil
	}
}

// Bot represents the Telegram bot application
type Bot struct {
	token     string
	learners  LearnerStore
	records   session.Persistence
	domains   *universe.Registry
	config    *BotConfig
	scheduler *scheduler.Scheduler

	mu    sync.Mutex
	api   sender
	chats map[int64]*chat
}

// New creates a new bot instance
func New(token string, learners LearnerStore, records session.Persistence, domains *universe.Registry, config *BotConfig) *Bot {
	if config == nil {
		config = DefaultConfig()
	}
	return &Bot{
		token:    token,
		learners: learners,
		records:  records,
		domains:  domains,
		config:   config,
		chats:    make(map[int64]*chat),
	}
}

// SetScheduler attaches the reminder scheduler used by /remind
func (b *Bot) SetScheduler(s *scheduler.Scheduler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scheduler = s
}

// Start connects to Telegram and handles updates until ctx is done
func (b *Bot) Start(ctx context.Context) error {
	botAPI, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return errors.Wrap(err, "unable to create bot")
	}

	b.mu.Lock()
	b.api = botAPI
	b.mu.Unlock()
	log.Printf("Authorized on account %s", botAPI.Self.UserName)

	// Set up the update configuration
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := botAPI.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			botAPI.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// Stop cancels pending rest timers
func (b *Bot) Stop(ctx context.Context) error {
	b.mu.Lock()
	chats := make([]*chat, 0, len(b.chats))
	for _, c := range b.chats {
		chats = append(chats, c)
	}
	b.mu.Unlock()

	for _, c := range chats {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.mu.Lock()
		c.cancelTimer()
		c.mu.Unlock()
	}
	log.Println("Bot stopped")
	return nil
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		if update.Message.IsCommand() {
			err = b.HandleCommand(ctx, update.Message)
		} else {
			err = b.handleText(ctx, update.Message)
		}
	case update.CallbackQuery != nil:
		err = b.HandleCallback(ctx, update.CallbackQuery)
	}
	if err != nil {
		log.Printf("Error handling update %d: %v", update.UpdateID, err)
	}
}

// SendReminders implements the scheduler.Notifier interface
func (b *Bot) SendReminders(chatID int64, domain string, count int) error {
	d, err := b.domains.Get(domain)
	if err != nil {
		return err
	}

	itemForm := "items"
	if count == 1 {
		itemForm = "item"
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("⏰ You have %d %s of %s to review!", count, itemForm, d.Title))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "▶️ Start", CallbackData: callbackDomainPrefix + domain}},
	})
	if err := b.send(msg); err != nil {
		log.Printf("Error sending reminder to chat %d: %v", chatID, err)
		return err
	}
	log.Printf("Successfully sent reminder to chat %d for %d %s items", chatID, count, domain)
	return nil
}

// getChat returns the state of chatID, creating it on first use
func (b *Bot) getChat(chatID int64) *chat {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.chats[chatID]
	if !ok {
		c = &chat{id: chatID, rnd: rand.New(rand.NewSource(time.Now().UnixNano() + chatID))}
		b.chats[chatID] = c
	}
	return c
}

// lookupChat returns the state of chatID or nil
func (b *Bot) lookupChat(chatID int64) *chat {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.chats[chatID]
}

func (b *Bot) send(c tgbotapi.Chattable) error {
	b.mu.Lock()
	api := b.api
	b.mu.Unlock()
	if api == nil {
		return errors.New("bot is not connected")
	}
	_, err := api.Send(c)
	return err
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.send(tgbotapi.NewMessage(chatID, text))
}

// answerCallback stops the button's loading indicator
func (b *Bot) answerCallback(id string) {
	b.mu.Lock()
	api := b.api
	b.mu.Unlock()
	if api == nil {
		return
	}
	if _, err := api.Request(tgbotapi.NewCallback(id, "")); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
}

func (b *Bot) newSession(ctx context.Context, chatID int64, domain string) (*session.Session, error) {
	d, err := b.domains.Get(domain)
	if err != nil {
		return nil, err
	}
	return session.New(ctx, d, universe.DomainKey(domain, chatID), b.records, session.Options{
		Clock:     b.config.Clock,
		MinSample: b.config.MinSample,
	})
}

// isAdmin checks if a user is an admin
func (b *Bot) isAdmin(userID int64) bool {
	return b.config.AdminUserIDs[userID]
}
