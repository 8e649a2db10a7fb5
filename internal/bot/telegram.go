package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"unibites/internal/chat"
	"unibites/internal/menu"
	"unibites/internal/tracker"
	"unibites/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	StateIdle       = "idle"
	StateAllowance  = "allowance"
	StateSavingGoal = "saving_goal"
	StateDuration   = "duration"
)

// UserState tracks a student part way through budget onboarding.
type UserState struct {
	TelegramID   int64
	CurrentState string
	Allowance    int
	SavingGoal   int
	Editing      bool
}

type TelegramBot struct {
	bot        *tgbotapi.BotAPI
	catalog    *menu.Catalog
	tracker    *tracker.Tracker
	assistant  *chat.Assistant
	logger     *logger.Logger
	userStates map[int64]*UserState
	reported   map[int64]string
	stateMutex sync.RWMutex
}

func NewTelegramBot(token string, catalog *menu.Catalog, tr *tracker.Tracker, assistant *chat.Assistant, logger *logger.Logger) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	logger.Info("Authorized on Telegram", "username", bot.Self.UserName)

	return &TelegramBot{
		bot:        bot,
		catalog:    catalog,
		tracker:    tr,
		assistant:  assistant,
		logger:     logger.Named("bot"),
		userStates: make(map[int64]*UserState),
		reported:   make(map[int64]string),
	}, nil
}

// Start begins receiving updates from Telegram via polling
func (t *TelegramBot) Start(ctx context.Context) error {
	// Polling does not work while a webhook is registered
	t.logger.Info("Removing any existing webhook")
	_, err := t.bot.Request(tgbotapi.DeleteWebhookConfig{
		DropPendingUpdates: true,
	})
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := t.bot.GetUpdatesChan(updateConfig)

	t.logger.Info("Started receiving Telegram updates")

	go t.handleUpdates(ctx, updates)

	return nil
}

func (t *TelegramBot) handleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		go func(update tgbotapi.Update) {
			defer func() {
				if r := recover(); r != nil {
					t.logger.Error("Recovered from panic while processing update", "error", r)
				}
			}()

			t.logger.Debug("Received update", "update_id", update.UpdateID)

			if update.Message != nil && update.Message.From != nil {
				if update.Message.IsCommand() {
					t.handleCommand(ctx, update.Message)
				} else {
					t.handleMessage(ctx, update.Message)
				}
				t.notify(ctx, update.Message.Chat.ID, update.Message.From.ID)
			} else if update.CallbackQuery != nil {
				t.handleCallbackQuery(ctx, update.CallbackQuery)
			}
		}(update)
	}
}

// handleCommand processes bot commands
func (t *TelegramBot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()
	chatID := message.Chat.ID
	userID := message.From.ID
	key := userKey(userID)

	t.logger.Info("Handling command", "command", command, "user_id", userID)

	switch command {
	case "start":
		t.tracker.SetName(ctx, key, message.From.FirstName)
		if u := t.tracker.User(ctx, key); u.Budget != nil {
			t.reply(chatID, fmt.Sprintf("👋 Welcome back, %s!\n\n%s", message.From.FirstName, formatSummary(t.tracker.Summary(ctx, key), u.Budget)))
			return
		}
		t.beginOnboarding(chatID, userID, "👋 Welcome to UniBites! I'll help you plan your food budget for the month.", false)

	case "budget":
		u := t.tracker.User(ctx, key)
		if args == "edit" {
			if u.Budget == nil {
				t.beginOnboarding(chatID, userID, "You have no budget yet, so let's set one up.", false)
				return
			}
			t.beginOnboarding(chatID, userID, "Let's change your budget.", true)
			return
		}
		t.reply(chatID, formatSummary(t.tracker.Summary(ctx, key), u.Budget))

	case "menu":
		t.handleMenu(ctx, chatID, key, args)

	case "log":
		t.handleLog(ctx, chatID, key, args)

	case "manual":
		name, price, ok := parseManual(args)
		if !ok {
			t.reply(chatID, "Usage: /manual <name> <price>, e.g. /manual Chai 10")
			return
		}
		m, err := t.tracker.LogManual(ctx, key, name, price, "")
		if err != nil {
			t.reply(chatID, "Could not log that: "+err.Error())
			return
		}
		t.reply(chatID, t.loggedMessage(ctx, key, m.Item.Name, m.Cost()))

	case "stage":
		t.handleStage(ctx, chatID, key, args)

	case "qty":
		t.handleQuantity(ctx, chatID, key, args)

	case "unstage":
		it, ok := t.lookup(args)
		if !ok {
			t.reply(chatID, "Usage: /unstage <name>")
			return
		}
		staged := t.tracker.Unstage(ctx, key, it.ID, "")
		t.reply(chatID, formatCart(staged, t.tracker.StagedTotal(ctx, key)))

	case "cart":
		t.reply(chatID, formatCart(t.tracker.Staged(ctx, key), t.tracker.StagedTotal(ctx, key)))

	case "confirm":
		logs, err := t.tracker.Confirm(ctx, key)
		if err != nil {
			t.reply(chatID, "🛒 Your cart is empty.")
			return
		}
		total := 0
		for _, m := range logs {
			total += m.Cost()
		}
		t.reply(chatID, t.loggedMessage(ctx, key, fmt.Sprintf("%d items", len(logs)), total))

	case "logbook":
		t.reply(chatID, formatLogbook(t.tracker.Meals(ctx, key), t.tracker.Calendar()))

	case "remove":
		if err := t.tracker.RemoveLog(ctx, key, args); err != nil {
			t.reply(chatID, "No log entry with that id. Send /logbook to see today's ids.")
			return
		}
		t.reply(chatID, "🗑️ Entry removed.")

	case "summary":
		report, due := t.tracker.DailyReport(ctx, key)
		if !due {
			t.reply(chatID, "Your daily recap is ready after 8 PM once you've logged 3 meals.")
			return
		}
		t.reply(chatID, formatReport(report))

	case "messpass":
		t.handleMessPass(ctx, chatID, key, args)

	case "help":
		t.reply(chatID, helpText)

	default:
		t.reply(chatID, "Unknown command. Send /help to see what I can do.")
	}
}

// handleCallbackQuery processes callback queries from inline keyboards
func (t *TelegramBot) handleCallbackQuery(ctx context.Context, callbackQuery *tgbotapi.CallbackQuery) {
	t.logger.Info("Received callback query",
		"from", callbackQuery.From.UserName,
		"data", callbackQuery.Data)

	if _, err := t.bot.Request(tgbotapi.NewCallback(callbackQuery.ID, "")); err != nil {
		t.logger.Warn("Failed to acknowledge callback", "error", err)
	}
	if callbackQuery.Message == nil {
		return
	}

	chatID := callbackQuery.Message.Chat.ID
	key := userKey(callbackQuery.From.ID)
	action, arg := parseCallback(callbackQuery.Data)

	switch action {
	case callbackView:
		it, ok := t.catalog.Item(arg)
		if !ok {
			t.reply(chatID, "That item is no longer on the menu.")
			return
		}
		t.reply(chatID, formatItem(it, t.catalog.CanteenName(it.CanteenID)))

	case callbackAdd:
		it, ok := t.catalog.Item(arg)
		if !ok {
			t.reply(chatID, "That item is no longer on the menu.")
			return
		}
		staged := t.tracker.Stage(ctx, key, it, "")
		t.reply(chatID, formatCart(staged, t.tracker.StagedTotal(ctx, key)))

	case callbackMessPass:
		from, to, ok := strings.Cut(arg, ":")
		if !ok {
			return
		}
		start, end, err := parseDateRange(from+" "+to, t.tracker.Calendar().Location())
		if err != nil {
			t.logger.Warn("Bad mess pass callback", "data", callbackQuery.Data, "error", err)
			return
		}
		mp, err := t.tracker.ApplyMessPass(ctx, key, start, end)
		if err != nil {
			t.reply(chatID, "Could not apply the mess pass: "+err.Error())
			return
		}
		t.reply(chatID, fmt.Sprintf("🎟️ Mess pass active for %d days (₹%d).", mp.TotalDays, mp.TotalFee))

	case callbackAck:
		if err := t.tracker.AcknowledgeCompletion(ctx, key); err != nil {
			t.logger.Warn("Failed to acknowledge completion", "user_key", key, "error", err)
		}
		t.beginOnboarding(chatID, callbackQuery.From.ID, "Let's plan your next cycle.", false)
	}
}

// Stop gracefully shuts down the bot
func (t *TelegramBot) Stop(ctx context.Context) error {
	t.bot.StopReceivingUpdates()

	// Allow time for handlers to complete
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(500 * time.Millisecond):
		return nil
	}
}

func (t *TelegramBot) reply(chatID int64, text string) {
	t.send(tgbotapi.NewMessage(chatID, text))
}

func (t *TelegramBot) send(msg tgbotapi.Chattable) {
	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Error("Failed to send message", "error", err)
	}
}

func userKey(telegramID int64) string {
	return strconv.FormatInt(telegramID, 10)
}

const helpText = `🍽️ UniBites commands

/start - set up your budget
/budget - today's budget (/budget edit to change it)
/menu [period] [canteen] [cheap|pricey] - what you can afford now
/log <name> - log a menu item
/manual <name> <price> - log something off the menu
/stage <name> - add an item to your cart
/qty <name> <change> - change a cart quantity, e.g. +1 or -1
/unstage <name> - take it back out
/cart - show the cart
/confirm - log everything in the cart
/logbook - today's entries
/remove <id> - delete an entry
/summary - evening recap
/messpass <start> <end> - quote a mess pass (YYYY-MM-DD)
/messpass cancel - drop your mess pass

Or just ask me something like "cheap healthy snacks".`
