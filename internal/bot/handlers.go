package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"unibites/internal/budget"
	"unibites/internal/chat"
	"unibites/internal/menu"
	"unibites/internal/models"
	"unibites/internal/tracker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleMessage walks onboarding for users who are mid-way through it and
// sends everything else to the assistant.
func (t *TelegramBot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	userID := message.From.ID
	text := strings.TrimSpace(message.Text)

	var state UserState
	t.stateMutex.RLock()
	st, exists := t.userStates[userID]
	if exists {
		state = *st
	}
	t.stateMutex.RUnlock()

	if !exists || state.CurrentState == StateIdle {
		t.handleChat(ctx, chatID, userKey(userID), text)
		return
	}

	t.logger.Info("Processing onboarding step",
		"user_id", userID,
		"state", state.CurrentState)

	switch state.CurrentState {
	case StateAllowance:
		allowance, err := strconv.Atoi(strings.TrimPrefix(text, "₹"))
		if err != nil || allowance <= 0 {
			t.reply(chatID, "Please enter your monthly allowance as a whole number of rupees (e.g. 6000):")
			return
		}
		t.updateState(userID, func(s *UserState) {
			s.Allowance = allowance
			s.CurrentState = StateSavingGoal
		})

		msg := tgbotapi.NewMessage(chatID, "How much would you like to save this cycle? (e.g. 500, or 0)")
		msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton("0"),
				tgbotapi.NewKeyboardButton("500"),
				tgbotapi.NewKeyboardButton("1000"),
			),
		)
		t.send(msg)

	case StateSavingGoal:
		goal, err := strconv.Atoi(strings.TrimPrefix(text, "₹"))
		if err != nil || goal < 0 {
			t.reply(chatID, "Please enter your saving goal in rupees (e.g. 500, or 0):")
			return
		}
		t.updateState(userID, func(s *UserState) {
			s.SavingGoal = goal
			s.CurrentState = StateDuration
		})

		msg := tgbotapi.NewMessage(chatID, "Over how many days should this budget last?")
		msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton("7"),
				tgbotapi.NewKeyboardButton("15"),
				tgbotapi.NewKeyboardButton("30"),
			),
		)
		t.send(msg)

	case StateDuration:
		days, err := strconv.Atoi(text)
		if err != nil || days <= 0 {
			t.reply(chatID, "Please enter the number of days (e.g. 30):")
			return
		}

		key := userKey(userID)
		save := t.tracker.Onboard
		if state.Editing {
			save = t.tracker.EditBudget
		}
		b, err := save(ctx, key, state.Allowance, state.SavingGoal, days)
		if errors.Is(err, tracker.ErrInvalidBudget) {
			t.beginOnboarding(chatID, userID, "Those numbers don't add up to a budget. Let's try again.", state.Editing)
			return
		}
		if errors.Is(err, tracker.ErrNoBudget) {
			t.beginOnboarding(chatID, userID, "You have no budget to edit yet, so let's set one up.", false)
			return
		}
		if err != nil {
			t.logger.Error("Failed to save budget", "user_key", key, "error", err)
			t.reply(chatID, "Sorry, something went wrong while saving your budget. Please try again later.")
			return
		}

		t.updateState(userID, func(s *UserState) {
			s.CurrentState = StateIdle
		})

		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"✅ All set! Your daily limit is ₹%s for %d days.\n\nSend /menu to see what you can afford, or ask me anything.",
			budget.FormatRupees(b.DailyLimit), b.TotalPlannedDays))
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		t.send(msg)

	default:
		t.stateMutex.Lock()
		delete(t.userStates, userID)
		t.stateMutex.Unlock()
		t.reply(chatID, "Sorry, something went wrong. Please send /start to begin again.")
	}
}

// updateState applies fn to the user's onboarding state under the lock.
func (t *TelegramBot) updateState(userID int64, fn func(*UserState)) {
	t.stateMutex.Lock()
	defer t.stateMutex.Unlock()
	if s, ok := t.userStates[userID]; ok {
		fn(s)
	}
}

// beginOnboarding asks for a new budget. With editing set the answers replace
// the current cycle instead of starting one.
func (t *TelegramBot) beginOnboarding(chatID, userID int64, greeting string, editing bool) {
	t.stateMutex.Lock()
	t.userStates[userID] = &UserState{
		TelegramID:   userID,
		CurrentState: StateAllowance,
		Editing:      editing,
	}
	t.stateMutex.Unlock()

	msg := tgbotapi.NewMessage(chatID, greeting+"\n\nWhat is your monthly food allowance in rupees?")
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	t.send(msg)
}

func (t *TelegramBot) handleChat(ctx context.Context, chatID int64, key, text string) {
	if text == "" {
		return
	}
	remaining := t.tracker.Summary(ctx, key).RemainingBudget
	resp := t.assistant.Ask(ctx, text, remaining, t.catalog.Items())
	w := resp.Wire()

	msg := tgbotapi.NewMessage(chatID, w.Message)
	if kb := responseKeyboard(w); kb != nil {
		msg.ReplyMarkup = *kb
	}
	t.send(msg)
}

// handleMenu shows the planner options for a period, the current one by default.
func (t *TelegramBot) handleMenu(ctx context.Context, chatID int64, key, args string) {
	text, order, canteenID := parseMenuArgs(args, t.catalog.Canteens())
	period, ok := models.ParseMealPeriod(text)
	if !ok {
		period = chat.DetectMealType(text, t.tracker.Calendar().Now().Hour())
	}
	if period == "" {
		t.reply(chatID, "The canteens are closed for meals now. Try /menu snacks or /menu breakfast.")
		return
	}

	remaining := t.tracker.Summary(ctx, key).RemainingBudget
	options := menu.PlannerOptions(t.catalog.Items(), period, remaining, canteenID, order)
	within, over := menu.SplitAffordable(options, remaining)
	t.reply(chatID, formatMenu(period, remaining, within, over, t.catalog.CanteenName))
}

func (t *TelegramBot) handleLog(ctx context.Context, chatID int64, key, args string) {
	it, ok := t.lookup(args)
	if !ok {
		t.reply(chatID, "I couldn't find that on the menu. Use /manual <name> <price> for anything else.")
		return
	}
	m := t.tracker.LogMeal(ctx, key, it, "")
	t.reply(chatID, t.loggedMessage(ctx, key, m.Item.Name, m.Cost()))
}

func (t *TelegramBot) handleStage(ctx context.Context, chatID int64, key, args string) {
	name, slot := args, ""
	// a trailing meal period names the planner slot
	if i := strings.LastIndex(args, " "); i > 0 {
		if p, ok := models.ParseMealPeriod(args[i+1:]); ok {
			name, slot = args[:i], string(p)
		}
	}
	it, ok := t.lookup(name)
	if !ok {
		t.reply(chatID, "Usage: /stage <name> [period]")
		return
	}
	staged := t.tracker.Stage(ctx, key, it, slot)
	t.reply(chatID, formatCart(staged, t.tracker.StagedTotal(ctx, key)))
}

func (t *TelegramBot) handleQuantity(ctx context.Context, chatID int64, key, args string) {
	name, change, ok := parseQuantity(args)
	if !ok {
		t.reply(chatID, "Usage: /qty <name> <change>, e.g. /qty Samosa +1")
		return
	}
	it, ok := t.lookup(name)
	if !ok {
		t.reply(chatID, "I couldn't find that on the menu.")
		return
	}
	slot := ""
	for _, st := range t.tracker.Staged(ctx, key) {
		if st.Item.ID == it.ID {
			slot = st.Slot
			break
		}
	}
	staged := t.tracker.UpdateStagedQuantity(ctx, key, it.ID, change, slot)
	t.reply(chatID, formatCart(staged, t.tracker.StagedTotal(ctx, key)))
}

func (t *TelegramBot) handleMessPass(ctx context.Context, chatID int64, key, args string) {
	if strings.TrimSpace(args) == "cancel" {
		err := t.tracker.CancelMessPass(ctx, key)
		if errors.Is(err, tracker.ErrNoMessPass) {
			t.reply(chatID, "You have no mess pass to cancel.")
			return
		}
		if err != nil {
			t.logger.Error("Failed to cancel mess pass", "user_key", key, "error", err)
			t.reply(chatID, "Sorry, something went wrong. Please try again later.")
			return
		}
		t.reply(chatID, "🎟️ Mess pass cancelled. Evening recaps are back on.")
		return
	}

	start, end, err := parseDateRange(args, t.tracker.Calendar().Location())
	if err != nil {
		t.reply(chatID, "Usage: /messpass <start> <end>, dates as YYYY-MM-DD, or /messpass cancel")
		return
	}
	days, fee, err := budget.QuoteMessPass(start, end)
	if err != nil {
		t.reply(chatID, "The end date must not be before the start date.")
		return
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"🎟️ Mess pass quote\n\n%s to %s\n%d days × ₹%d = ₹%d",
		start.Format(dateLayout), end.Format(dateLayout), days, budget.MessPassDailyRate, fee))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Confirm", callbackMessPass+":"+start.Format(dateLayout)+":"+end.Format(dateLayout)),
		),
	)
	t.send(msg)
}

// lookup accepts an item id or a name.
func (t *TelegramBot) lookup(arg string) (models.MenuItem, bool) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return models.MenuItem{}, false
	}
	if it, ok := t.catalog.Item(arg); ok {
		return it, true
	}
	return t.catalog.FindByName(arg)
}

func (t *TelegramBot) loggedMessage(ctx context.Context, key, what string, cost int) string {
	s := t.tracker.Summary(ctx, key)
	return fmt.Sprintf("✅ Logged %s (₹%d). ₹%s left today.", what, cost, budget.FormatRupees(s.RemainingBudget))
}

// notify sends the cycle completion notice and the evening recap, each at most
// once. The recap is sent once per day.
func (t *TelegramBot) notify(ctx context.Context, chatID, userID int64) {
	key := userKey(userID)

	if t.tracker.CompletionPending(ctx, key) {
		u := t.tracker.User(ctx, key)
		msg := tgbotapi.NewMessage(chatID, formatCompletion(u.Budget))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Start a new cycle", callbackAck),
			),
		)
		t.send(msg)
	}

	report, due := t.tracker.DailyReport(ctx, key)
	if !due {
		return
	}
	today := t.tracker.Calendar().Today()

	t.stateMutex.Lock()
	sent := t.reported[userID] == today
	t.reported[userID] = today
	t.stateMutex.Unlock()

	if !sent {
		t.reply(chatID, formatReport(report))
	}
}
