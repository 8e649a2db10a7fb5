package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"unibites/internal/budget"
	"unibites/internal/chat"
	"unibites/internal/menu"
	"unibites/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data prefixes. Telegram caps callback data at 64 bytes, so only ids travel.
const (
	callbackView     = "view"
	callbackAdd      = "add"
	callbackMessPass = "pass"
	callbackAck      = "ack"
)

const dateLayout = "2006-01-02"

func formatSummary(s budget.Summary, b *models.Budget) string {
	if b == nil {
		return "You have not set up a budget yet. Send /start to plan your month."
	}

	var msg strings.Builder
	msg.WriteString("💰 Budget Overview\n\n")
	fmt.Fprintf(&msg, "Daily limit: ₹%s\n", budget.FormatRupees(s.DailyLimit))
	fmt.Fprintf(&msg, "Spent today: ₹%d (%d meals)\n", s.DailySpend, s.MealsToday)
	fmt.Fprintf(&msg, "Remaining today: ₹%s\n", budget.FormatRupees(s.RemainingBudget))
	fmt.Fprintf(&msg, "Left for the cycle: ₹%s\n", budget.FormatRupees(s.TotalBudgetLeft))
	fmt.Fprintf(&msg, "Days: %d used, %d remaining of %d\n", s.DaysUsed, s.RemainingDays, b.TotalPlannedDays)
	if b.AdditionalSavings > 0 {
		fmt.Fprintf(&msg, "Extra savings banked: ₹%s\n", budget.FormatRupees(b.AdditionalSavings))
	}
	if s.CycleCompleted {
		msg.WriteString("\n✅ This cycle is complete. Send /budget edit to start a new one.")
	}
	return msg.String()
}

// formatMenu lists planner options for a period, affordable ones first.
func formatMenu(period models.MealPeriod, remaining float64, within, over []models.MenuItem, canteen func(string) string) string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "🍽️ %s (₹%s left today, ~₹%s per meal)\n", period, budget.FormatRupees(remaining), budget.FormatRupees(budget.SlotTarget(remaining)))

	if len(within) == 0 && len(over) == 0 {
		msg.WriteString("\nNothing is being served right now.")
		return msg.String()
	}
	if len(within) > 0 {
		msg.WriteString("\nWithin budget:\n")
		for _, it := range within {
			msg.WriteString(menuLine(it, canteen))
		}
	}
	if len(over) > 0 {
		msg.WriteString("\nOver budget:\n")
		for _, it := range over {
			msg.WriteString(menuLine(it, canteen))
		}
	}
	msg.WriteString("\nUse /log <name> to log an item or /stage <name> to add it to your cart.")
	return msg.String()
}

func menuLine(it models.MenuItem, canteen func(string) string) string {
	tag := ""
	if it.IsHealthy {
		tag = " 🥗"
	}
	return fmt.Sprintf("• %s - ₹%d (%s)%s\n", it.Name, it.Price, canteen(it.CanteenID), tag)
}

// formatLogbook shows today's entries with their ids so they can be removed.
func formatLogbook(meals []models.LoggedMeal, cal budget.Calendar) string {
	today := cal.Today()
	var msg strings.Builder
	msg.WriteString("📖 Log Book (today)\n\n")

	total, n := 0, 0
	for _, m := range meals {
		if cal.DayOf(m.Timestamp) != today {
			continue
		}
		name := m.Item.Name
		if m.IsManual {
			name += " (manual)"
		}
		fmt.Fprintf(&msg, "• %s %s - ₹%d [%s]\n", cal.Local(m.Timestamp).Format("15:04"), name, m.Cost(), m.ID)
		total += m.Cost()
		n++
	}
	if n == 0 {
		msg.WriteString("Nothing logged yet today.")
		return msg.String()
	}
	fmt.Fprintf(&msg, "\nTotal: ₹%d\nUse /remove <id> to delete an entry.", total)
	return msg.String()
}

func formatCart(staged []models.StagedItem, total int) string {
	if len(staged) == 0 {
		return "🛒 Your cart is empty. Use /stage <name> to add items."
	}
	var msg strings.Builder
	msg.WriteString("🛒 Cart\n\n")
	for _, s := range staged {
		slot := ""
		if s.Slot != "" {
			slot = " [" + s.Slot + "]"
		}
		fmt.Fprintf(&msg, "• %s x%d - ₹%d%s\n", s.Item.Name, s.Quantity, s.Item.Price*s.Quantity, slot)
	}
	fmt.Fprintf(&msg, "\nTotal: ₹%d\nSend /confirm to log everything.", total)
	return msg.String()
}

func formatReport(r budget.DailyReport) string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "🌙 %s\n\n%s\n", r.Title, r.Message)
	for _, tip := range r.Tips {
		fmt.Fprintf(&msg, "\n• %s", tip)
	}
	return msg.String()
}

func formatCompletion(b *models.Budget) string {
	msg := fmt.Sprintf("🎉 Your %d-day budget cycle is complete!", b.TotalPlannedDays)
	if b.AdditionalSavings > 0 {
		msg += fmt.Sprintf("\n\nYou banked ₹%s on top of your saving goal.", budget.FormatRupees(b.AdditionalSavings))
	}
	return msg
}

func formatItem(it models.MenuItem, canteen string) string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "%s\n\n₹%d · %s · %s\n", it.Name, it.Price, it.Category, canteen)
	if it.Description != "" {
		fmt.Fprintf(&msg, "%s\n", it.Description)
	}
	fmt.Fprintf(&msg, "Rating: %.1f ⭐ · Prep: %s", it.Rating, it.PrepTime)
	if !it.IsAvailable {
		msg.WriteString("\n\nCurrently unavailable.")
	}
	return msg.String()
}

// responseKeyboard turns item actions into inline buttons. Actions without an
// item id cannot be resolved later and are dropped.
func responseKeyboard(w chat.ChatbotResponse) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, a := range w.UIActions {
		if a.ItemID == nil || *a.ItemID == "" {
			continue
		}
		var prefix string
		switch a.Action {
		case chat.ActionViewItem:
			prefix = callbackView
		case chat.ActionAddToCart:
			prefix = callbackAdd
		default:
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(a.Label, prefix+":"+*a.ItemID),
		))
	}
	if len(rows) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func parseCallback(data string) (action, arg string) {
	action, arg, _ = strings.Cut(data, ":")
	return action, arg
}

// parseManual splits "<name> <price>" where the price is the last field.
func parseManual(args string) (name string, price int, ok bool) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return "", 0, false
	}
	price, err := strconv.Atoi(strings.TrimPrefix(fields[len(fields)-1], "₹"))
	if err != nil || price < 0 {
		return "", 0, false
	}
	return strings.Join(fields[:len(fields)-1], " "), price, true
}

// parseDateRange reads "YYYY-MM-DD YYYY-MM-DD" in loc.
func parseDateRange(args string, loc *time.Location) (start, end time.Time, err error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("expected two dates, got %d", len(fields))
	}
	if start, err = time.ParseInLocation(dateLayout, fields[0], loc); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end, err = time.ParseInLocation(dateLayout, fields[1], loc); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// parseMenuArgs pulls the price order and a canteen out of /menu arguments.
// "cheap" sorts low to high and "pricey" high to low; a canteen matches by id
// or by any word of its name. Whatever is left names the meal period.
func parseMenuArgs(args string, canteens []models.Canteen) (rest string, order menu.PriceSort, canteenID string) {
	order = menu.SortNone
	var kept []string
	for _, f := range strings.Fields(args) {
		switch lf := strings.ToLower(f); {
		case lf == "cheap":
			order = menu.SortLowHigh
		case lf == "pricey":
			order = menu.SortHighLow
		case canteenID == "" && matchCanteen(lf, canteens) != "":
			canteenID = matchCanteen(lf, canteens)
		default:
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " "), order, canteenID
}

func matchCanteen(word string, canteens []models.Canteen) string {
	for _, c := range canteens {
		if strings.ToLower(c.ID) == word {
			return c.ID
		}
		for _, w := range strings.Fields(strings.ToLower(c.Name)) {
			if w == word && w != "canteen" {
				return c.ID
			}
		}
	}
	return ""
}

// parseQuantity splits "<name> <change>" where change is a signed, non-zero count.
func parseQuantity(args string) (name string, change int, ok bool) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return "", 0, false
	}
	change, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil || change == 0 {
		return "", 0, false
	}
	return strings.Join(fields[:len(fields)-1], " "), change, true
}
