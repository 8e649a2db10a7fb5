package chat

// knowledgeEntry is a canned offline answer triggered by a keyword.
type knowledgeEntry struct {
	keyword string
	answer  string
}

// knowledge is matched in order; the first keyword found in the query wins.
var knowledge = []knowledgeEntry{
	{"mess pass", "🎟️ Mess Pass System\n\nThe Mess Pass is an all-inclusive meal plan covering Breakfast, Lunch, and Dinner for ₹150/day.\n\nHow to Apply:\n1. Send /messpass with your start and end dates\n2. Check the quoted fee\n3. Confirm\n\nYour budget tracking will be paused on days the pass is active."},
	{"meal planner", "📅 Smart Meal Planner\n\nThe planner helps you manage your daily food budget.\n\nHow it works:\n1. Divides what is left of your daily budget across 4 meals\n2. Suggests 'Best Value' items\n3. Lets you skip meals to save money for later\n4. Updates your budget as you pick food"},
	{"skip", "⏭️ Skipping Meals\n\nSkipping a meal redistributes that meal's budget to your other meals for the day.\n\nExample:\nIf you have ₹200 for 4 meals (₹50 each) and skip Breakfast, you'll have ₹66 for each of the remaining 3 meals!"},
	{"log book", "📖 Log Book\n\nThe Log Book tracks your history.\n\nIt shows:\n• Every item you've eaten\n• Timestamp and price\n• Daily spending totals\n\nSend /logbook to review your habits!"},
	{"savings", "💰 Savings Goal\n\nYour savings goal helps you stay on track.\n\n• We calculate a daily limit so you meet this goal.\n• If you save extra today, it's added to future days!\n• If you overspend, future budgets drop slightly to compensate."},
	{"kuksi", "🏪 Kuksi Canteen\n\nLocated in Block A.\n\nBest for:\n• South Indian Breakfast (Idli, Dosa)\n• Thali Meals for Lunch\n• Fresh Juices\n\nOpen: 7:00 AM - 9:30 PM"},
	{"vegetarian", "🥗 Vegetarian Options\n\nWe have plenty of veg options!\n\n• Breakfast: Masala Dosa, Poha, Oats\n• Lunch/Dinner: Veg Thali, Paneer Butter Masala\n• Snacks: Samosa, Veg Puff, Fruit Salad"},
}

const platformKnowledge = `# UniBites Platform - Quick Reference

## CORE FEATURES
- Smart Meal Planner: plans 4 meals (Breakfast, Lunch, Snacks, Dinner) with suggestions
- Budget System: day-by-day tracking with automatic redistribution
- Mess Pass: all-inclusive meal coverage (₹150/day)
- Log Book: every logged meal with a spending summary
- Daily Notifications: 8 PM summary after 3+ meals logged

## BUDGET SYSTEM
- Updates daily based on spending
- Redistributes savings or overspending across the remaining days
- Formula: New Daily = Base + (Yesterday's Difference ÷ Remaining Days)
- Minimum daily limit: ₹50
- Tracks progress toward the savings goal

## CANTEENS
- Kuksi Canteen (Block A)
- MRC (Block C)`

const capabilities = `I can help with:
✅ Meal suggestions (breakfast/lunch/snacks/dinner)
✅ Budget tracking and savings goals
✅ Platform features and usage
✅ Menu information and prices

❌ I cannot help with topics unrelated to food/budget`

// offlineCapabilities answers anything the rules cannot handle.
const offlineCapabilities = "🛑 Offline Mode Active\n\nI can still help you with:\n" +
	"• 🍽️ Meal suggestions\n" +
	"• 💰 Budget checking\n" +
	"• 🏷️ Finding items by price\n\n" +
	"For complex questions, please try again later when my AI connection is restored!"

const offlinePrefix = "(Offline Mode) "
