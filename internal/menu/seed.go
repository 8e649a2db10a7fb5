package menu

import "unibites/internal/models"

// DefaultCanteens are the campus canteens known to the app.
var DefaultCanteens = []models.Canteen{
	{ID: "c1", Name: "Kuksi Canteen", Location: "Block A", IsOpen: true},
	{ID: "c2", Name: "MRC", Location: "Block C", IsOpen: true},
}

// DefaultItems seed an empty store.
func DefaultItems() []models.MenuItem {
	return []models.MenuItem{
		{ID: "m1", CanteenID: "c1", Name: "Veg Thali", Price: 80, Category: "Main Course", MealPeriods: []models.MealPeriod{models.Lunch, models.Dinner}, Type: models.Veg, IsHealthy: true, Rating: 4.5, PrepTime: "10m", Description: "Complete meal with roti, dal, rice, and seasonal vegetables.", IsAvailable: true},
		{ID: "m2", CanteenID: "c1", Name: "Masala Dosa", Price: 60, Category: "Breakfast", MealPeriods: []models.MealPeriod{models.Breakfast, models.Snacks}, Type: models.Veg, IsHealthy: true, Rating: 4.8, PrepTime: "15m", Description: "Crispy rice crepe filled with spiced potato mix, served with chutney.", IsAvailable: true},
		{ID: "m3", CanteenID: "c1", Name: "Samosa", Price: 15, Category: "Snacks", MealPeriods: []models.MealPeriod{models.Snacks}, Type: models.Veg, IsDaily: true, Rating: 4.2, PrepTime: "5m", Description: "Fried pastry with savory potato filling.", IsAvailable: true},
		{ID: "m4", CanteenID: "c2", Name: "Chicken Sandwich", Price: 90, Category: "Snacks", MealPeriods: []models.MealPeriod{models.Lunch, models.Snacks}, Type: models.NonVeg, IsHealthy: true, Rating: 4.6, PrepTime: "10m", Description: "Grilled chicken breast with fresh veggies in brown bread.", IsAvailable: true},
		{ID: "m5", CanteenID: "c2", Name: "Cold Coffee", Price: 50, Category: "Beverages", MealPeriods: []models.MealPeriod{models.Beverages, models.Snacks}, Type: models.Veg, IsDaily: true, Rating: 4.7, PrepTime: "5m", Description: "Chilled coffee blended with ice cream.", IsAvailable: true},
		{ID: "m6", CanteenID: "c2", Name: "Fruit Salad", Price: 70, Category: "Dessert", MealPeriods: []models.MealPeriod{models.Breakfast, models.Snacks}, Type: models.Veg, IsHealthy: true, Rating: 4.9, PrepTime: "5m", Description: "Fresh seasonal fruits bowl.", IsAvailable: true},
		{ID: "m7", CanteenID: "c2", Name: "Oats & Milk", Price: 60, Category: "Breakfast", MealPeriods: []models.MealPeriod{models.Breakfast}, Type: models.Veg, IsHealthy: true, Rating: 4.8, PrepTime: "5m", Description: "Warm oatmeal cooked in milk, topped with honey.", IsAvailable: true},
	}
}
