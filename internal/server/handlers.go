package server

import (
	"errors"
	"net/http"
	"time"

	"unibites/internal/budget"
	"unibites/internal/menu"
	"unibites/internal/models"
	"unibites/internal/tracker"

	"github.com/gin-gonic/gin"
)

func (a *API) listMenu(c *gin.Context) {
	if canteen := c.Query("canteenId"); canteen != "" {
		items := a.catalog.ItemsForCanteen(canteen)
		if items == nil {
			items = []models.MenuItem{}
		}
		c.JSON(http.StatusOK, items)
		return
	}
	c.JSON(http.StatusOK, a.catalog.Items())
}

func (a *API) listCanteens(c *gin.Context) {
	c.JSON(http.StatusOK, a.catalog.Canteens())
}

func (a *API) addMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := a.catalog.AddItem(c.Request.Context(), item)
	if err != nil {
		c.JSON(catalogStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (a *API) updateMenuItem(c *gin.Context) {
	var body struct {
		Name        *string             `json:"name"`
		Price       *int                `json:"price"`
		Category    *string             `json:"category"`
		MealPeriods []models.MealPeriod `json:"meal_periods"`
		Type        *models.DietType    `json:"type"`
		IsHealthy   *bool               `json:"is_healthy"`
		IsDaily     *bool               `json:"is_daily"`
		PrepTime    *string             `json:"prep_time"`
		Description *string             `json:"description"`
		Image       *string             `json:"image"`
		IsAvailable *bool               `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patch := menu.ItemPatch{
		Name:        body.Name,
		Price:       body.Price,
		Category:    body.Category,
		MealPeriods: body.MealPeriods,
		Type:        body.Type,
		IsHealthy:   body.IsHealthy,
		IsDaily:     body.IsDaily,
		PrepTime:    body.PrepTime,
		Description: body.Description,
		Image:       body.Image,
		IsAvailable: body.IsAvailable,
	}
	item, err := a.catalog.UpdateItem(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		c.JSON(catalogStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (a *API) setAvailability(c *gin.Context) {
	var body struct {
		IsAvailable *bool `json:"is_available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := a.catalog.SetAvailability(c.Request.Context(), c.Param("id"), *body.IsAvailable)
	if err != nil {
		c.JSON(catalogStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (a *API) deleteMenuItem(c *gin.Context) {
	if err := a.catalog.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(catalogStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *API) listReviews(c *gin.Context) {
	var reviews []models.Review
	switch {
	case c.Query("itemId") != "":
		reviews = a.catalog.ReviewsForItem(c.Query("itemId"))
	case c.Query("canteenId") != "":
		reviews = a.catalog.ReviewsForCanteen(c.Query("canteenId"))
	default:
		reviews = a.catalog.Reviews()
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	c.JSON(http.StatusOK, reviews)
}

func (a *API) addReview(c *gin.Context) {
	var r models.Review
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := a.catalog.AddReview(c.Request.Context(), r)
	if err != nil {
		c.JSON(catalogStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (a *API) getBudget(c *gin.Context) {
	key := c.GetString(userKey)
	ctx := c.Request.Context()
	user := a.tracker.User(ctx, key)
	c.JSON(http.StatusOK, gin.H{
		"budget":             user.Budget,
		"summary":            a.tracker.Summary(ctx, key),
		"completion_pending": a.tracker.CompletionPending(ctx, key),
	})
}

type budgetRequest struct {
	Allowance    int `json:"allowance"`
	SavingGoal   int `json:"saving_goal"`
	DurationDays int `json:"duration_days"`
}

func (a *API) onboard(c *gin.Context) {
	var body budgetRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := a.tracker.Onboard(c.Request.Context(), c.GetString(userKey), body.Allowance, body.SavingGoal, body.DurationDays)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (a *API) editBudget(c *gin.Context) {
	var body budgetRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := a.tracker.EditBudget(c.Request.Context(), c.GetString(userKey), body.Allowance, body.SavingGoal, body.DurationDays)
	switch {
	case errors.Is(err, tracker.ErrNoBudget):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

func (a *API) acknowledgeCompletion(c *gin.Context) {
	if err := a.tracker.AcknowledgeCompletion(c.Request.Context(), c.GetString(userKey)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *API) applyMessPass(c *gin.Context) {
	var body struct {
		StartDate string `json:"start_date" binding:"required"`
		EndDate   string `json:"end_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	loc := a.tracker.Calendar().Location()
	start, err := time.ParseInLocation(dateLayout, body.StartDate, loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	end, err := time.ParseInLocation(dateLayout, body.EndDate, loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return
	}
	mp, err := a.tracker.ApplyMessPass(c.Request.Context(), c.GetString(userKey), start, end)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, mp)
}

func (a *API) cancelMessPass(c *gin.Context) {
	if err := a.tracker.CancelMessPass(c.Request.Context(), c.GetString(userKey)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// planner lists a period's options split by what the student can still afford today.
func (a *API) planner(c *gin.Context) {
	period, ok := models.ParseMealPeriod(c.Query("period"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be one of Breakfast, Lunch, Snacks, Dinner, Beverages"})
		return
	}
	order := menu.PriceSort(c.DefaultQuery("sort", string(menu.SortNone)))
	switch order {
	case menu.SortNone, menu.SortLowHigh, menu.SortHighLow:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be none, low-high or high-low"})
		return
	}

	remaining := a.tracker.Summary(c.Request.Context(), c.GetString(userKey)).RemainingBudget
	options := menu.PlannerOptions(a.catalog.Items(), period, remaining, c.Query("canteenId"), order)
	within, over := menu.SplitAffordable(options, remaining)
	if within == nil {
		within = []models.MenuItem{}
	}
	if over == nil {
		over = []models.MenuItem{}
	}
	c.JSON(http.StatusOK, gin.H{
		"period":      period,
		"remaining":   remaining,
		"slot_target": budget.SlotTarget(remaining),
		"within":      within,
		"over":        over,
	})
}

func (a *API) cartResponse(c *gin.Context, status int) {
	ctx := c.Request.Context()
	key := c.GetString(userKey)
	staged := a.tracker.Staged(ctx, key)
	if staged == nil {
		staged = []models.StagedItem{}
	}
	c.JSON(status, gin.H{"items": staged, "total": a.tracker.StagedTotal(ctx, key)})
}

func (a *API) getCart(c *gin.Context) {
	a.cartResponse(c, http.StatusOK)
}

func (a *API) stageItem(c *gin.Context) {
	var body struct {
		ItemID string `json:"item_id" binding:"required"`
		Slot   string `json:"slot"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, ok := a.catalog.Item(body.ItemID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": menu.ErrNotFound.Error()})
		return
	}
	a.tracker.Stage(c.Request.Context(), c.GetString(userKey), item, body.Slot)
	a.cartResponse(c, http.StatusCreated)
}

func (a *API) updateCartQuantity(c *gin.Context) {
	var body struct {
		Change int    `json:"change" binding:"required"`
		Slot   string `json:"slot"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.tracker.UpdateStagedQuantity(c.Request.Context(), c.GetString(userKey), c.Param("itemId"), body.Change, body.Slot)
	a.cartResponse(c, http.StatusOK)
}

func (a *API) unstageItem(c *gin.Context) {
	a.tracker.Unstage(c.Request.Context(), c.GetString(userKey), c.Param("itemId"), c.Query("slot"))
	a.cartResponse(c, http.StatusOK)
}

func (a *API) confirmCart(c *gin.Context) {
	logs, err := a.tracker.Confirm(c.Request.Context(), c.GetString(userKey))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, logs)
}

func (a *API) listLoggedMeals(c *gin.Context) {
	key := c.Query(userKey)
	if key == "" {
		c.JSON(http.StatusOK, []models.LoggedMeal{})
		return
	}
	meals := a.tracker.Meals(c.Request.Context(), key)
	if meals == nil {
		meals = []models.LoggedMeal{}
	}
	c.JSON(http.StatusOK, meals)
}

func (a *API) logMeal(c *gin.Context) {
	var body struct {
		ItemID string `json:"item_id"`
		Name   string `json:"name"`
		Price  *int   `json:"price"`
		Slot   string `json:"slot"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	key := c.GetString(userKey)

	if body.ItemID == "" {
		if body.Name == "" || body.Price == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "item_id, or name and price, required"})
			return
		}
		m, err := a.tracker.LogManual(ctx, key, body.Name, *body.Price, body.Slot)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, m)
		return
	}

	item, ok := a.catalog.Item(body.ItemID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": menu.ErrNotFound.Error()})
		return
	}
	c.JSON(http.StatusCreated, a.tracker.LogMeal(ctx, key, item, body.Slot))
}

func (a *API) removeLog(c *gin.Context) {
	if err := a.tracker.RemoveLog(c.Request.Context(), c.GetString(userKey), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *API) chat(c *gin.Context) {
	var body struct {
		Query string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	key := c.GetString(userKey)

	remaining := a.tracker.Summary(ctx, key).RemainingBudget
	resp := a.assistant.Ask(ctx, body.Query, remaining, a.catalog.Items())
	c.JSON(http.StatusOK, resp.Wire())
}

const dateLayout = "2006-01-02"

func catalogStatus(err error) int {
	switch {
	case errors.Is(err, menu.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, menu.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, menu.ErrInvalidItem), errors.Is(err, menu.ErrInvalidRating):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

