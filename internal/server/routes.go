package server

import (
	"net/http"
	"time"

	"unibites/internal/chat"
	"unibites/internal/menu"
	"unibites/internal/tracker"
	"unibites/pkg/logger"

	"github.com/gin-gonic/gin"
)

// API serves the JSON endpoints used by the web client.
type API struct {
	catalog   *menu.Catalog
	tracker   *tracker.Tracker
	assistant *chat.Assistant
	logger    *logger.Logger
}

func NewAPI(catalog *menu.Catalog, tr *tracker.Tracker, assistant *chat.Assistant, l *logger.Logger) *API {
	return &API{catalog: catalog, tracker: tr, assistant: assistant, logger: l}
}

func (a *API) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(a.logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")
	{
		api.GET("/menu", a.listMenu)
		api.GET("/menu/canteens", a.listCanteens)
		api.POST("/menu", a.addMenuItem)
		api.PATCH("/menu/:id", a.updateMenuItem)
		api.DELETE("/menu/:id", a.deleteMenuItem)
		api.PUT("/menu/:id/availability", a.setAvailability)

		api.GET("/reviews", a.listReviews)
		api.POST("/reviews", a.addReview)
	}

	user := api.Group("")
	user.Use(requireUser())
	{
		user.GET("/budget", a.getBudget)
		user.POST("/budget/onboard", a.onboard)
		user.PATCH("/budget", a.editBudget)
		user.POST("/budget/acknowledge", a.acknowledgeCompletion)
		user.POST("/messpass", a.applyMessPass)
		user.DELETE("/messpass", a.cancelMessPass)

		user.GET("/planner", a.planner)

		user.GET("/cart", a.getCart)
		user.POST("/cart", a.stageItem)
		user.PATCH("/cart/:itemId", a.updateCartQuantity)
		user.DELETE("/cart/:itemId", a.unstageItem)
		user.POST("/cart/confirm", a.confirmCart)

		user.POST("/logged-meals", a.logMeal)
		user.DELETE("/logged-meals/:id", a.removeLog)

		user.POST("/chat", a.chat)
	}
	// Reading a log book without a user is not an error; it is just empty.
	api.GET("/logged-meals", a.listLoggedMeals)

	return r
}

func requestLogger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}

const userKey = "userId"

// requireUser rejects requests without a userId query parameter.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query(userKey)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "No userId provided"})
			return
		}
		c.Set(userKey, id)
		c.Next()
	}
}
