package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haidave/everbase-sync-engine/internal/adapters/handler/http/middleware"
	"github.com/haidave/everbase-sync-engine/internal/core/domain"
	"github.com/haidave/everbase-sync-engine/internal/core/services"
)

// CompletionHandler exposes the completion log the client cache syncs
// against. Streaks live here too: they are a pure function of the same
// rows.
type CompletionHandler struct {
	svc     *services.CompletionService
	streaks *services.StreakService
}

func NewCompletionHandler(svc *services.CompletionService, streaks *services.StreakService) *CompletionHandler {
	return &CompletionHandler{
		svc:     svc,
		streaks: streaks,
	}
}

type createCompletionRequest struct {
	HabitID string     `json:"habit_id" binding:"required"`
	Day     domain.Day `json:"day" binding:"required"`
}

func (h *CompletionHandler) RegisterRoutes(router *gin.RouterGroup) {
	completions := router.Group("/completions")
	{
		completions.POST("", h.Create)
		completions.GET("", h.List)
		completions.DELETE("", h.Delete)
	}

	router.GET("/habits/:habitID/streaks", h.Streaks)
}

func (h *CompletionHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	var req createCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	completion, err := h.svc.Create(c.Request.Context(), services.CreateCompletionInput{
		HabitID: req.HabitID,
		UserID:  userID,
		Day:     req.Day,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, completion)
}

// List serves two query shapes: habit_id with optional from/to bounds
// (month and all-time views), or no habit_id with from == to (the today
// view across every habit).
func (h *CompletionHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	var from, to domain.Day
	if f := c.Query("from"); f != "" {
		parsed, err := domain.ParseDay(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' date (use YYYY-MM-DD)"})
			return
		}
		from = parsed
	}
	if t := c.Query("to"); t != "" {
		parsed, err := domain.ParseDay(t)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' date (use YYYY-MM-DD)"})
			return
		}
		to = parsed
	}

	list, err := h.svc.List(c.Request.Context(), c.Query("habit_id"), userID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	if list == nil {
		list = []*domain.Completion{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *CompletionHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	day, err := domain.ParseDay(c.Query("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'day' date (use YYYY-MM-DD)"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Query("habit_id"), userID, day); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CompletionHandler) Streaks(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	result, err := h.streaks.GetStreaks(c.Request.Context(), c.Param("habitID"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrCompletionNotFound) || errors.Is(err, domain.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, domain.ErrCompletionConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "completion already exists",
			"message": "this habit is already completed on that day",
		})

	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
