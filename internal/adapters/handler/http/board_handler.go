package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haidave/everbase-sync-engine/internal/adapters/handler/http/middleware"
	"github.com/haidave/everbase-sync-engine/internal/core/domain"
	"github.com/haidave/everbase-sync-engine/internal/core/services"
)

type BoardHandler struct {
	svc *services.BoardService
}

func NewBoardHandler(svc *services.BoardService) *BoardHandler {
	return &BoardHandler{
		svc: svc,
	}
}

type createItemRequest struct {
	Kind   string        `json:"kind" binding:"required"`
	Title  string        `json:"title" binding:"required"`
	Status domain.Status `json:"status" binding:"required"`
}

type updatePositionRequest struct {
	Status domain.Status `json:"status" binding:"required"`
	Order  *int          `json:"order" binding:"required"`
}

func (h *BoardHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/items")
	{
		items.POST("", h.Create)
		items.GET("", h.List)
		items.PATCH("/:id/position", h.UpdatePosition)
		items.DELETE("/:id", h.Delete)
	}
}

func (h *BoardHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	item, err := h.svc.Create(c.Request.Context(), services.CreateItemInput{
		UserID: userID,
		Kind:   req.Kind,
		Title:  req.Title,
		Status: req.Status,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *BoardHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	items, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	if items == nil {
		items = []*domain.BoardItem{}
	}
	c.JSON(http.StatusOK, items)
}

// UpdatePosition is the persistence half of a drag drop: the client
// computed the target column and order, the server checks ownership and
// writes it down.
func (h *BoardHandler) UpdatePosition(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	var req updatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	item, err := h.svc.MoveItem(c.Request.Context(), services.MoveItemInput{
		ItemID: c.Param("id"),
		UserID: userID,
		Status: req.Status,
		Order:  *req.Order,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *BoardHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
