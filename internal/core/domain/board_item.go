package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the fixed set of board columns. SortOrder positions an item
// within its column; orders are dense per column, not globally unique.
type Status string

const (
	StatusBacklog    Status = "backlog"
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses lists every column in display order.
var Statuses = []Status{StatusBacklog, StatusTodo, StatusInProgress, StatusDone}

func (s Status) Valid() bool {
	switch s {
	case StatusBacklog, StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

const (
	ItemKindTask    = "task"
	ItemKindProject = "project"
)

const maxItemTitleLen = 200

// BoardItem is a draggable task or project on the kanban board. Only its
// status and sort order are mutated here; everything else belongs to the
// CRUD layer.
type BoardItem struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`
	Kind   string `json:"kind" db:"kind"`
	Title  string `json:"title" db:"title"`

	Status    Status `json:"status" db:"status"`
	SortOrder int    `json:"sort_order" db:"sort_order"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewBoardItem(userID, kind, title string, status Status) (*BoardItem, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrValidation)
	}

	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}
	if len(trimmed) > maxItemTitleLen {
		return nil, fmt.Errorf("%w: title is too long (max %d chars)", ErrValidation, maxItemTitleLen)
	}

	if kind != ItemKindTask && kind != ItemKindProject {
		return nil, fmt.Errorf("%w: kind must be task or project", ErrValidation)
	}

	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	now := time.Now().UTC()

	return &BoardItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Title:     trimmed,
		Status:    status,
		SortOrder: 0,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// MoveTo places the item in a column at the given position.
func (i *BoardItem) MoveTo(status Status, order int) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	if order < 0 {
		return fmt.Errorf("%w: order cannot be negative", ErrValidation)
	}

	i.Status = status
	i.SortOrder = order
	i.UpdatedAt = time.Now().UTC()
	return nil
}
