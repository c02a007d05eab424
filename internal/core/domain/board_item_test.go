package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoardItem(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		kind    string
		title   string
		status  Status
		wantErr bool
	}{
		{name: "Valid task", userID: "user-1", kind: ItemKindTask, title: "Write report", status: StatusTodo},
		{name: "Valid project", userID: "user-1", kind: ItemKindProject, title: "Apartment move", status: StatusBacklog},
		{name: "Empty user", userID: "", kind: ItemKindTask, title: "x", status: StatusTodo, wantErr: true},
		{name: "Empty title", userID: "user-1", kind: ItemKindTask, title: "   ", status: StatusTodo, wantErr: true},
		{name: "Title too long", userID: "user-1", kind: ItemKindTask, title: strings.Repeat("a", 201), status: StatusTodo, wantErr: true},
		{name: "Unknown kind", userID: "user-1", kind: "note", title: "x", status: StatusTodo, wantErr: true},
		{name: "Unknown status", userID: "user-1", kind: ItemKindTask, title: "x", status: Status("archived"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NewBoardItem(tt.userID, tt.kind, tt.title, tt.status)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, item.ID)
			assert.Equal(t, 0, item.SortOrder)
			assert.Equal(t, tt.status, item.Status)
		})
	}
}

func TestBoardItemMoveTo(t *testing.T) {
	item, err := NewBoardItem("user-1", ItemKindTask, "Write report", StatusTodo)
	require.NoError(t, err)

	require.NoError(t, item.MoveTo(StatusDone, 2))
	assert.Equal(t, StatusDone, item.Status)
	assert.Equal(t, 2, item.SortOrder)

	assert.ErrorIs(t, item.MoveTo(Status("nope"), 0), ErrValidation)
	assert.ErrorIs(t, item.MoveTo(StatusTodo, -1), ErrValidation)
}
