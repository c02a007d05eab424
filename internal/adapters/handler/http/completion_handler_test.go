package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/haidave/everbase-sync-engine/internal/adapters/handler/http"
	"github.com/haidave/everbase-sync-engine/internal/adapters/handler/http/middleware"
	"github.com/haidave/everbase-sync-engine/internal/adapters/repository"
	"github.com/haidave/everbase-sync-engine/internal/core/domain"
	"github.com/haidave/everbase-sync-engine/internal/core/services"
)

func setupCompletionRouter() (*gin.Engine, *repository.InMemoryCompletionRepository) {
	gin.SetMode(gin.TestMode)
	repo := repository.NewInMemoryCompletionRepository()

	svc := services.NewCompletionService(repo)
	streaks := services.NewStreakService(repo)
	handler := adapterHTTP.NewCompletionHandler(svc, streaks)

	r := gin.New()

	r.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set(middleware.ContextUserIDKey, userID)
		}
		c.Next()
	})

	api := r.Group("/api/v1")
	handler.RegisterRoutes(api)
	return r, repo
}

func completionRequest(method, target string, body any, userID string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	return req
}

func TestCreateCompletion(t *testing.T) {
	day := domain.Today()

	t.Run("Success: 201 Created", func(t *testing.T) {
		router, _ := setupCompletionRouter()

		body := map[string]any{"habit_id": "habit-1", "day": day.String()}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, completionRequest("POST", "/api/v1/completions", body, "user-1"))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"habit_id":"habit-1"`)
		assert.Contains(t, w.Body.String(), fmt.Sprintf(`"day":%q`, day.String()))
	})

	t.Run("Fail: 409 on duplicate day", func(t *testing.T) {
		router, repo := setupCompletionRouter()
		require.NoError(t, repo.Create(context.Background(), domain.NewCompletion("habit-1", "user-1", day)))

		body := map[string]any{"habit_id": "habit-1", "day": day.String()}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, completionRequest("POST", "/api/v1/completions", body, "user-1"))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Fail: 400 on missing day", func(t *testing.T) {
		router, _ := setupCompletionRouter()

		body := map[string]any{"habit_id": "habit-1"}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, completionRequest("POST", "/api/v1/completions", body, "user-1"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 401 without user", func(t *testing.T) {
		router, _ := setupCompletionRouter()

		body := map[string]any{"habit_id": "habit-1", "day": day.String()}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, completionRequest("POST", "/api/v1/completions", body, ""))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestListCompletions(t *testing.T) {
	day := domain.Today()

	t.Run("Range query for one habit", func(t *testing.T) {
		router, repo := setupCompletionRouter()
		for i := 0; i < 4; i++ {
			require.NoError(t, repo.Create(context.Background(), domain.NewCompletion("habit-1", "user-1", day.AddDays(-i))))
		}

		target := fmt.Sprintf("/api/v1/completions?habit_id=habit-1&from=%s&to=%s", day.AddDays(-1), day)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, completionRequest("GET", target, nil, "user-1"))

		assert.Equal(t, http.StatusOK, w.Code)

		var got []domain.Completion
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Len(t, got, 2)
	})

	t.Run("Today view spans habits when habit_id is omitted", func(t *testing.T) {
		router, repo := setupCompletionRouter()
		require.NoError(t, repo.Create(context.Background(), domain.NewCompletion("habit-1", "user-1", day)))
		require.NoError(t, repo.Create(context.Background(), domain.NewCompletion("habit-2", "user-1", day)))
		require.NoError(t, repo.Create(context.Background(), domain.NewCompletion("habit-3", "user-1", day.Prev())))

		target := fmt.Sprintf("/api/v1/completions?from=%s&to=%s", day, day)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, completionRequest("GET", target, nil, "user-1"))

		assert.Equal(t, http.StatusOK, w.Code)

		var got []domain.Completion
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Len(t, got, 2)
	})

	t.Run("Fail: 400 on omitted habit_id with open range", func(t *testing.T) {
		router, _ := setupCompletionRouter()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, completionRequest("GET", "/api/v1/completions", nil, "user-1"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Empty result is a JSON array", func(t *testing.T) {
		router, _ := setupCompletionRouter()

		target := fmt.Sprintf("/api/v1/completions?habit_id=habit-none&from=%s&to=%s", day, day)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, completionRequest("GET", target, nil, "user-1"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})
}

func TestDeleteCompletion(t *testing.T) {
	day := domain.Today()

	t.Run("Success: 204 No Content", func(t *testing.T) {
		router, repo := setupCompletionRouter()
		require.NoError(t, repo.Create(context.Background(), domain.NewCompletion("habit-1", "user-1", day)))

		target := fmt.Sprintf("/api/v1/completions?habit_id=habit-1&day=%s", day)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, completionRequest("DELETE", target, nil, "user-1"))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Fail: 404 when nothing is logged on that day", func(t *testing.T) {
		router, _ := setupCompletionRouter()

		target := fmt.Sprintf("/api/v1/completions?habit_id=habit-1&day=%s", day)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, completionRequest("DELETE", target, nil, "user-1"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Fail: 400 on malformed day", func(t *testing.T) {
		router, _ := setupCompletionRouter()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, completionRequest("DELETE", "/api/v1/completions?habit_id=habit-1&day=yesterday", nil, "user-1"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetStreaks(t *testing.T) {
	t.Run("Consecutive days produce a current streak", func(t *testing.T) {
		router, repo := setupCompletionRouter()
		day := domain.Today()
		for i := 0; i < 3; i++ {
			require.NoError(t, repo.Create(context.Background(), domain.NewCompletion("habit-1", "user-1", day.AddDays(-i))))
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, completionRequest("GET", "/api/v1/habits/habit-1/streaks", nil, "user-1"))

		assert.Equal(t, http.StatusOK, w.Code)

		var got struct {
			Current int `json:"current"`
			Best    int `json:"best"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 3, got.Current)
		assert.Equal(t, 3, got.Best)
	})

	t.Run("No completions means zero streaks", func(t *testing.T) {
		router, _ := setupCompletionRouter()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, completionRequest("GET", "/api/v1/habits/habit-1/streaks", nil, "user-1"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"current":0,"best":0}`, w.Body.String())
	})
}
