// Package remote is the HTTP adapter between the client sync engine and
// the hosted backend. It maps transport and status-code failures onto the
// domain error taxonomy so the cache and board layers never see raw HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/haidave/everbase-sync-engine/internal/client/cache"
	"github.com/haidave/everbase-sync-engine/internal/core/domain"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type insertCompletionRequest struct {
	HabitID string     `json:"habit_id"`
	Day     domain.Day `json:"day"`
}

type updatePositionRequest struct {
	Status domain.Status `json:"status"`
	Order  int           `json:"order"`
}

func (c *Client) InsertCompletion(ctx context.Context, habitID string, day domain.Day) (*domain.Completion, error) {
	body := insertCompletionRequest{HabitID: habitID, Day: day}

	var completion domain.Completion
	if err := c.do(ctx, http.MethodPost, "/api/v1/completions", nil, body, &completion); err != nil {
		return nil, err
	}
	return &completion, nil
}

func (c *Client) DeleteCompletion(ctx context.Context, habitID string, day domain.Day) error {
	query := url.Values{}
	query.Set("habit_id", habitID)
	query.Set("day", day.String())

	return c.do(ctx, http.MethodDelete, "/api/v1/completions", query, nil, nil)
}

func (c *Client) FetchCompletions(ctx context.Context, q cache.FetchQuery) ([]domain.Completion, error) {
	query := url.Values{}
	if q.HabitID != "" {
		query.Set("habit_id", q.HabitID)
	}
	if !q.From.IsZero() {
		query.Set("from", q.From.String())
	}
	if !q.To.IsZero() {
		query.Set("to", q.To.String())
	}

	var completions []domain.Completion
	if err := c.do(ctx, http.MethodGet, "/api/v1/completions", query, nil, &completions); err != nil {
		return nil, err
	}
	return completions, nil
}

func (c *Client) UpdateItemPosition(ctx context.Context, itemID string, status domain.Status, order int) (*domain.BoardItem, error) {
	body := updatePositionRequest{Status: status, Order: order}

	var item domain.BoardItem
	path := "/api/v1/items/" + url.PathEscape(itemID) + "/position"
	if err := c.do(ctx, http.MethodPatch, path, nil, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request for %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request for %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	if err := errorFromStatus(resp.StatusCode, method, path); err != nil {
		io.Copy(io.Discard, resp.Body)
		return err
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response for %s %s: %v", domain.ErrTransport, method, path, err)
	}
	return nil
}

func errorFromStatus(code int, method, path string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusConflict:
		return domain.ErrCompletionConflict
	case code == http.StatusNotFound:
		if method == http.MethodPatch {
			return domain.ErrItemNotFound
		}
		return domain.ErrCompletionNotFound
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w: %s %s rejected", domain.ErrValidation, method, path)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return domain.ErrUnauthorized
	default:
		return fmt.Errorf("%w: %s %s returned status %d", domain.ErrTransport, method, path, code)
	}
}
