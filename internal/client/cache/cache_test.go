package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haidave/everbase-sync-engine/internal/core/domain"
)

// fakeRemote acts as the backing row store: inserts are idempotent per
// (habit, day), fetches project the current rows. Error fields force
// failures; hooks observe cache state while a call is in flight.
type fakeRemote struct {
	mu   sync.Mutex
	rows map[string]map[domain.Day]domain.Completion

	insertErr error
	deleteErr error
	fetchErr  error

	onInsert func()

	inserts int
	deletes int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{rows: make(map[string]map[domain.Day]domain.Completion)}
}

func (r *fakeRemote) InsertCompletion(ctx context.Context, habitID string, day domain.Day) (*domain.Completion, error) {
	if r.onInsert != nil {
		r.onInsert()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.inserts++
	if r.insertErr != nil {
		return nil, r.insertErr
	}

	if _, exists := r.rows[habitID][day]; exists {
		return nil, domain.ErrCompletionConflict
	}

	row := domain.Completion{
		ID:      uuid.NewString(),
		HabitID: habitID,
		UserID:  "user-1",
		Day:     day,
	}
	if r.rows[habitID] == nil {
		r.rows[habitID] = make(map[domain.Day]domain.Completion)
	}
	r.rows[habitID][day] = row
	return &row, nil
}

func (r *fakeRemote) DeleteCompletion(ctx context.Context, habitID string, day domain.Day) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deletes++
	if r.deleteErr != nil {
		return r.deleteErr
	}

	if _, exists := r.rows[habitID][day]; !exists {
		return domain.ErrCompletionNotFound
	}
	delete(r.rows[habitID], day)
	return nil
}

func (r *fakeRemote) FetchCompletions(ctx context.Context, query FetchQuery) ([]domain.Completion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fetchErr != nil {
		return nil, r.fetchErr
	}

	var out []domain.Completion
	for habitID, days := range r.rows {
		if query.HabitID != "" && query.HabitID != habitID {
			continue
		}
		for day, row := range days {
			if !query.From.IsZero() && day.Before(query.From) {
				continue
			}
			if !query.To.IsZero() && day.After(query.To) {
				continue
			}
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeRemote) seed(habitID string, day domain.Day) domain.Completion {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := domain.Completion{ID: uuid.NewString(), HabitID: habitID, UserID: "user-1", Day: day}
	if r.rows[habitID] == nil {
		r.rows[habitID] = make(map[domain.Day]domain.Completion)
	}
	r.rows[habitID][day] = row
	return row
}

var testToday = domain.Day{Year: 2026, Month: time.September, Day: 1}

func newTestCache(remote *fakeRemote) *Cache {
	c := New(remote)
	c.now = func() domain.Day { return testToday }
	return c
}

func factDays(facts []domain.Completion) []domain.Day {
	days := make([]domain.Day, 0, len(facts))
	for _, f := range facts {
		days = append(days, f.Day)
	}
	return days
}

func TestCompleteIsIdempotent(t *testing.T) {
	remote := newFakeRemote()
	c := newTestCache(remote)

	allTime := AllTimeView("habit-1")
	c.Prime(allTime, nil)

	require.NoError(t, c.Complete(context.Background(), "habit-1"))
	require.NoError(t, c.Complete(context.Background(), "habit-1"), "second complete must tolerate the duplicate")

	facts, ok := c.View(allTime)
	require.True(t, ok)
	require.Len(t, facts, 1, "exactly one fact per (habit, day) after settlement")
	assert.Equal(t, testToday, facts[0].Day)
	assert.False(t, facts[0].IsOptimistic(), "settled view must hold the authoritative row")

	assert.Len(t, remote.rows["habit-1"], 1)
}

func TestCompleteRollbackRestoresViewExactly(t *testing.T) {
	remote := newFakeRemote()
	c := newTestCache(remote)

	existing := remote.seed("habit-1", testToday.AddDays(-3))
	monthKey := MonthView("habit-1", testToday.Year, testToday.Month)
	c.Prime(monthKey, []domain.Completion{existing})

	remote.insertErr = domain.ErrTransport
	remote.fetchErr = domain.ErrTransport // keep the refetch from papering over the rollback

	err := c.Complete(context.Background(), "habit-1")
	require.ErrorIs(t, err, domain.ErrTransport)

	facts, ok := c.View(monthKey)
	require.True(t, ok)
	assert.Equal(t, []domain.Completion{existing}, facts, "failed mutation must restore the exact pre-mutation set")
	assert.True(t, c.Stale(monthKey), "view stays flagged until a refetch succeeds")
}

func TestCompleteUpdatesAllViewsInLockstep(t *testing.T) {
	remote := newFakeRemote()
	c := newTestCache(remote)

	todayKey := TodayView()
	monthKey := MonthView("habit-1", testToday.Year, testToday.Month)
	allTimeKey := AllTimeView("habit-1")

	c.Prime(todayKey, nil)
	c.Prime(monthKey, nil)
	c.Prime(allTimeKey, nil)

	// Observe the speculative state while the remote call is in flight.
	remote.onInsert = func() {
		for _, key := range []ViewKey{todayKey, monthKey, allTimeKey} {
			facts, ok := c.View(key)
			require.True(t, ok)
			require.Len(t, facts, 1, "optimistic fact must be visible pre-settlement in %+v", key)
			assert.True(t, facts[0].IsOptimistic())
		}
	}

	require.NoError(t, c.Complete(context.Background(), "habit-1"))

	for _, key := range []ViewKey{todayKey, monthKey, allTimeKey} {
		facts, ok := c.View(key)
		require.True(t, ok)
		require.Len(t, facts, 1, "fact must survive settlement in %+v", key)
		assert.False(t, facts[0].IsOptimistic())
		assert.False(t, c.Stale(key))
	}
}

func TestCompleteOnPastDaySkipsTodayView(t *testing.T) {
	remote := newFakeRemote()
	c := newTestCache(remote)

	pastDay := testToday.AddDays(-5)

	todayKey := TodayView()
	monthKey := MonthView("habit-1", pastDay.Year, pastDay.Month)

	c.Prime(todayKey, nil)
	c.Prime(monthKey, nil)

	require.NoError(t, c.CompleteOn(context.Background(), "habit-1", pastDay))

	todayFacts, _ := c.View(todayKey)
	assert.Empty(t, todayFacts, "dated completion must not leak into the today view")

	monthFacts, _ := c.View(monthKey)
	assert.Equal(t, []domain.Day{pastDay}, factDays(monthFacts))
}

func TestUncompleteRemovesAndRollsBack(t *testing.T) {
	t.Run("Removes the fact and settles", func(t *testing.T) {
		remote := newFakeRemote()
		c := newTestCache(remote)

		existing := remote.seed("habit-1", testToday)
		allTime := AllTimeView("habit-1")
		c.Prime(allTime, []domain.Completion{existing})

		require.NoError(t, c.Uncomplete(context.Background(), "habit-1"))

		facts, _ := c.View(allTime)
		assert.Empty(t, facts)
		assert.Empty(t, remote.rows["habit-1"])
	})

	t.Run("Restores the fact when the delete fails", func(t *testing.T) {
		remote := newFakeRemote()
		c := newTestCache(remote)

		existing := remote.seed("habit-1", testToday)
		allTime := AllTimeView("habit-1")
		c.Prime(allTime, []domain.Completion{existing})

		remote.deleteErr = domain.ErrTransport
		remote.fetchErr = domain.ErrTransport

		err := c.Uncomplete(context.Background(), "habit-1")
		require.ErrorIs(t, err, domain.ErrTransport)

		facts, _ := c.View(allTime)
		assert.Equal(t, []domain.Completion{existing}, facts)
	})

	t.Run("Tolerates deleting a completion that never existed", func(t *testing.T) {
		remote := newFakeRemote()
		c := newTestCache(remote)

		c.Prime(AllTimeView("habit-1"), nil)
		assert.NoError(t, c.Uncomplete(context.Background(), "habit-1"))
	})
}

func TestSettleRefetchReconcilesDrift(t *testing.T) {
	remote := newFakeRemote()
	c := newTestCache(remote)

	allTime := AllTimeView("habit-1")
	c.Prime(allTime, nil)

	// A second device already completed yesterday; the refetch after our
	// own mutation settles must pick it up.
	remote.seed("habit-1", testToday.Prev())

	require.NoError(t, c.Complete(context.Background(), "habit-1"))

	facts, _ := c.View(allTime)
	assert.ElementsMatch(t, []domain.Day{testToday, testToday.Prev()}, factDays(facts))
	assert.False(t, c.Stale(allTime))
}

func TestInterleavedOppositeMutationsReconcile(t *testing.T) {
	remote := newFakeRemote()
	c := newTestCache(remote)

	allTime := AllTimeView("habit-1")
	c.Prime(allTime, nil)

	// Rapid toggle: fire the opposite mutation while the insert is still
	// in flight. The uncomplete removes the optimistic fact and its delete
	// misses on the remote; whichever write lands, both settlements refetch
	// and the view converges on the server rows.
	remote.onInsert = func() {
		remote.onInsert = nil
		require.NoError(t, c.Uncomplete(context.Background(), "habit-1"))
	}

	require.NoError(t, c.Complete(context.Background(), "habit-1"))

	facts, ok := c.View(allTime)
	require.True(t, ok)

	serverDays := make([]domain.Day, 0, len(remote.rows["habit-1"]))
	for day := range remote.rows["habit-1"] {
		serverDays = append(serverDays, day)
	}
	assert.ElementsMatch(t, serverDays, factDays(facts), "settled view must equal the server rows")
	assert.False(t, c.Stale(allTime))
}

func TestUnprimedViewsAreLeftAlone(t *testing.T) {
	remote := newFakeRemote()
	c := newTestCache(remote)

	require.NoError(t, c.Complete(context.Background(), "habit-1"))

	_, ok := c.View(AllTimeView("habit-1"))
	assert.False(t, ok, "a view the UI never requested must not be materialized")
	assert.Len(t, remote.rows["habit-1"], 1, "the remote write still happens")
}

func TestApplyValidation(t *testing.T) {
	remote := newFakeRemote()
	c := newTestCache(remote)

	assert.ErrorIs(t, c.Complete(context.Background(), "  "), domain.ErrValidation)
	assert.ErrorIs(t, c.CompleteOn(context.Background(), "habit-1", domain.Day{}), domain.ErrValidation)
	assert.ErrorIs(t, c.Uncomplete(context.Background(), ""), domain.ErrValidation)
	assert.Zero(t, remote.inserts, "no optimistic step or dispatch on invalid input")

	type bogus struct{ Mutation }
	assert.ErrorIs(t, c.Apply(context.Background(), bogus{}), domain.ErrValidation)
}

func TestSubscribersSeeOptimisticPublishes(t *testing.T) {
	remote := newFakeRemote()
	c := newTestCache(remote)

	allTime := AllTimeView("habit-1")
	c.Prime(allTime, nil)

	var touched []ViewKey
	unsub := c.Subscribe(func(k ViewKey) { touched = append(touched, k) })
	defer unsub()

	require.NoError(t, c.Complete(context.Background(), "habit-1"))

	assert.Contains(t, touched, allTime)
}
