package cache

import (
	"time"

	"github.com/haidave/everbase-sync-engine/internal/core/domain"
)

// ViewKind enumerates the projections the UI reads. Keys are typed so a
// mutation's affected-view list is computed from the union instead of
// matched against loosely-typed key arrays.
type ViewKind int

const (
	// ViewToday holds every completion the signed-in user logged today,
	// across all habits.
	ViewToday ViewKind = iota

	// ViewMonth holds one habit's completions within one calendar month.
	ViewMonth

	// ViewAllTime holds one habit's full completion history.
	ViewAllTime

	// ViewYear holds one habit's completions within one calendar year.
	// Updated only by post-settle invalidation, never optimistically.
	ViewYear
)

// ViewKey identifies one cached projection. Comparable, used as the store
// key. HabitID is empty for the user-scoped today view; Year/Month are set
// only for the kinds that need them.
type ViewKey struct {
	Kind    ViewKind
	HabitID string
	Year    int
	Month   time.Month
}

func TodayView() ViewKey {
	return ViewKey{Kind: ViewToday}
}

func MonthView(habitID string, year int, month time.Month) ViewKey {
	return ViewKey{Kind: ViewMonth, HabitID: habitID, Year: year, Month: month}
}

func AllTimeView(habitID string) ViewKey {
	return ViewKey{Kind: ViewAllTime, HabitID: habitID}
}

func YearView(habitID string, year int) ViewKey {
	return ViewKey{Kind: ViewYear, HabitID: habitID, Year: year}
}

// Contains reports whether a fact for (habitID, day) falls inside this
// view's filter predicate, with today supplied by the caller's clock.
func (k ViewKey) Contains(habitID string, day, today domain.Day) bool {
	switch k.Kind {
	case ViewToday:
		return day == today
	case ViewMonth:
		return k.HabitID == habitID && k.Year == day.Year && k.Month == day.Month
	case ViewAllTime:
		return k.HabitID == habitID
	case ViewYear:
		return k.HabitID == habitID && k.Year == day.Year
	}
	return false
}

// AffectedViews lists the views a completion mutation for (habitID, day)
// must update in lockstep. Today's view is touched only when day is
// actually today; the month and all-time views always are.
func AffectedViews(habitID string, day, today domain.Day) []ViewKey {
	views := make([]ViewKey, 0, 3)
	if day == today {
		views = append(views, TodayView())
	}
	views = append(views,
		MonthView(habitID, day.Year, day.Month),
		AllTimeView(habitID),
	)
	return views
}

// InvalidatedViews is AffectedViews plus the yearly aggregate, which is
// only reconciled by refetch after settlement.
func InvalidatedViews(habitID string, day, today domain.Day) []ViewKey {
	return append(AffectedViews(habitID, day, today), YearView(habitID, day.Year))
}
