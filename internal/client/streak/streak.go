// Package streak derives consecutive-day streaks from a completion set.
// Pure functions over cache state; nothing here mutates or fetches.
package streak

import (
	"sort"

	"github.com/haidave/everbase-sync-engine/internal/core/domain"
)

type Streaks struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// Compute returns the current and best streak for the given facts,
// evaluated as of today. Duplicate same-day facts are deduped first:
// optimistic placeholders can transiently coexist with their confirmed
// rows.
func Compute(facts []domain.Completion, today domain.Day) Streaks {
	if len(facts) == 0 {
		return Streaks{}
	}

	days := make(map[domain.Day]bool, len(facts))
	for _, f := range facts {
		days[f.Day] = true
	}

	current := 0
	anchor := today
	if !days[anchor] {
		// A streak not yet marked today is still alive through yesterday.
		anchor = today.Prev()
	}
	for days[anchor] {
		current++
		anchor = anchor.Prev()
	}

	sorted := make([]domain.Day, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})

	best := 0
	run := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1].Next() {
			run++
			continue
		}
		if run > best {
			best = run
		}
		run = 1
	}
	if run > best {
		best = run
	}
	if current > best {
		best = current
	}

	return Streaks{Current: current, Best: best}
}

// ComputeNow is Compute evaluated against the local calendar day.
func ComputeNow(facts []domain.Completion) Streaks {
	return Compute(facts, domain.Today())
}
