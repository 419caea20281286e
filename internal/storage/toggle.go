package storage

import (
	"sort"
	"time"

	"github.com/david-saint/ductiva/internal/streak"
)

// StoredMark is one completions row as read back inside a toggle.
type StoredMark struct {
	ID          string
	Day         string
	CompletedAt time.Time
}

// TogglePlan lists the writes that flip one calendar day for a habit.
type TogglePlan struct {
	// Day is the key for the inserted row.
	Day    string
	Delete []string
	// Rekey maps row IDs to the day key their completed_at falls on now.
	Rekey  map[string]string
	Insert bool
}

// PlanToggle flips the day containing at under cal. Marks are matched by
// completed_at, not by their stored day key, because the key was written
// under whatever calendar was in effect at the time. Every mark on the
// target day is removed. Marks whose key no longer matches their day are
// rekeyed, and extra marks landing on the same day are dropped, so the
// unique (habit_id, day) key keeps agreeing with the engine.
func PlanToggle(marks []StoredMark, cal streak.Calendar, at time.Time) (TogglePlan, error) {
	target, ok := cal.DayOf(at)
	if !ok {
		return TogglePlan{}, ErrInvalidCalendar
	}

	sorted := append([]StoredMark(nil), marks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.Before(sorted[j].CompletedAt)
	})

	plan := TogglePlan{Day: target.String(), Rekey: make(map[string]string)}
	kept := make(map[string]bool)
	matched := false
	for _, mark := range sorted {
		day, _ := cal.DayOf(mark.CompletedAt)
		key := day.String()
		switch {
		case key == plan.Day:
			matched = true
			plan.Delete = append(plan.Delete, mark.ID)
		case kept[key]:
			plan.Delete = append(plan.Delete, mark.ID)
		default:
			kept[key] = true
			if mark.Day != key {
				plan.Rekey[mark.ID] = key
			}
		}
	}
	plan.Insert = !matched
	return plan, nil
}

// MarksOn reports whether any mark's completed_at falls on day under cal.
func MarksOn(marks []StoredMark, cal streak.Calendar, day streak.Day) (bool, error) {
	if !cal.Valid() {
		return false, ErrInvalidCalendar
	}
	for _, mark := range marks {
		if d, _ := cal.DayOf(mark.CompletedAt); d == day {
			return true, nil
		}
	}
	return false, nil
}
