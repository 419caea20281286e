// Package widgets renders read-only habit summaries for the small, medium
// and large widget families. Widgets only ever see HabitSnapshot copies.
package widgets

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/david-saint/ductiva/internal/models"
	"github.com/david-saint/ductiva/internal/streak"
)

// HabitSnapshot is an immutable copy of a habit plus its current streak.
type HabitSnapshot struct {
	ID            string
	Name          string
	Icon          string
	Schedule      models.Schedule
	CreatedAt     time.Time
	Completions   []time.Time
	CurrentStreak int
}

// NewSnapshot copies habit and computes its streak at now.
func NewSnapshot(habit models.Habit, engine *streak.Engine, now time.Time) HabitSnapshot {
	completions := make([]time.Time, len(habit.Completions))
	copy(completions, habit.Completions)

	return HabitSnapshot{
		ID:            habit.ID,
		Name:          habit.Name,
		Icon:          habit.Icon,
		Schedule:      habit.Schedule,
		CreatedAt:     habit.CreatedAt,
		Completions:   completions,
		CurrentStreak: engine.CurrentStreak(habit, now),
	}
}

// Snapshots builds snapshots for habits ordered by creation, oldest first.
func Snapshots(habits []models.Habit, engine *streak.Engine, now time.Time) []HabitSnapshot {
	out := make([]HabitSnapshot, 0, len(habits))
	for _, h := range habits {
		out = append(out, NewSnapshot(h, engine, now))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Habit returns a habit value carrying the snapshot's data, for engine
// calls. Mutating it does not affect the snapshot.
func (s HabitSnapshot) Habit() models.Habit {
	completions := make([]time.Time, len(s.Completions))
	copy(completions, s.Completions)
	return models.Habit{
		ID:          s.ID,
		Name:        s.Name,
		Icon:        s.Icon,
		Schedule:    s.Schedule,
		CreatedAt:   s.CreatedAt,
		Completions: completions,
	}
}

type snapshotJSON struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Icon          string              `json:"icon"`
	Schedule      models.ScheduleSpec `json:"schedule"`
	CreatedAt     time.Time           `json:"created_at"`
	Completions   []time.Time         `json:"completions"`
	CurrentStreak int                 `json:"current_streak"`
}

func (s HabitSnapshot) MarshalJSON() ([]byte, error) {
	completions := s.Completions
	if completions == nil {
		completions = []time.Time{}
	}
	return json.Marshal(snapshotJSON{
		ID:            s.ID,
		Name:          s.Name,
		Icon:          s.Icon,
		Schedule:      models.SpecOf(s.Schedule),
		CreatedAt:     s.CreatedAt,
		Completions:   completions,
		CurrentStreak: s.CurrentStreak,
	})
}

func (s *HabitSnapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	schedule, err := raw.Schedule.Schedule()
	if err != nil {
		return err
	}
	*s = HabitSnapshot{
		ID:            raw.ID,
		Name:          raw.Name,
		Icon:          raw.Icon,
		Schedule:      schedule,
		CreatedAt:     raw.CreatedAt,
		Completions:   raw.Completions,
		CurrentStreak: raw.CurrentStreak,
	}
	return nil
}

// Select returns the snapshot with id, falling back to the oldest habit
// when id is empty or unknown. ok is false only when there are no habits.
func Select(snapshots []HabitSnapshot, id string) (HabitSnapshot, bool) {
	if len(snapshots) == 0 {
		return HabitSnapshot{}, false
	}
	if id != "" {
		for _, s := range snapshots {
			if s.ID == id {
				return s, true
			}
		}
	}
	oldest := snapshots[0]
	for _, s := range snapshots[1:] {
		if s.CreatedAt.Before(oldest.CreatedAt) {
			oldest = s
		}
	}
	return oldest, true
}
