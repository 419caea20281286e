package models

import "time"

// Habit represents a recurring practice to track
type Habit struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Icon        string      `json:"icon"`
	Schedule    Schedule    `json:"-"`
	CreatedAt   time.Time   `json:"created_at"`
	Completions []time.Time `json:"completions"`
}

// Completion represents a single day's completion mark for a habit
type Completion struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habit_id"`
	Day         string    `json:"day"` // YYYY-MM-DD format
	CompletedAt time.Time `json:"completed_at"`
}

// DefaultIcon is used when a habit is created without an icon.
const DefaultIcon = "circle"
