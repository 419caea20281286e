package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/david-saint/ductiva/internal/models"
	"github.com/david-saint/ductiva/internal/storage"
	"github.com/david-saint/ductiva/internal/streak"
)

func (s *Store) ToggleCompletion(habitID string, cal streak.Calendar, at time.Time) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var id string
	if err := tx.QueryRow("SELECT id FROM habits WHERE id = $1 FOR UPDATE", habitID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, storage.ErrNotFound
		}
		return false, err
	}

	marks, err := loadMarks(tx, habitID)
	if err != nil {
		return false, err
	}
	plan, err := storage.PlanToggle(marks, cal, at)
	if err != nil {
		return false, err
	}

	for _, markID := range plan.Delete {
		if _, err := tx.Exec("DELETE FROM completions WHERE id = $1", markID); err != nil {
			return false, fmt.Errorf("failed to clear completion: %w", err)
		}
	}
	// Park rekeyed rows on unique placeholders first so swapping two keys
	// never trips the (habit_id, day) constraint.
	for markID := range plan.Rekey {
		if _, err := tx.Exec("UPDATE completions SET day = $1 WHERE id = $2", "~"+markID, markID); err != nil {
			return false, fmt.Errorf("failed to rekey completion: %w", err)
		}
	}
	for markID, day := range plan.Rekey {
		if _, err := tx.Exec("UPDATE completions SET day = $1 WHERE id = $2", day, markID); err != nil {
			return false, fmt.Errorf("failed to rekey completion: %w", err)
		}
	}

	if plan.Insert {
		_, err = tx.Exec(
			"INSERT INTO completions (id, habit_id, day, completed_at) VALUES ($1, $2, $3, $4)",
			uuid.NewString(), habitID, plan.Day, storage.FormatTimestamp(at))
		if err != nil {
			return false, fmt.Errorf("failed to record completion: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return plan.Insert, nil
}

// IsCompleted reports whether a completion falls on day under cal.
func (s *Store) IsCompleted(habitID string, cal streak.Calendar, day streak.Day) (bool, error) {
	marks, err := loadMarks(s.db, habitID)
	if err != nil {
		return false, err
	}
	return storage.MarksOn(marks, cal, day)
}

type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func loadMarks(q querier, habitID string) ([]storage.StoredMark, error) {
	rows, err := q.Query("SELECT id, day, completed_at FROM completions WHERE habit_id = $1", habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var marks []storage.StoredMark
	for rows.Next() {
		var mark storage.StoredMark
		var completedAt string
		if err := rows.Scan(&mark.ID, &mark.Day, &completedAt); err != nil {
			return nil, err
		}
		if mark.CompletedAt, err = storage.ParseTimestamp(completedAt); err != nil {
			return nil, err
		}
		marks = append(marks, mark)
	}
	return marks, rows.Err()
}

func (s *Store) GetCompletions(habitID string) ([]models.Completion, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, day, completed_at
		FROM completions WHERE habit_id = $1 ORDER BY day`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []models.Completion
	for rows.Next() {
		var c models.Completion
		var completedAt string
		if err := rows.Scan(&c.ID, &c.HabitID, &c.Day, &completedAt); err != nil {
			return nil, err
		}
		c.CompletedAt, err = storage.ParseTimestamp(completedAt)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

func (s *Store) completionTimes(habitID string) ([]time.Time, error) {
	completions, err := s.GetCompletions(habitID)
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, len(completions))
	for i, c := range completions {
		times[i] = c.CompletedAt
	}
	return times, nil
}

func (s *Store) allCompletionTimes() (map[string][]time.Time, error) {
	rows, err := s.db.Query("SELECT habit_id, completed_at FROM completions ORDER BY day")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byHabit := make(map[string][]time.Time)
	for rows.Next() {
		var habitID, completedAt string
		if err := rows.Scan(&habitID, &completedAt); err != nil {
			return nil, err
		}
		t, err := storage.ParseTimestamp(completedAt)
		if err != nil {
			return nil, err
		}
		byHabit[habitID] = append(byHabit[habitID], t)
	}
	return byHabit, rows.Err()
}
