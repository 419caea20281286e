package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/david-saint/ductiva/internal/models"
	"github.com/david-saint/ductiva/internal/storage"
)

const habitColumns = "id, name, icon, schedule_kind, schedule_days, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var kind, days, createdAt string

	if err := row.Scan(&h.ID, &h.Name, &h.Icon, &kind, &days, &createdAt); err != nil {
		return models.Habit{}, err
	}

	schedule, err := storage.DecodeSchedule(kind, days)
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", h.ID, err)
	}
	h.Schedule = schedule

	h.CreatedAt, err = storage.ParseTimestamp(createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return h, nil
}

func (s *Store) AddHabit(habit models.Habit) error {
	habit, err := storage.NormalizeHabit(habit)
	if err != nil {
		return err
	}
	if habit.ID == "" {
		return errors.New("habit id is required")
	}
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM habits").Scan(&count); err != nil {
		return fmt.Errorf("failed to count habits: %w", err)
	}
	if err := storage.CheckCapacity(count); err != nil {
		return err
	}

	var taken int
	if err := tx.QueryRow("SELECT COUNT(*) FROM habits WHERE name = ? COLLATE NOCASE", habit.Name).Scan(&taken); err != nil {
		return fmt.Errorf("failed to check habit name: %w", err)
	}
	if taken > 0 {
		return fmt.Errorf("%w: %s", storage.ErrDuplicateName, habit.Name)
	}

	kind, days := storage.EncodeSchedule(habit.Schedule)
	_, err = tx.Exec(`
		INSERT INTO habits (id, name, icon, schedule_kind, schedule_days, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.Name, habit.Icon, kind, days, storage.FormatTimestamp(habit.CreatedAt.UTC()))
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	return tx.Commit()
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow("SELECT "+habitColumns+" FROM habits WHERE id = ?", id)
	return s.loadHabit(row)
}

func (s *Store) GetHabitByName(name string) (models.Habit, error) {
	row := s.db.QueryRow("SELECT "+habitColumns+" FROM habits WHERE name = ? COLLATE NOCASE", name)
	return s.loadHabit(row)
}

func (s *Store) loadHabit(row *sql.Row) (models.Habit, error) {
	h, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, storage.ErrNotFound
		}
		return models.Habit{}, err
	}

	h.Completions, err = s.completionTimes(h.ID)
	if err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	rows, err := s.db.Query("SELECT " + habitColumns + " FROM habits ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	byHabit, err := s.allCompletionTimes()
	if err != nil {
		return nil, err
	}
	for i := range habits {
		habits[i].Completions = byHabit[habits[i].ID]
	}

	return habits, nil
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	habit, err := storage.NormalizeHabit(habit)
	if err != nil {
		return err
	}

	var taken int
	err = s.db.QueryRow("SELECT COUNT(*) FROM habits WHERE name = ? COLLATE NOCASE AND id != ?", habit.Name, habit.ID).Scan(&taken)
	if err != nil {
		return fmt.Errorf("failed to check habit name: %w", err)
	}
	if taken > 0 {
		return fmt.Errorf("%w: %s", storage.ErrDuplicateName, habit.Name)
	}

	kind, days := storage.EncodeSchedule(habit.Schedule)
	result, err := s.db.Exec(`
		UPDATE habits SET name = ?, icon = ?, schedule_kind = ?, schedule_days = ?
		WHERE id = ?`,
		habit.Name, habit.Icon, kind, days, habit.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteHabit(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM completions WHERE habit_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete completions: %w", err)
	}

	result, err := tx.Exec("DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return storage.ErrNotFound
	}

	return tx.Commit()
}
