package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	sqliteTimeLayout = time.RFC3339Nano
	// Day keys are stored as plain local dates so lexicographic range
	// comparisons in SQL match calendar order.
	dayKeyLayout = "2006-01-02"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateReminder(ctx context.Context, in Reminder) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reminders (id, title, note, scheduled_at, enabled, completed_on, skipped_on, created_at,
			has_schedule, schedule_hour, schedule_minute, schedule_weekdays, schedule_enabled, schedule_end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Note, mustTime(in.ScheduledAt), boolInt(in.Enabled),
		nullTime(in.CompletedOn), nullTime(in.SkippedOn), mustTime(in.CreatedAt),
		boolInt(in.HasSchedule), in.ScheduleHour, in.ScheduleMinute, in.ScheduleWeekdays,
		boolInt(in.ScheduleEnabled), nullTime(in.ScheduleEndDate),
	)
	return err
}

func (r *SQLiteRepository) GetReminder(ctx context.Context, id string) (Reminder, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, note, scheduled_at, enabled, completed_on, skipped_on, created_at,
			has_schedule, schedule_hour, schedule_minute, schedule_weekdays, schedule_enabled, schedule_end_date
		FROM reminders WHERE id = ?`, id)
	item, err := scanReminder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Reminder{}, ErrNotFound
		}
		return Reminder{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) UpdateReminder(ctx context.Context, in Reminder) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reminders
		SET title = ?, note = ?, scheduled_at = ?, enabled = ?, completed_on = ?, skipped_on = ?,
			has_schedule = ?, schedule_hour = ?, schedule_minute = ?, schedule_weekdays = ?,
			schedule_enabled = ?, schedule_end_date = ?
		WHERE id = ?`,
		in.Title, in.Note, mustTime(in.ScheduledAt), boolInt(in.Enabled),
		nullTime(in.CompletedOn), nullTime(in.SkippedOn),
		boolInt(in.HasSchedule), in.ScheduleHour, in.ScheduleMinute, in.ScheduleWeekdays,
		boolInt(in.ScheduleEnabled), nullTime(in.ScheduleEndDate), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteReminder(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListReminders(ctx context.Context, filter ReminderListFilter) ([]Reminder, error) {
	query := `SELECT id, title, note, scheduled_at, enabled, completed_on, skipped_on, created_at,
		has_schedule, schedule_hour, schedule_minute, schedule_weekdays, schedule_enabled, schedule_end_date
		FROM reminders`
	args := make([]any, 0, 3)
	if filter.Enabled != nil {
		query += ` WHERE enabled = ?`
		args = append(args, boolInt(*filter.Enabled))
	}
	query += ` ORDER BY scheduled_at ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Reminder, 0)
	for rows.Next() {
		item, scanErr := scanReminder(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateLogEntry(ctx context.Context, in LogEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO daily_log_entries (reminder_id, day_key, status, title, note, recurring, time_label, created_at, last_updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ReminderID, dayKeyString(in.DayKey), in.Status, in.Title, in.Note,
		boolInt(in.Recurring), in.TimeLabel, mustTime(in.CreatedAt), mustTime(in.LastUpdatedAt),
	)
	return err
}

func (r *SQLiteRepository) UpdateLogEntry(ctx context.Context, in LogEntry) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE daily_log_entries
		SET status = ?, title = ?, note = ?, recurring = ?, time_label = ?, last_updated_at = ?
		WHERE reminder_id = ? AND day_key = ?`,
		in.Status, in.Title, in.Note, boolInt(in.Recurring), in.TimeLabel, mustTime(in.LastUpdatedAt),
		in.ReminderID, dayKeyString(in.DayKey),
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) GetLogEntry(ctx context.Context, reminderID string, dayKey time.Time) (LogEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT reminder_id, day_key, status, title, note, recurring, time_label, created_at, last_updated_at
		FROM daily_log_entries WHERE reminder_id = ? AND day_key = ?`,
		reminderID, dayKeyString(dayKey))
	item, err := scanLogEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LogEntry{}, ErrNotFound
		}
		return LogEntry{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) ListLogEntriesByDay(ctx context.Context, dayKey time.Time) ([]LogEntry, error) {
	return r.listLogEntries(ctx, `
		SELECT reminder_id, day_key, status, title, note, recurring, time_label, created_at, last_updated_at
		FROM daily_log_entries WHERE day_key = ?
		ORDER BY time_label ASC, title ASC`, dayKeyString(dayKey))
}

func (r *SQLiteRepository) ListLogEntriesByRange(ctx context.Context, from, to time.Time) ([]LogEntry, error) {
	return r.listLogEntries(ctx, `
		SELECT reminder_id, day_key, status, title, note, recurring, time_label, created_at, last_updated_at
		FROM daily_log_entries WHERE day_key >= ? AND day_key <= ?
		ORDER BY day_key DESC, time_label ASC, title ASC`, dayKeyString(from), dayKeyString(to))
}

func (r *SQLiteRepository) DeleteLogEntry(ctx context.Context, reminderID string, dayKey time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM daily_log_entries WHERE reminder_id = ? AND day_key = ?`,
		reminderID, dayKeyString(dayKey))
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteLogEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM daily_log_entries WHERE day_key < ?`, dayKeyString(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) listLogEntries(ctx context.Context, query string, args ...any) ([]LogEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LogEntry, 0)
	for rows.Next() {
		item, scanErr := scanLogEntry(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func dayKeyString(v time.Time) string {
	return v.Format(dayKeyLayout)
}

func parseDayKey(v string) (time.Time, error) {
	return time.ParseInLocation(dayKeyLayout, v, time.Local)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := parseRequiredTime(v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

// Instants are stored normalized to UTC; loads convert back to the local
// wall clock because all calendar-day math downstream keys on it.
func parseRequiredTime(v string) (time.Time, error) {
	tm, err := time.Parse(sqliteTimeLayout, v)
	if err != nil {
		return time.Time{}, err
	}
	return tm.In(time.Local), nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	clause := ""
	if limit > 0 {
		clause += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		clause += " OFFSET ?"
		*args = append(*args, offset)
	}
	return clause
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReminder(s scanner) (Reminder, error) {
	var out Reminder
	var scheduled, created string
	var completed, skipped, endDate sql.NullString
	var enabled, hasSchedule, scheduleEnabled int
	if err := s.Scan(&out.ID, &out.Title, &out.Note, &scheduled, &enabled, &completed, &skipped, &created,
		&hasSchedule, &out.ScheduleHour, &out.ScheduleMinute, &out.ScheduleWeekdays, &scheduleEnabled, &endDate); err != nil {
		return Reminder{}, err
	}
	scheduledAt, err := parseRequiredTime(scheduled)
	if err != nil {
		return Reminder{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Reminder{}, err
	}
	completedOn, err := parseNullableTime(completed)
	if err != nil {
		return Reminder{}, err
	}
	skippedOn, err := parseNullableTime(skipped)
	if err != nil {
		return Reminder{}, err
	}
	scheduleEnd, err := parseNullableTime(endDate)
	if err != nil {
		return Reminder{}, err
	}
	out.ScheduledAt = scheduledAt
	out.CreatedAt = createdAt
	out.CompletedOn = completedOn
	out.SkippedOn = skippedOn
	out.Enabled = enabled == 1
	out.HasSchedule = hasSchedule == 1
	out.ScheduleEnabled = scheduleEnabled == 1
	out.ScheduleEndDate = scheduleEnd
	return out, nil
}

func scanLogEntry(s scanner) (LogEntry, error) {
	var out LogEntry
	var day, created, updated string
	var recurring int
	if err := s.Scan(&out.ReminderID, &day, &out.Status, &out.Title, &out.Note, &recurring, &out.TimeLabel, &created, &updated); err != nil {
		return LogEntry{}, err
	}
	dayKey, err := parseDayKey(day)
	if err != nil {
		return LogEntry{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return LogEntry{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return LogEntry{}, err
	}
	out.DayKey = dayKey
	out.CreatedAt = createdAt
	out.LastUpdatedAt = updatedAt
	out.Recurring = recurring == 1
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
