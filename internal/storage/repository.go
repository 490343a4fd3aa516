package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateReminder(ctx context.Context, in Reminder) error
	GetReminder(ctx context.Context, id string) (Reminder, error)
	UpdateReminder(ctx context.Context, in Reminder) error
	DeleteReminder(ctx context.Context, id string) error
	ListReminders(ctx context.Context, filter ReminderListFilter) ([]Reminder, error)

	CreateLogEntry(ctx context.Context, in LogEntry) error
	UpdateLogEntry(ctx context.Context, in LogEntry) error
	GetLogEntry(ctx context.Context, reminderID string, dayKey time.Time) (LogEntry, error)
	ListLogEntriesByDay(ctx context.Context, dayKey time.Time) ([]LogEntry, error)
	ListLogEntriesByRange(ctx context.Context, from, to time.Time) ([]LogEntry, error)
	DeleteLogEntry(ctx context.Context, reminderID string, dayKey time.Time) error
	DeleteLogEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
