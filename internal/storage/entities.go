package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"remindd/internal/model"
)

// Reminder is the flat row shape for the reminders table. Weekly schedule
// columns are inlined and guarded by HasSchedule; weekdays are stored as a
// comma-separated list of 1–7 values (1 = Sunday).
type Reminder struct {
	ID               string
	Title            string
	Note             string
	ScheduledAt      time.Time
	Enabled          bool
	CompletedOn      *time.Time
	SkippedOn        *time.Time
	CreatedAt        time.Time
	HasSchedule      bool
	ScheduleHour     int
	ScheduleMinute   int
	ScheduleWeekdays string
	ScheduleEnabled  bool
	ScheduleEndDate  *time.Time
}

// LogEntry is the flat row shape for the daily_log_entries table. One row per
// (reminder_id, day_key); the primary key enforces it.
type LogEntry struct {
	ReminderID    string
	DayKey        time.Time
	Status        string
	Title         string
	Note          string
	Recurring     bool
	TimeLabel     string
	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

type ReminderListFilter struct {
	Enabled *bool
	Limit   int
	Offset  int
}

func ReminderFromModel(in model.Reminder) Reminder {
	out := Reminder{
		ID:          in.ID,
		Title:       in.Title,
		Note:        in.Note,
		ScheduledAt: in.ScheduledAt,
		Enabled:     in.Enabled,
		CompletedOn: in.CompletedOn,
		SkippedOn:   in.SkippedOn,
		CreatedAt:   in.CreatedAt,
	}
	if in.Schedule != nil {
		out.HasSchedule = true
		out.ScheduleHour = in.Schedule.Hour
		out.ScheduleMinute = in.Schedule.Minute
		out.ScheduleWeekdays = encodeWeekdays(in.Schedule.Weekdays)
		out.ScheduleEnabled = in.Schedule.Enabled
		out.ScheduleEndDate = in.Schedule.EndDate
	}
	return out
}

func (r Reminder) ToModel() (model.Reminder, error) {
	out := model.Reminder{
		ID:          r.ID,
		Title:       r.Title,
		Note:        r.Note,
		ScheduledAt: r.ScheduledAt,
		Enabled:     r.Enabled,
		CompletedOn: r.CompletedOn,
		SkippedOn:   r.SkippedOn,
		CreatedAt:   r.CreatedAt,
	}
	if r.HasSchedule {
		weekdays, err := decodeWeekdays(r.ScheduleWeekdays)
		if err != nil {
			return model.Reminder{}, err
		}
		out.Schedule = &model.WeeklySchedule{
			Hour:     r.ScheduleHour,
			Minute:   r.ScheduleMinute,
			Weekdays: weekdays,
			Enabled:  r.ScheduleEnabled,
			EndDate:  r.ScheduleEndDate,
		}
	}
	return out, nil
}

func LogEntryFromModel(in model.DailyLogEntry) LogEntry {
	return LogEntry{
		ReminderID:    in.ReminderID,
		DayKey:        in.DayKey,
		Status:        string(in.Status),
		Title:         in.Title,
		Note:          in.Note,
		Recurring:     in.Recurring,
		TimeLabel:     in.TimeLabel,
		CreatedAt:     in.CreatedAt,
		LastUpdatedAt: in.LastUpdatedAt,
	}
}

func (e LogEntry) ToModel() model.DailyLogEntry {
	return model.DailyLogEntry{
		ReminderID:    e.ReminderID,
		DayKey:        e.DayKey,
		Status:        model.Status(e.Status),
		Title:         e.Title,
		Note:          e.Note,
		Recurring:     e.Recurring,
		TimeLabel:     e.TimeLabel,
		CreatedAt:     e.CreatedAt,
		LastUpdatedAt: e.LastUpdatedAt,
	}
}

func encodeWeekdays(days []int) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("storage: bad weekday list %q: %w", raw, err)
		}
		out = append(out, d)
	}
	return out, nil
}
