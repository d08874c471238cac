package models

import "time"

// Session marks which half of the teaching day an assignment belongs to.
type Session string

const (
	SessionMorning   Session = "MORNING"
	SessionAfternoon Session = "AFTERNOON"
)

// ScheduleRow represents one recurring teaching slot as stored in the database.
// TeacherID is nullable because imported legacy rows only carry a display name.
type ScheduleRow struct {
	ID          string    `db:"id" json:"id"`
	TeacherID   *string   `db:"teacher_id" json:"teacher_id,omitempty"`
	TeacherName string    `db:"teacher_name" json:"teacher_name"`
	ClassID     string    `db:"class_id" json:"class_id"`
	ClassName   string    `db:"class_name" json:"class_name"`
	Subject     string    `db:"subject" json:"subject"`
	DayOfWeek   string    `db:"day_of_week" json:"day_of_week"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	Hours       int       `db:"hours" json:"hours"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// PeriodAssignment is one discrete class period derived from a ScheduleRow.
// StartTime/EndTime are the canonical display times of the period slot, not
// the raw times stored on the originating row.
type PeriodAssignment struct {
	PeriodNumber    int     `json:"period_number"`
	Session         Session `json:"session"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	Subject         string  `json:"subject"`
	TeacherName     string  `json:"teacher_name"`
	TeacherID       *string `json:"teacher_id,omitempty"`
	ClassID         string  `json:"class_id"`
	ClassName       string  `json:"class_name"`
	DayOfWeek       string  `json:"day_of_week"`
	ScheduleEntryID string  `json:"schedule_entry_id"`
}

// ClassDaySummary aggregates a teacher's periods for one class on one day.
type ClassDaySummary struct {
	ClassID   string `json:"class_id"`
	ClassName string `json:"class_name"`
	Periods   []int  `json:"periods"`
	// MarkedPeriods is reserved for attendance linkage and is always empty
	// until the attendance feed is wired in.
	MarkedPeriods []int `json:"marked_periods"`
}

// TeacherDailySchedule is the full picture of a teacher's day.
type TeacherDailySchedule struct {
	TeacherID    string             `json:"teacher_id"`
	TeacherName  string             `json:"teacher_name"`
	Date         string             `json:"date"`
	DayOfWeek    string             `json:"day_of_week"`
	TotalPeriods int                `json:"total_periods"`
	Assignments  []PeriodAssignment `json:"assignments"`
	Classes      []ClassDaySummary  `json:"classes"`
}

// ClassTeacherSummary lists a teacher active in a class on a given day.
// Grouping is by display name because legacy rows may lack a teacher id.
type ClassTeacherSummary struct {
	TeacherID   *string  `json:"teacher_id,omitempty"`
	TeacherName string   `json:"teacher_name"`
	Periods     []int    `json:"periods"`
	Subjects    []string `json:"subjects"`
}

// CacheStats is a point-in-time snapshot of the period cache counters.
type CacheStats struct {
	Hits       uint64  `json:"hits"`
	Misses     uint64  `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
	Size       int     `json:"size"`
	MaxEntries int     `json:"max_entries"`
}
