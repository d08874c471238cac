package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MasoudAndiwal/school-office-api/internal/models"
)

const scheduleColumns = "id, teacher_id, teacher_name, class_id, class_name, subject, day_of_week, start_time, end_time, hours, created_at, updated_at"

// ScheduleRepository provides persistence for recurring schedule rows.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListForClassDay returns rows for a class on a day, optionally narrowed to
// one teacher. Day matching is case-insensitive.
func (r *ScheduleRepository) ListForClassDay(ctx context.Context, classID, dayOfWeek, teacherID string) ([]models.ScheduleRow, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_entries WHERE class_id = $1 AND LOWER(day_of_week) = LOWER($2)", scheduleColumns)
	args := []interface{}{classID, dayOfWeek}
	if teacherID != "" {
		query += " AND teacher_id = $3"
		args = append(args, teacherID)
	}
	query += " ORDER BY start_time ASC"

	var rows []models.ScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list schedule entries for class/day: %w", err)
	}
	return rows, nil
}

// ListForTeacherDay returns rows taught by a teacher on a day across all
// classes.
func (r *ScheduleRepository) ListForTeacherDay(ctx context.Context, teacherID, dayOfWeek string) ([]models.ScheduleRow, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_entries WHERE teacher_id = $1 AND LOWER(day_of_week) = LOWER($2) ORDER BY class_id ASC, start_time ASC", scheduleColumns)
	var rows []models.ScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, teacherID, dayOfWeek); err != nil {
		return nil, fmt.Errorf("list schedule entries for teacher/day: %w", err)
	}
	return rows, nil
}

// FindByID loads one schedule row.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.ScheduleRow, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_entries WHERE id = $1", scheduleColumns)
	var row models.ScheduleRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// Create stores a new schedule row.
func (r *ScheduleRepository) Create(ctx context.Context, row *models.ScheduleRow) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	const query = `INSERT INTO schedule_entries (id, teacher_id, teacher_name, class_id, class_name, subject, day_of_week, start_time, end_time, hours, created_at, updated_at) VALUES (:id, :teacher_id, :teacher_name, :class_id, :class_name, :subject, :day_of_week, :start_time, :end_time, :hours, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create schedule entry: %w", err)
	}
	return nil
}

// Update modifies a schedule row.
func (r *ScheduleRepository) Update(ctx context.Context, row *models.ScheduleRow) error {
	row.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedule_entries SET teacher_id = :teacher_id, teacher_name = :teacher_name, class_id = :class_id, class_name = :class_name, subject = :subject, day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time, hours = :hours, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("update schedule entry: %w", err)
	}
	return nil
}

// Delete removes a schedule row by id.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	return nil
}
