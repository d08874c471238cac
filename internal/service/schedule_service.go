package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MasoudAndiwal/school-office-api/internal/models"
	appErrors "github.com/MasoudAndiwal/school-office-api/pkg/errors"
)

type scheduleWriter interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleRow, error)
	Create(ctx context.Context, row *models.ScheduleRow) error
	Update(ctx context.Context, row *models.ScheduleRow) error
	Delete(ctx context.Context, id string) error
}

type periodCacheInvalidator interface {
	InvalidateScheduleCache(ctx context.Context, classID, teacherID, dayOfWeek string) int
}

// CreateScheduleRequest describes a new recurring slot.
type CreateScheduleRequest struct {
	TeacherID   *string `json:"teacher_id"`
	TeacherName string  `json:"teacher_name" validate:"required"`
	ClassID     string  `json:"class_id" validate:"required"`
	ClassName   string  `json:"class_name" validate:"required"`
	Subject     string  `json:"subject" validate:"required"`
	DayOfWeek   string  `json:"day_of_week" validate:"required,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	StartTime   string  `json:"start_time" validate:"required"`
	EndTime     string  `json:"end_time" validate:"required"`
	Hours       int     `json:"hours" validate:"omitempty,min=1,max=6"`
}

// UpdateScheduleRequest mirrors the create payload for full updates.
type UpdateScheduleRequest = CreateScheduleRequest

// ScheduleService handles schedule mutations. Every successful write
// invalidates the period cache for the touched class, teacher and day.
type ScheduleService struct {
	schedules scheduleWriter
	cache     periodCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService creates a service instance.
func NewScheduleService(schedules scheduleWriter, cache periodCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{schedules: schedules, cache: cache, validator: validate, logger: logger}
}

// Create stores a new schedule row.
func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleRequest) (*models.ScheduleRow, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	row := &models.ScheduleRow{
		TeacherID:   req.TeacherID,
		TeacherName: req.TeacherName,
		ClassID:     req.ClassID,
		ClassName:   req.ClassName,
		Subject:     req.Subject,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Hours:       req.Hours,
	}
	if err := s.schedules.Create(ctx, row); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule entry")
	}

	s.invalidate(ctx, row)
	return row, nil
}

// Update replaces a schedule row, invalidating cache entries for both the
// previous and the new class/teacher/day if they differ.
func (s *ScheduleService) Update(ctx context.Context, id string, req UpdateScheduleRequest) (*models.ScheduleRow, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	existing, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}

	row := &models.ScheduleRow{
		ID:          existing.ID,
		TeacherID:   req.TeacherID,
		TeacherName: req.TeacherName,
		ClassID:     req.ClassID,
		ClassName:   req.ClassName,
		Subject:     req.Subject,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Hours:       req.Hours,
		CreatedAt:   existing.CreatedAt,
	}
	if err := s.schedules.Update(ctx, row); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule entry")
	}

	s.invalidate(ctx, existing)
	if existing.ClassID != row.ClassID || existing.DayOfWeek != row.DayOfWeek || teacherIDValue(existing.TeacherID) != teacherIDValue(row.TeacherID) {
		s.invalidate(ctx, row)
	}
	return row, nil
}

// Delete removes a schedule row.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	existing, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}
	if err := s.schedules.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule entry")
	}

	s.invalidate(ctx, existing)
	return nil
}

func (s *ScheduleService) invalidate(ctx context.Context, row *models.ScheduleRow) {
	if s.cache == nil {
		return
	}
	removed := s.cache.InvalidateScheduleCache(ctx, row.ClassID, teacherIDValue(row.TeacherID), row.DayOfWeek)
	s.logger.Sugar().Debugw("invalidated period cache after schedule write",
		"class_id", row.ClassID, "day", row.DayOfWeek, "removed", removed)
}

func teacherIDValue(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}
