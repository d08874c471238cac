package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MasoudAndiwal/school-office-api/internal/models"
	appErrors "github.com/MasoudAndiwal/school-office-api/pkg/errors"
	"github.com/MasoudAndiwal/school-office-api/pkg/response"
)

type periodService interface {
	GetTeacherPeriods(ctx context.Context, teacherID, classID, dayOfWeek string) ([]models.PeriodAssignment, error)
	ValidateTeacherPeriodAccess(ctx context.Context, teacherID, classID string, periodNumber int, dayOfWeek string) bool
	GetTeacherDailySchedule(ctx context.Context, teacherID string, date time.Time) (*models.TeacherDailySchedule, error)
	GetClassTeachers(ctx context.Context, classID, dayOfWeek string) ([]models.ClassTeacherSummary, error)
}

// PeriodHandler serves the period-assignment read endpoints.
type PeriodHandler struct {
	service periodService
}

// NewPeriodHandler constructs handler.
func NewPeriodHandler(svc periodService) *PeriodHandler {
	return &PeriodHandler{service: svc}
}

// TeacherClassPeriods godoc
// @Summary Periods for a teacher in a class on a day
// @Tags Periods
// @Produce json
// @Param id path string true "Teacher ID"
// @Param classId path string true "Class ID"
// @Param day query string true "Day of week (lowercase)"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/classes/{classId}/periods [get]
func (h *PeriodHandler) TeacherClassPeriods(c *gin.Context) {
	assignments, err := h.service.GetTeacherPeriods(c.Request.Context(), c.Param("id"), c.Param("classId"), c.Query("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments)
}

// TeacherPeriodAccess godoc
// @Summary Check whether a teacher may mark a period
// @Tags Periods
// @Produce json
// @Param id path string true "Teacher ID"
// @Param period path int true "Period number"
// @Param classId query string true "Class ID"
// @Param day query string true "Day of week"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/periods/{period}/access [get]
func (h *PeriodHandler) TeacherPeriodAccess(c *gin.Context) {
	period, err := strconv.Atoi(c.Param("period"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "period must be a number"))
		return
	}
	allowed := h.service.ValidateTeacherPeriodAccess(c.Request.Context(), c.Param("id"), c.Query("classId"), period, c.Query("day"))
	response.JSON(c, http.StatusOK, gin.H{"allowed": allowed})
}

// TeacherDailySchedule godoc
// @Summary A teacher's full schedule for one date
// @Tags Periods
// @Produce json
// @Param id path string true "Teacher ID"
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/daily-schedule [get]
func (h *PeriodHandler) TeacherDailySchedule(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	schedule, err := h.service.GetTeacherDailySchedule(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule)
}

// ClassTeachers godoc
// @Summary Teachers active in a class on a day
// @Tags Periods
// @Produce json
// @Param id path string true "Class ID"
// @Param day query string true "Day of week"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/teachers [get]
func (h *PeriodHandler) ClassTeachers(c *gin.Context) {
	summaries, err := h.service.GetClassTeachers(c.Request.Context(), c.Param("id"), c.Query("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries)
}
