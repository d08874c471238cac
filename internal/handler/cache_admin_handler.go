package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MasoudAndiwal/school-office-api/internal/models"
	appErrors "github.com/MasoudAndiwal/school-office-api/pkg/errors"
	"github.com/MasoudAndiwal/school-office-api/pkg/response"
)

type cacheAdminService interface {
	InvalidateScheduleCache(ctx context.Context, classID, teacherID, dayOfWeek string) int
	PreloadCache(ctx context.Context, teacherIDs, classIDs, days []string) int
	CleanupExpiredEntries() int
	ClearCache(teacherID, classID, dayOfWeek string)
	CacheStats() models.CacheStats
	ResetCacheStats()
}

// InvalidateCacheRequest carries the optional invalidation filters. Multiple
// filters match as alternatives, not conjunctions.
type InvalidateCacheRequest struct {
	ClassID   string `json:"class_id"`
	TeacherID string `json:"teacher_id"`
	DayOfWeek string `json:"day_of_week"`
}

// PreloadCacheRequest is the cross-product warm-up payload.
type PreloadCacheRequest struct {
	TeacherIDs []string `json:"teacher_ids" binding:"required,min=1"`
	ClassIDs   []string `json:"class_ids" binding:"required,min=1"`
	Days       []string `json:"days" binding:"required,min=1"`
}

// CacheAdminHandler exposes the cache maintenance endpoints.
type CacheAdminHandler struct {
	service cacheAdminService
}

// NewCacheAdminHandler constructs handler.
func NewCacheAdminHandler(svc cacheAdminService) *CacheAdminHandler {
	return &CacheAdminHandler{service: svc}
}

// Invalidate godoc
// @Summary Invalidate period cache entries matching any filter
// @Tags PeriodCache
// @Accept json
// @Produce json
// @Param payload body InvalidateCacheRequest false "Filters (OR semantics)"
// @Success 200 {object} response.Envelope
// @Router /period-cache/invalidate [post]
func (h *CacheAdminHandler) Invalidate(c *gin.Context) {
	var req InvalidateCacheRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	removed := h.service.InvalidateScheduleCache(c.Request.Context(), req.ClassID, req.TeacherID, req.DayOfWeek)
	response.JSON(c, http.StatusOK, gin.H{"removed": removed})
}

// Preload godoc
// @Summary Warm the period cache for teacher/class/day combinations
// @Tags PeriodCache
// @Accept json
// @Produce json
// @Param payload body PreloadCacheRequest true "Combinations to warm"
// @Success 200 {object} response.Envelope
// @Router /period-cache/preload [post]
func (h *CacheAdminHandler) Preload(c *gin.Context) {
	var req PreloadCacheRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	loaded := h.service.PreloadCache(c.Request.Context(), req.TeacherIDs, req.ClassIDs, req.Days)
	response.JSON(c, http.StatusOK, gin.H{"loaded": loaded})
}

// Cleanup godoc
// @Summary Remove expired period cache entries
// @Tags PeriodCache
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /period-cache/cleanup [post]
func (h *CacheAdminHandler) Cleanup(c *gin.Context) {
	removed := h.service.CleanupExpiredEntries()
	response.JSON(c, http.StatusOK, gin.H{"removed": removed})
}

// Clear godoc
// @Summary Clear the period cache, fully or for one exact key
// @Tags PeriodCache
// @Produce json
// @Param teacherId query string false "Teacher ID"
// @Param classId query string false "Class ID"
// @Param day query string false "Day of week"
// @Success 204
// @Router /period-cache [delete]
func (h *CacheAdminHandler) Clear(c *gin.Context) {
	h.service.ClearCache(c.Query("teacherId"), c.Query("classId"), c.Query("day"))
	response.NoContent(c)
}

// Stats godoc
// @Summary Period cache counters
// @Tags PeriodCache
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /period-cache/stats [get]
func (h *CacheAdminHandler) Stats(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.CacheStats())
}

// ResetStats godoc
// @Summary Zero the period cache counters
// @Tags PeriodCache
// @Produce json
// @Success 204
// @Router /period-cache/stats/reset [post]
func (h *CacheAdminHandler) ResetStats(c *gin.Context) {
	h.service.ResetCacheStats()
	response.NoContent(c)
}
