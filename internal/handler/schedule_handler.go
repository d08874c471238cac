package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MasoudAndiwal/school-office-api/internal/models"
	"github.com/MasoudAndiwal/school-office-api/internal/service"
	appErrors "github.com/MasoudAndiwal/school-office-api/pkg/errors"
	"github.com/MasoudAndiwal/school-office-api/pkg/response"
)

type scheduleMutator interface {
	Create(ctx context.Context, req service.CreateScheduleRequest) (*models.ScheduleRow, error)
	Update(ctx context.Context, id string, req service.UpdateScheduleRequest) (*models.ScheduleRow, error)
	Delete(ctx context.Context, id string) error
}

// ScheduleHandler manages schedule mutation endpoints.
type ScheduleHandler struct {
	service scheduleMutator
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc scheduleMutator) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Create godoc
// @Summary Create schedule entry
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body service.CreateScheduleRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	row, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, row)
}

// Update godoc
// @Summary Update schedule entry
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule entry ID"
// @Param payload body service.UpdateScheduleRequest true "Schedule payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req service.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	row, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, row)
}

// Delete godoc
// @Summary Delete schedule entry
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule entry ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
