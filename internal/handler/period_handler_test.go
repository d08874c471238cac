package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasoudAndiwal/school-office-api/internal/models"
	appErrors "github.com/MasoudAndiwal/school-office-api/pkg/errors"
	"github.com/MasoudAndiwal/school-office-api/pkg/response"
)

type periodServiceMock struct {
	periods     []models.PeriodAssignment
	periodsErr  error
	allowed     bool
	daily       *models.TeacherDailySchedule
	dailyErr    error
	teachers    []models.ClassTeacherSummary
	teachersErr error

	lastTeacherID string
	lastClassID   string
	lastDay       string
	lastPeriod    int
	lastDate      time.Time
}

func (m *periodServiceMock) GetTeacherPeriods(ctx context.Context, teacherID, classID, dayOfWeek string) ([]models.PeriodAssignment, error) {
	m.lastTeacherID, m.lastClassID, m.lastDay = teacherID, classID, dayOfWeek
	return m.periods, m.periodsErr
}

func (m *periodServiceMock) ValidateTeacherPeriodAccess(ctx context.Context, teacherID, classID string, periodNumber int, dayOfWeek string) bool {
	m.lastTeacherID, m.lastClassID, m.lastDay, m.lastPeriod = teacherID, classID, dayOfWeek, periodNumber
	return m.allowed
}

func (m *periodServiceMock) GetTeacherDailySchedule(ctx context.Context, teacherID string, date time.Time) (*models.TeacherDailySchedule, error) {
	m.lastTeacherID, m.lastDate = teacherID, date
	return m.daily, m.dailyErr
}

func (m *periodServiceMock) GetClassTeachers(ctx context.Context, classID, dayOfWeek string) ([]models.ClassTeacherSummary, error) {
	m.lastClassID, m.lastDay = classID, dayOfWeek
	return m.teachers, m.teachersErr
}

func performRequest(h gin.HandlerFunc, method, target string, params gin.Params) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, nil)
	c.Request = req
	c.Params = params
	h(c)
	// Status-only responses stay buffered until gin's request loop flushes
	// them; a directly invoked handler has to flush explicitly.
	c.Writer.WriteHeaderNow()
	return w
}

func TestPeriodHandlerTeacherClassPeriods(t *testing.T) {
	mockSvc := &periodServiceMock{
		periods: []models.PeriodAssignment{{PeriodNumber: 1, Session: models.SessionMorning}},
	}
	h := NewPeriodHandler(mockSvc)

	w := performRequest(h.TeacherClassPeriods, http.MethodGet, "/teachers/t1/classes/c1/periods?day=monday",
		gin.Params{{Key: "id", Value: "t1"}, {Key: "classId", Value: "c1"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "t1", mockSvc.lastTeacherID)
	assert.Equal(t, "c1", mockSvc.lastClassID)
	assert.Equal(t, "monday", mockSvc.lastDay)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Error)
}

func TestPeriodHandlerTeacherClassPeriodsError(t *testing.T) {
	mockSvc := &periodServiceMock{periodsErr: appErrors.Clone(appErrors.ErrInternal, "db down")}
	h := NewPeriodHandler(mockSvc)

	w := performRequest(h.TeacherClassPeriods, http.MethodGet, "/teachers/t1/classes/c1/periods?day=monday",
		gin.Params{{Key: "id", Value: "t1"}, {Key: "classId", Value: "c1"}})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPeriodHandlerTeacherPeriodAccess(t *testing.T) {
	mockSvc := &periodServiceMock{allowed: true}
	h := NewPeriodHandler(mockSvc)

	w := performRequest(h.TeacherPeriodAccess, http.MethodGet, "/teachers/t1/periods/3/access?classId=c1&day=monday",
		gin.Params{{Key: "id", Value: "t1"}, {Key: "period", Value: "3"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, mockSvc.lastPeriod)

	var envelope struct {
		Data struct {
			Allowed bool `json:"allowed"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Allowed)
}

func TestPeriodHandlerTeacherPeriodAccessBadPeriod(t *testing.T) {
	h := NewPeriodHandler(&periodServiceMock{})

	w := performRequest(h.TeacherPeriodAccess, http.MethodGet, "/teachers/t1/periods/x/access",
		gin.Params{{Key: "id", Value: "t1"}, {Key: "period", Value: "x"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPeriodHandlerTeacherDailySchedule(t *testing.T) {
	mockSvc := &periodServiceMock{daily: &models.TeacherDailySchedule{TeacherID: "t1", DayOfWeek: "monday"}}
	h := NewPeriodHandler(mockSvc)

	w := performRequest(h.TeacherDailySchedule, http.MethodGet, "/teachers/t1/daily-schedule?date=2025-03-10",
		gin.Params{{Key: "id", Value: "t1"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), mockSvc.lastDate)
}

func TestPeriodHandlerTeacherDailyScheduleBadDate(t *testing.T) {
	h := NewPeriodHandler(&periodServiceMock{})

	w := performRequest(h.TeacherDailySchedule, http.MethodGet, "/teachers/t1/daily-schedule?date=10-03-2025",
		gin.Params{{Key: "id", Value: "t1"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPeriodHandlerClassTeachers(t *testing.T) {
	mockSvc := &periodServiceMock{teachers: []models.ClassTeacherSummary{{TeacherName: "Teacher A"}}}
	h := NewPeriodHandler(mockSvc)

	w := performRequest(h.ClassTeachers, http.MethodGet, "/classes/c1/teachers?day=friday",
		gin.Params{{Key: "id", Value: "c1"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "c1", mockSvc.lastClassID)
	assert.Equal(t, "friday", mockSvc.lastDay)
}
