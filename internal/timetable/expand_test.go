package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasoudAndiwal/school-office-api/internal/models"
)

func scheduleRow(start string, hours int) models.ScheduleRow {
	teacherID := "teacher-1"
	return models.ScheduleRow{
		ID:          "entry-1",
		TeacherID:   &teacherID,
		TeacherName: "Teacher A",
		ClassID:     "class-1",
		ClassName:   "Grade 10-A",
		Subject:     "Math",
		DayOfWeek:   "Monday",
		StartTime:   start,
		Hours:       hours,
	}
}

func TestExpandMorningThreeHours(t *testing.T) {
	assignments := Expand(scheduleRow("08:30", 3))
	require.Len(t, assignments, 3)

	wantTimes := [][2]string{
		{"8:30 AM", "9:10 AM"},
		{"9:10 AM", "9:50 AM"},
		{"9:50 AM", "10:30 AM"},
	}
	for i, a := range assignments {
		assert.Equal(t, i+1, a.PeriodNumber)
		assert.Equal(t, models.SessionMorning, a.Session)
		assert.Equal(t, wantTimes[i][0], a.StartTime)
		assert.Equal(t, wantTimes[i][1], a.EndTime)
		assert.Equal(t, "Math", a.Subject)
		assert.Equal(t, "entry-1", a.ScheduleEntryID)
		assert.Equal(t, "monday", a.DayOfWeek)
	}
}

func TestExpandAfternoonSlot(t *testing.T) {
	// 15:30 is afternoon period 4, not period 7 of a flat eight-period day.
	assignments := Expand(scheduleRow("15:30", 1))
	require.Len(t, assignments, 1)
	assert.Equal(t, 4, assignments[0].PeriodNumber)
	assert.Equal(t, models.SessionAfternoon, assignments[0].Session)
	assert.Equal(t, "3:30 PM", assignments[0].StartTime)
	assert.Equal(t, "4:10 PM", assignments[0].EndTime)
}

func TestExpandTruncatesAtPeriodSix(t *testing.T) {
	// Period 5 start with 4 hours overflows: only periods 5 and 6 survive.
	assignments := Expand(scheduleRow("11:25", 4))
	require.Len(t, assignments, 2)
	assert.Equal(t, 5, assignments[0].PeriodNumber)
	assert.Equal(t, 6, assignments[1].PeriodNumber)
}

func TestExpandConsecutivePeriods(t *testing.T) {
	for startPeriod := 1; startPeriod <= PeriodsPerSession; startPeriod++ {
		for hours := 1; startPeriod+hours-1 <= PeriodsPerSession; hours++ {
			starts := []string{"08:30", "09:10", "09:50", "10:45", "11:25", "12:05"}
			assignments := Expand(scheduleRow(starts[startPeriod-1], hours))
			require.Len(t, assignments, hours)
			for i, a := range assignments {
				assert.Equal(t, startPeriod+i, a.PeriodNumber)
			}
		}
	}
}

func TestExpandDefaultsToOneHour(t *testing.T) {
	assignments := Expand(scheduleRow("09:10", 0))
	require.Len(t, assignments, 1)
	assert.Equal(t, 2, assignments[0].PeriodNumber)
}

func TestExpandUnalignedStartFallsBack(t *testing.T) {
	// Rows whose start time misses every period window land on period 1 of
	// their session. Legacy data relies on this.
	assignments := Expand(scheduleRow("07:45", 2))
	require.Len(t, assignments, 2)
	assert.Equal(t, 1, assignments[0].PeriodNumber)
	assert.Equal(t, 2, assignments[1].PeriodNumber)
	assert.Equal(t, models.SessionMorning, assignments[0].Session)
}

func TestExpandClampsCorruptHours(t *testing.T) {
	// A corrupt row claiming absurd hours still yields at most a full
	// session, without looping over the stored value.
	assignments := Expand(scheduleRow("08:30", 1<<20))
	require.Len(t, assignments, PeriodsPerSession)
	assert.Equal(t, 1, assignments[0].PeriodNumber)
	assert.Equal(t, PeriodsPerSession, assignments[len(assignments)-1].PeriodNumber)

	assert.Equal(t, []int{5, 6}, PeriodSpan(scheduleRow("11:25", 1<<20)))
}

func TestPeriodSpan(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, PeriodSpan(scheduleRow("08:30", 3)))
	assert.Equal(t, []int{5, 6}, PeriodSpan(scheduleRow("11:25", 4)))
	assert.Equal(t, []int{4}, PeriodSpan(scheduleRow("15:30", 0)))
}
