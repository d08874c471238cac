package timetable

import (
	"strings"

	"github.com/MasoudAndiwal/school-office-api/internal/models"
)

// Expand converts one schedule row into its per-period assignments. A row
// occupying N hours yields up to N consecutive assignments starting at the
// resolved start period; candidates past the session's last period are
// dropped rather than wrapped.
func Expand(row models.ScheduleRow) []models.PeriodAssignment {
	hours := clampHours(row.Hours)

	hour, minute := ParseClock(row.StartTime)
	session := SessionForHour(hour)
	startPeriod := PeriodForTime(hour, minute)

	assignments := make([]models.PeriodAssignment, 0, hours)
	for i := 0; i < hours; i++ {
		period := startPeriod + i
		if period < 1 || period > PeriodsPerSession {
			continue
		}
		start, end := TimesForPeriod(period, session)
		assignments = append(assignments, models.PeriodAssignment{
			PeriodNumber:    period,
			Session:         session,
			StartTime:       start,
			EndTime:         end,
			Subject:         row.Subject,
			TeacherName:     row.TeacherName,
			TeacherID:       row.TeacherID,
			ClassID:         row.ClassID,
			ClassName:       row.ClassName,
			DayOfWeek:       strings.ToLower(row.DayOfWeek),
			ScheduleEntryID: row.ID,
		})
	}
	return assignments
}

// PeriodSpan returns only the period numbers a row covers, without building
// full assignments. The class-teachers view aggregates on this.
func PeriodSpan(row models.ScheduleRow) []int {
	hours := clampHours(row.Hours)

	hour, minute := ParseClock(row.StartTime)
	startPeriod := PeriodForTime(hour, minute)

	periods := make([]int, 0, hours)
	for i := 0; i < hours; i++ {
		period := startPeriod + i
		if period < 1 || period > PeriodsPerSession {
			continue
		}
		periods = append(periods, period)
	}
	return periods
}

// clampHours bounds the stored hour count to what a session can hold. A row
// never survives past the last period, so larger values only inflate the
// loop and the preallocation.
func clampHours(hours int) int {
	if hours <= 0 {
		return 1
	}
	if hours > PeriodsPerSession {
		return PeriodsPerSession
	}
	return hours
}
