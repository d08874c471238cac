// Package timetable resolves wall-clock times against the school's fixed
// two-session, six-period teaching day and expands raw schedule rows into
// discrete period assignments.
package timetable

import (
	"strconv"
	"strings"

	"github.com/MasoudAndiwal/school-office-api/internal/models"
)

// PeriodsPerSession is the number of teaching periods in each session.
const PeriodsPerSession = 6

// afternoonStartHour is the cutoff used to place a slot's session from its
// raw start hour.
const afternoonStartHour = 13

// slot is one period's window in minutes since midnight plus its canonical
// display strings.
type slot struct {
	startMin int
	endMin   int
	start    string
	end      string
}

// Periods run 40 minutes with a 15 minute break after period 3 in each
// session. Morning covers 08:30-12:45, afternoon 13:15-17:30.
var (
	morningSlots = [PeriodsPerSession]slot{
		{510, 550, "8:30 AM", "9:10 AM"},
		{550, 590, "9:10 AM", "9:50 AM"},
		{590, 630, "9:50 AM", "10:30 AM"},
		{645, 685, "10:45 AM", "11:25 AM"},
		{685, 725, "11:25 AM", "12:05 PM"},
		{725, 765, "12:05 PM", "12:45 PM"},
	}
	afternoonSlots = [PeriodsPerSession]slot{
		{795, 835, "1:15 PM", "1:55 PM"},
		{835, 875, "1:55 PM", "2:35 PM"},
		{875, 915, "2:35 PM", "3:15 PM"},
		{930, 970, "3:30 PM", "4:10 PM"},
		{970, 1010, "4:10 PM", "4:50 PM"},
		{1010, 1050, "4:50 PM", "5:30 PM"},
	}
)

// PeriodForTime maps a time of day onto a period number within its session.
// Times outside every period window, including the mid-session breaks, fall
// back to period 1. Callers depend on that fallback for legacy rows whose
// start times never aligned with the timetable; it must not be turned into
// an error.
func PeriodForTime(hour, minute int) int {
	t := hour*60 + minute
	for _, table := range [][PeriodsPerSession]slot{morningSlots, afternoonSlots} {
		for i, s := range table {
			if t >= s.startMin && t < s.endMin {
				return i + 1
			}
		}
	}
	return 1
}

// TimesForPeriod returns the canonical display times for a period in the
// given session. Unknown period numbers resolve to the session's first slot.
func TimesForPeriod(period int, session models.Session) (start, end string) {
	table := morningSlots
	if session == models.SessionAfternoon {
		table = afternoonSlots
	}
	if period < 1 || period > PeriodsPerSession {
		period = 1
	}
	s := table[period-1]
	return s.start, s.end
}

// SessionForHour places a slot in the afternoon session when its start hour
// is 13 or later. It agrees with PeriodForTime for every table-aligned
// start time.
func SessionForHour(hour int) models.Session {
	if hour >= afternoonStartHour {
		return models.SessionAfternoon
	}
	return models.SessionMorning
}

// ParseClock reads "HH:MM" or "HH:MM:SS" wall-clock strings. Malformed
// input yields midnight, which the resolver then treats via its period-1
// fallback.
func ParseClock(raw string) (hour, minute int) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 {
		return 0, 0
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0
	}
	return h, m
}
