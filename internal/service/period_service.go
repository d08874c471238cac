package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MasoudAndiwal/school-office-api/internal/cache"
	"github.com/MasoudAndiwal/school-office-api/internal/models"
	"github.com/MasoudAndiwal/school-office-api/internal/timetable"
	appErrors "github.com/MasoudAndiwal/school-office-api/pkg/errors"
)

type scheduleRowSource interface {
	ListForClassDay(ctx context.Context, classID, dayOfWeek, teacherID string) ([]models.ScheduleRow, error)
	ListForTeacherDay(ctx context.Context, teacherID, dayOfWeek string) ([]models.ScheduleRow, error)
}

type teacherReader interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// SharedCache abstracts the optional cross-process cache for daily-schedule
// payloads.
type SharedCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// Sunday-first weekday names, matching time.Weekday's numbering.
var weekdayNames = [...]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

const dailyScheduleKeyPrefix = "daily-schedule:"

// PeriodAssignmentService resolves schedule rows into period assignments,
// caching the results per (teacher, class, day).
type PeriodAssignmentService struct {
	rows      scheduleRowSource
	teachers  teacherReader
	periods   *cache.PeriodCache
	shared    SharedCache
	sharedTTL time.Duration
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewPeriodAssignmentService creates a service instance. shared may be nil
// when no cross-process cache is configured.
func NewPeriodAssignmentService(
	rows scheduleRowSource,
	teachers teacherReader,
	periods *cache.PeriodCache,
	shared SharedCache,
	sharedTTL time.Duration,
	metrics *MetricsService,
	logger *zap.Logger,
) *PeriodAssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sharedTTL <= 0 {
		sharedTTL = 5 * time.Minute
	}
	return &PeriodAssignmentService{
		rows:      rows,
		teachers:  teachers,
		periods:   periods,
		shared:    shared,
		sharedTTL: sharedTTL,
		metrics:   metrics,
		logger:    logger,
	}
}

// GetTeacherPeriods returns the teacher's period assignments for a class on
// a day. Missing arguments yield an empty list rather than an error, so
// callers treat "bad input" and "no periods" identically.
func (s *PeriodAssignmentService) GetTeacherPeriods(ctx context.Context, teacherID, classID, dayOfWeek string) ([]models.PeriodAssignment, error) {
	if teacherID == "" || classID == "" || dayOfWeek == "" {
		return []models.PeriodAssignment{}, nil
	}
	day := strings.ToLower(dayOfWeek)

	start := time.Now()
	if cached, ok := s.periods.Get(teacherID, classID, day); ok {
		s.metrics.RecordCacheOperation(true, time.Since(start))
		return cached, nil
	}
	s.metrics.RecordCacheOperation(false, time.Since(start))

	rows, err := s.rows.ListForClassDay(ctx, classID, day, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
	}

	assignments := make([]models.PeriodAssignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, timetable.Expand(row)...)
	}
	sort.SliceStable(assignments, func(i, j int) bool {
		return assignments[i].PeriodNumber < assignments[j].PeriodNumber
	})

	s.periods.Put(teacherID, classID, day, assignments)
	return assignments, nil
}

// ValidateTeacherPeriodAccess reports whether the teacher holds the given
// period for the class/day. It is a yes/no gate: every underlying failure
// maps to false, never to an error.
func (s *PeriodAssignmentService) ValidateTeacherPeriodAccess(ctx context.Context, teacherID, classID string, periodNumber int, dayOfWeek string) bool {
	assignments, err := s.GetTeacherPeriods(ctx, teacherID, classID, dayOfWeek)
	if err != nil {
		s.logger.Warn("period access check failed",
			zap.String("teacher_id", teacherID),
			zap.String("class_id", classID),
			zap.Int("period", periodNumber),
			zap.Error(err))
		return false
	}
	for _, a := range assignments {
		if a.PeriodNumber == periodNumber {
			return true
		}
	}
	return false
}

// GetTeacherDailySchedule assembles the full picture of a teacher's day
// across all classes, grouped per class.
func (s *PeriodAssignmentService) GetTeacherDailySchedule(ctx context.Context, teacherID string, date time.Time) (*models.TeacherDailySchedule, error) {
	dateStr := date.Format("2006-01-02")
	day := weekdayNames[int(date.Weekday())]

	teacher, err := s.teachers.FindByID(ctx, teacherID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	sharedKey := dailyScheduleKeyPrefix + teacherID + ":" + dateStr
	if s.shared != nil {
		var cached models.TeacherDailySchedule
		cacheErr := s.shared.Get(ctx, sharedKey, &cached)
		if cacheErr == nil {
			return &cached, nil
		}
		if !errors.Is(cacheErr, appErrors.ErrCacheMiss) {
			s.logger.Warn("daily schedule cache get failed", zap.String("key", sharedKey), zap.Error(cacheErr))
		}
	}

	rows, err := s.rows.ListForTeacherDay(ctx, teacherID, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
	}

	assignments := make([]models.PeriodAssignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, timetable.Expand(row)...)
	}
	sort.SliceStable(assignments, func(i, j int) bool {
		if assignments[i].PeriodNumber != assignments[j].PeriodNumber {
			return assignments[i].PeriodNumber < assignments[j].PeriodNumber
		}
		return assignments[i].ClassID < assignments[j].ClassID
	})

	schedule := &models.TeacherDailySchedule{
		TeacherID:    teacher.ID,
		TeacherName:  teacher.FullName,
		Date:         dateStr,
		DayOfWeek:    day,
		TotalPeriods: len(assignments),
		Assignments:  assignments,
		Classes:      groupByClass(assignments),
	}

	if s.shared != nil {
		if cacheErr := s.shared.Set(ctx, sharedKey, schedule, s.sharedTTL); cacheErr != nil {
			s.logger.Warn("daily schedule cache set failed", zap.String("key", sharedKey), zap.Error(cacheErr))
		}
	}
	return schedule, nil
}

// GetClassTeachers lists every teacher active in a class on a day with the
// periods and subjects they cover. Rows group by display name because
// legacy entries may carry no teacher id.
func (s *PeriodAssignmentService) GetClassTeachers(ctx context.Context, classID, dayOfWeek string) ([]models.ClassTeacherSummary, error) {
	if classID == "" || dayOfWeek == "" {
		return []models.ClassTeacherSummary{}, nil
	}
	day := strings.ToLower(dayOfWeek)

	rows, err := s.rows.ListForClassDay(ctx, classID, day, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
	}

	order := make([]string, 0)
	byName := make(map[string]*models.ClassTeacherSummary)
	periodSets := make(map[string]map[int]struct{})
	subjectSets := make(map[string]map[string]struct{})

	for _, row := range rows {
		summary, ok := byName[row.TeacherName]
		if !ok {
			summary = &models.ClassTeacherSummary{
				TeacherID:   row.TeacherID,
				TeacherName: row.TeacherName,
			}
			byName[row.TeacherName] = summary
			periodSets[row.TeacherName] = make(map[int]struct{})
			subjectSets[row.TeacherName] = make(map[string]struct{})
			order = append(order, row.TeacherName)
		}
		for _, period := range timetable.PeriodSpan(row) {
			periodSets[row.TeacherName][period] = struct{}{}
		}
		if row.Subject != "" {
			subjectSets[row.TeacherName][row.Subject] = struct{}{}
		}
	}

	summaries := make([]models.ClassTeacherSummary, 0, len(order))
	for _, name := range order {
		summary := byName[name]
		summary.Periods = sortedInts(periodSets[name])
		summary.Subjects = sortedStrings(subjectSets[name])
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// ClearCache removes one precise entry when all three components are given,
// otherwise everything.
func (s *PeriodAssignmentService) ClearCache(teacherID, classID, dayOfWeek string) {
	if teacherID != "" && classID != "" && dayOfWeek != "" {
		s.periods.Delete(teacherID, classID, dayOfWeek)
		return
	}
	s.periods.Clear()
}

// CleanupExpiredEntries sweeps expired cache entries and returns the count
// removed.
func (s *PeriodAssignmentService) CleanupExpiredEntries() int {
	return s.periods.CleanupExpired()
}

// InvalidateScheduleCache drops cached entries matching any of the given
// filters. Schedule mutation paths must call this after a successful write;
// the cache holds no subscription to the data store.
func (s *PeriodAssignmentService) InvalidateScheduleCache(ctx context.Context, classID, teacherID, dayOfWeek string) int {
	removed := s.periods.InvalidateMatching(classID, teacherID, dayOfWeek)

	if s.shared != nil {
		pattern := dailyScheduleKeyPrefix + "*"
		if teacherID != "" {
			pattern = dailyScheduleKeyPrefix + teacherID + ":*"
		}
		if err := s.shared.DeleteByPattern(ctx, pattern); err != nil {
			s.logger.Warn("daily schedule cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		}
	}
	return removed
}

// PreloadCache warms the cache for the cross product of the given teachers,
// classes and days. Individual failures are logged and skipped; the batch
// itself never fails. Returns the number of combinations loaded.
func (s *PeriodAssignmentService) PreloadCache(ctx context.Context, teacherIDs, classIDs, days []string) int {
	loaded := 0
	for _, teacherID := range teacherIDs {
		for _, classID := range classIDs {
			for _, day := range days {
				if _, err := s.GetTeacherPeriods(ctx, teacherID, classID, day); err != nil {
					s.logger.Warn("period cache preload failed",
						zap.String("teacher_id", teacherID),
						zap.String("class_id", classID),
						zap.String("day", day),
						zap.Error(err))
					continue
				}
				loaded++
			}
		}
	}
	s.logger.Sugar().Infow("period cache preloaded", "combinations", loaded)
	return loaded
}

// CacheStats snapshots the period cache counters.
func (s *PeriodAssignmentService) CacheStats() models.CacheStats {
	return s.periods.Stats()
}

// ResetCacheStats zeroes the hit/miss counters.
func (s *PeriodAssignmentService) ResetCacheStats() {
	s.periods.ResetStats()
}

// Close stops the cache's background sweep. Must run on shutdown so
// repeated construction in tests or reloads does not leak goroutines.
func (s *PeriodAssignmentService) Close() {
	s.periods.StopSweep()
}

func groupByClass(assignments []models.PeriodAssignment) []models.ClassDaySummary {
	order := make([]string, 0)
	periods := make(map[string]map[int]struct{})
	names := make(map[string]string)

	for _, a := range assignments {
		if _, ok := periods[a.ClassID]; !ok {
			periods[a.ClassID] = make(map[int]struct{})
			names[a.ClassID] = a.ClassName
			order = append(order, a.ClassID)
		}
		periods[a.ClassID][a.PeriodNumber] = struct{}{}
	}

	summaries := make([]models.ClassDaySummary, 0, len(order))
	for _, classID := range order {
		summaries = append(summaries, models.ClassDaySummary{
			ClassID:   classID,
			ClassName: names[classID],
			Periods:   sortedInts(periods[classID]),
			// Attendance linkage is not wired yet; marked periods stay
			// empty.
			MarkedPeriods: []int{},
		})
	}
	return summaries
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
