package handler

import "github.com/gin-gonic/gin"

// Routes bundles the handlers participating in the API surface.
type Routes struct {
	Periods    *PeriodHandler
	Schedules  *ScheduleHandler
	CacheAdmin *CacheAdminHandler
	Metrics    *MetricsHandler
}

// Register mounts all routes under the given prefix.
func (r Routes) Register(engine *gin.Engine, prefix string) {
	engine.GET("/health", r.Metrics.Health)
	engine.GET("/ready", r.Metrics.Health)
	engine.GET("/metrics", r.Metrics.Prometheus)

	api := engine.Group(prefix)

	api.GET("/teachers/:id/classes/:classId/periods", r.Periods.TeacherClassPeriods)
	api.GET("/teachers/:id/periods/:period/access", r.Periods.TeacherPeriodAccess)
	api.GET("/teachers/:id/daily-schedule", r.Periods.TeacherDailySchedule)
	api.GET("/classes/:id/teachers", r.Periods.ClassTeachers)

	api.POST("/schedules", r.Schedules.Create)
	api.PUT("/schedules/:id", r.Schedules.Update)
	api.DELETE("/schedules/:id", r.Schedules.Delete)

	api.POST("/period-cache/invalidate", r.CacheAdmin.Invalidate)
	api.POST("/period-cache/preload", r.CacheAdmin.Preload)
	api.POST("/period-cache/cleanup", r.CacheAdmin.Cleanup)
	api.GET("/period-cache/stats", r.CacheAdmin.Stats)
	api.POST("/period-cache/stats/reset", r.CacheAdmin.ResetStats)
	api.DELETE("/period-cache", r.CacheAdmin.Clear)
}
