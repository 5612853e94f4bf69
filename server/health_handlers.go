package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/10srav/tasksaver/model"
)

type healthReport struct {
	Status       string         `json:"status"`
	Timestamp    time.Time      `json:"timestamp"`
	Uptime       string         `json:"uptime"`
	ResponseTime string         `json:"responseTime"`
	Database     databaseHealth `json:"database"`
	Memory       memoryHealth   `json:"memory"`
}

type databaseHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type memoryHealth struct {
	UsedMB  uint64 `json:"used"`
	TotalMB uint64 `json:"total"`
}

// getHealth reports store connectivity and process metrics. It stays outside
// the auth group so load balancers can probe it.
func (s *Server) getHealth(c echo.Context) error {
	start := time.Now()

	dbHealth := databaseHealth{Status: "connected"}
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		dbHealth = databaseHealth{Status: "disconnected", Error: err.Error()}
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	report := healthReport{
		Status:       "healthy",
		Timestamp:    time.Now().UTC(),
		Uptime:       time.Since(s.started).Round(time.Second).String(),
		ResponseTime: time.Since(start).String(),
		Database:     dbHealth,
		Memory: memoryHealth{
			UsedMB:  mem.HeapAlloc / 1024 / 1024,
			TotalMB: mem.HeapSys / 1024 / 1024,
		},
	}

	status := http.StatusOK
	if dbHealth.Status != "connected" {
		report.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, report)
}

// getTestDB is a diagnostic-only connection probe with per-collection counts.
func (s *Server) getTestDB(c echo.Context) error {
	ctx := c.Request().Context()

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   "Database connection failed: " + err.Error(),
		})
	}

	counts := map[string]int64{}
	for name, m := range map[string]interface{}{
		"users":    &model.User{},
		"tasks":    &model.Task{},
		"events":   &model.Event{},
		"messages": &model.Message{},
	} {
		var n int64
		if err := s.db.WithContext(ctx).Model(m).Count(&n).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, Response{
				Success: false,
				Error:   "Count failed for " + name + ": " + err.Error(),
			})
		}
		counts[name] = n
	}

	return ok(c, counts)
}
