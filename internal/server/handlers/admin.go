package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"gorm.io/gorm"

	"github.com/cinelog/cinelog/internal/database"
)

// AdminHandler serves service administration endpoints.
type AdminHandler struct {
	db        *gorm.DB
	startedAt time.Time
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db, startedAt: time.Now()}
}

// Health handles GET /health, reporting database reachability.
func (h *AdminHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Status handles GET /admin/status (staff only), reporting catalog counts
// and host resource usage.
func (h *AdminHandler) Status(c *gin.Context) {
	var movieCount, reviewCount, userCount int64
	h.db.Model(&database.Movie{}).Count(&movieCount)
	h.db.Model(&database.Review{}).Count(&reviewCount)
	h.db.Model(&database.User{}).Count(&userCount)

	system := gin.H{"goroutines": runtime.NumGoroutine()}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		system["cpu_percent"] = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		system["memory_percent"] = vm.UsedPercent
	}
	if du, err := disk.Usage("/"); err == nil {
		system["disk_percent"] = du.UsedPercent
	}

	c.JSON(http.StatusOK, gin.H{
		"uptime": time.Since(h.startedAt).String(),
		"counts": gin.H{
			"movies":  movieCount,
			"reviews": reviewCount,
			"users":   userCount,
		},
		"system": system,
	})
}
