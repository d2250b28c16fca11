package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// Check 健康检查
// @Summary 健康检查
// @Description 检查数据库与 Redis 连通性
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (ctrl *HealthController) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"status": "ok"}
	healthy := true

	sqlDB, err := ctrl.DB.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		status["database"] = "down"
		healthy = false
	} else {
		status["database"] = "up"
	}

	if ctrl.Redis != nil {
		if err := ctrl.Redis.Ping(ctx).Err(); err != nil {
			status["redis"] = "down"
			healthy = false
		} else {
			status["redis"] = "up"
		}
	}

	if !healthy {
		status["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	c.JSON(http.StatusOK, status)
}
