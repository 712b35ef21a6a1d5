package handler

import (
	"context"
	"net/http"
	"time"

	"tiendapos/internal/infra"
	"tiendapos/internal/sincro"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Redis down means the station cannot operate; a dead remote DB only degrades
// to offline mode, so it never fails the check by itself.
func Health(db *gorm.DB, rdb *redis.Client, engine *sincro.Engine, bucketCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		status := http.StatusOK
		if redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":     status == http.StatusOK,
			"db":     dbStatus,
			"redis":  redisStatus,
			"online": engine.Online(),
			"bucket": bucketCB.State().String(),
		})
	}
}
