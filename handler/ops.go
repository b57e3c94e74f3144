package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Ops 健康检查与指标
type Ops struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func (o *Ops) RegisterRouter(r gin.IRouter) {
	r.GET("/healthz", o.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (o *Ops) Health(c *gin.Context) {
	ctx := c.Request.Context()
	status := gin.H{"mysql": "ok", "redis": "ok"}
	code := http.StatusOK

	sqlDB, err := o.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		status["mysql"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	if err := o.Redis.Ping(ctx).Err(); err != nil {
		status["redis"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
