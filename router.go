package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"orders-api/controllers"
	"orders-api/middlewares"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

func newRouter(db pinger, ctl *controllers.Controller, logger *log.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestID(), middlewares.Logger(logger))
	r.Use(middlewares.PrometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	ctl.RegisterRoutes(r)
	return r
}
