package monitoring

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/quadframe/statecoord/internal/logging"
)

// Serve exposes /metrics and /healthz on addr in a background goroutine.
func Serve(addr string, log *logging.Logger) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	go func() {
		if err := router.Run(addr); err != nil {
			log.Error("metrics endpoint stopped", zap.Error(err))
		}
	}()
	log.Info("metrics endpoint listening", zap.String("addr", addr))
}
