package controllers

import (
	"os"
	"time"

	"mckeeper/internal/config"
	"mckeeper/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type APIController struct {
	supervisor *services.Supervisor
	tunnels    *services.TunnelManager
	startedAt  time.Time
}

/**
 * Create new API controller instance
 * @param {*services.Supervisor} supervisor - Server process supervisor
 * @param {*services.TunnelManager} tunnels - Tunnel agent manager
 * @returns {*APIController} New API controller instance
 */
func NewAPIController(supervisor *services.Supervisor, tunnels *services.TunnelManager) *APIController {
	return &APIController{
		supervisor: supervisor,
		tunnels:    tunnels,
		startedAt:  time.Now(),
	}
}

/**
 * Register all API routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 * @description
 * - Registers server lifecycle routes, tunnel routes, config reload,
 *   the health probe and the Prometheus metrics endpoint
 */
func (a *APIController) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/mckeeper/api/v1")
	{
		v1.GET("/server/status", a.Status)
		v1.POST("/server/start", a.StartServer)
		v1.POST("/server/stop", a.StopServer)
		v1.POST("/server/restart", a.RestartServer)
		v1.POST("/server/command", a.SendCommand)
		v1.GET("/server/logs", a.Logs)

		v1.GET("/tunnels", a.ListTunnels)
		v1.POST("/tunnels/:service/start", a.StartTunnel)
		v1.POST("/tunnels/:service/stop", a.StopTunnel)

		v1.POST("/reload", a.ReloadConfig)
	}
	r.GET("/healthz", a.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// @Summary Reload configuration
// @Description Re-read the configuration file from disk
// @Tags Config
// @Success 200 {object} models.OperationResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /mckeeper/api/v1/reload [post]
func (a *APIController) ReloadConfig(c *gin.Context) {
	if err := config.ReloadConfig(); err != nil {
		c.JSON(500, gin.H{
			"code":    "config.reload_failed",
			"message": "Failed to reload configuration: " + err.Error(),
		})
		return
	}

	c.JSON(200, gin.H{
		"status":  "success",
		"message": "Configuration reloaded successfully",
	})
}

// @Summary Liveness probe
// @Description Report daemon health, uptime, and the supervised server state
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /healthz [get]
func (a *APIController) Healthz(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
		"pid":    os.Getpid(),
		"uptime": int64(time.Since(a.startedAt).Seconds()),
		"server": string(a.supervisor.State()),
	})
}
