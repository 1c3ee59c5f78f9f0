package controllers

import (
	"strconv"

	"mckeeper/internal/config"
	"mckeeper/internal/models"

	"github.com/gin-gonic/gin"
)

// @Summary List tunnel agents
// @Description Return running tunnel agents and the endpoints scraped from their output
// @Tags Tunnel
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /mckeeper/api/v1/tunnels [get]
func (a *APIController) ListTunnels(c *gin.Context) {
	c.JSON(200, gin.H{
		"agents":    a.tunnels.List(),
		"endpoints": a.tunnels.Endpoints(),
	})
}

// @Summary Start a tunnel agent
// @Description Launch a tunnel agent exposing the server port
// @Tags Tunnel
// @Produce json
// @Param service path string true "Tunnel service (ngrok/playit/zrok)"
// @Param port query int false "Local port, default the configured server port"
// @Success 200 {object} models.OperationResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /mckeeper/api/v1/tunnels/{service}/start [post]
func (a *APIController) StartTunnel(c *gin.Context) {
	port := config.Config.Minecraft.Port
	if raw := c.Query("port"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			port = parsed
		}
	}

	service := c.Param("service")
	if err := a.tunnels.StartTunnel(service, port); err != nil {
		c.JSON(500, models.ErrorResponse{Code: "tunnel.start_failed", Message: err.Error()})
		return
	}
	c.JSON(200, models.OperationResponse{Status: "success", Message: "Tunnel agent started"})
}

// @Summary Stop a tunnel agent
// @Tags Tunnel
// @Produce json
// @Param service path string true "Tunnel service (ngrok/playit/zrok)"
// @Success 200 {object} models.OperationResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /mckeeper/api/v1/tunnels/{service}/stop [post]
func (a *APIController) StopTunnel(c *gin.Context) {
	if err := a.tunnels.StopTunnel(c.Param("service")); err != nil {
		c.JSON(404, models.ErrorResponse{Code: "tunnel.not_running", Message: err.Error()})
		return
	}
	c.JSON(200, models.OperationResponse{Status: "success", Message: "Tunnel agent stopped"})
}
