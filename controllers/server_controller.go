package controllers

import (
	"errors"
	"strconv"

	"mckeeper/internal/config"
	"mckeeper/internal/models"
	"mckeeper/services"

	"github.com/gin-gonic/gin"
)

// @Summary Get server status
// @Description Return the lifecycle state, resource usage and tunnel endpoints of the supervised server
// @Tags Server
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Router /mckeeper/api/v1/server/status [get]
func (a *APIController) Status(c *gin.Context) {
	c.JSON(200, a.supervisor.Status())
}

// @Summary Start the server
// @Description Launch the server process and wait until it reports ready
// @Tags Server
// @Produce json
// @Success 200 {object} models.OperationResponse
// @Failure 409 {object} models.ErrorResponse "Server already running"
// @Failure 500 {object} models.ErrorResponse
// @Router /mckeeper/api/v1/server/start [post]
func (a *APIController) StartServer(c *gin.Context) {
	spec, err := services.BuildLaunchSpec(config.Config.Minecraft.Dir)
	if err != nil {
		c.JSON(500, models.ErrorResponse{Code: "server.spec_failed", Message: err.Error()})
		return
	}
	if err := a.supervisor.SetLaunchSpec(spec); err != nil {
		c.JSON(409, models.ErrorResponse{Code: "server.already_running", Message: err.Error()})
		return
	}

	if err := a.supervisor.Start(c.Request.Context()); err != nil {
		c.JSON(startErrorCode(err), models.ErrorResponse{Code: startErrorName(err), Message: err.Error()})
		return
	}
	c.JSON(200, models.OperationResponse{Status: "success", Message: "Server is ready"})
}

func startErrorCode(err error) int {
	if errors.Is(err, services.ErrAlreadyRunning) {
		return 409
	}
	return 500
}

func startErrorName(err error) string {
	switch {
	case errors.Is(err, services.ErrAlreadyRunning):
		return "server.already_running"
	case errors.Is(err, services.ErrMissingArtifact):
		return "server.missing_artifact"
	case errors.Is(err, services.ErrBindFailure):
		return "server.bind_failure"
	case errors.Is(err, services.ErrStartTimeout):
		return "server.start_timeout"
	case errors.Is(err, services.ErrServerExited):
		return "server.exited"
	}
	return "server.start_failed"
}

// @Summary Stop the server
// @Description Ask the server to stop, escalating to terminate and kill if it does not comply
// @Tags Server
// @Produce json
// @Success 200 {object} models.OperationResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /mckeeper/api/v1/server/stop [post]
func (a *APIController) StopServer(c *gin.Context) {
	if err := a.supervisor.Stop(c.Request.Context()); err != nil {
		c.JSON(500, models.ErrorResponse{Code: "server.stop_failed", Message: err.Error()})
		return
	}
	c.JSON(200, models.OperationResponse{Status: "success", Message: "Server stopped"})
}

// @Summary Restart the server
// @Description Stop the server, wait for the port to free up, and start it again
// @Tags Server
// @Produce json
// @Success 200 {object} models.OperationResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /mckeeper/api/v1/server/restart [post]
func (a *APIController) RestartServer(c *gin.Context) {
	if err := a.supervisor.Restart(c.Request.Context()); err != nil {
		c.JSON(startErrorCode(err), models.ErrorResponse{Code: startErrorName(err), Message: err.Error()})
		return
	}
	c.JSON(200, models.OperationResponse{Status: "success", Message: "Server restarted"})
}

// @Summary Send a console command
// @Description Write a command to the server console
// @Tags Server
// @Accept json
// @Produce json
// @Param request body models.CommandRequest true "Console command"
// @Success 200 {object} models.OperationResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Server not running"
// @Router /mckeeper/api/v1/server/command [post]
func (a *APIController) SendCommand(c *gin.Context) {
	var req models.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Command == "" {
		c.JSON(400, models.ErrorResponse{Code: "server.bad_command", Message: "command is required"})
		return
	}
	if err := a.supervisor.SendCommand(req.Command); err != nil {
		c.JSON(409, models.ErrorResponse{Code: "server.not_running", Message: err.Error()})
		return
	}
	c.JSON(200, models.OperationResponse{Status: "success", Message: "Command sent"})
}

// @Summary Get console logs
// @Description Return the newest buffered console lines, oldest first
// @Tags Server
// @Produce json
// @Param lines query int false "Number of lines, default all buffered"
// @Success 200 {object} map[string]interface{}
// @Router /mckeeper/api/v1/server/logs [get]
func (a *APIController) Logs(c *gin.Context) {
	n := 0
	if raw := c.Query("lines"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			n = parsed
		}
	}
	lines := a.supervisor.Logs(n)
	c.JSON(200, gin.H{"lines": lines, "count": len(lines)})
}
