package controllers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
)

func SetupHealthRoutes(se *core.ServeEvent) {
	se.Router.GET("/health", func(e *core.RequestEvent) error {
		HealthCheck(e)
		return nil
	})
}

// @Summary Health Check Endpoint
// @Schemes
// @Description Simple endpoint to check if the API is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "healthy"
// @Router /health [get]
func HealthCheck(e *core.RequestEvent) {
	e.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
