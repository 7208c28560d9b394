// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"ridesim/internal/http/handlers"
	"ridesim/internal/http/middleware"
)

func NewRouter(logger *log.Logger, runs handlers.RunService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.Logging(logger))

	simulationHandler := handlers.NewSimulationHandler(runs)
	api := r.Group("/api")
	api.POST("/simulations", simulationHandler.Create)
	api.GET("/simulations", simulationHandler.List)
	api.GET("/simulations/:id", simulationHandler.Get)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	return r
}
