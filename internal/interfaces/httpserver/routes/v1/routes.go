package v1

import (
	"github.com/gin-gonic/gin"

	"chatlist-server/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches all v1 routes under /v1 prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")

	group.POST("/dispatch", r.handlers.Dispatch.Dispatch)

	group.POST("/enhance", r.handlers.Enhance.Enhance)
	group.GET("/enhancements", r.handlers.Enhance.List)
	group.GET("/enhancements/:id", r.handlers.Enhance.Get)
	group.DELETE("/enhancements/:id", r.handlers.Enhance.Delete)

	group.GET("/models", r.handlers.Models.List)
	group.POST("/models", r.handlers.Models.Create)
	group.GET("/models/:id", r.handlers.Models.Get)
	group.PUT("/models/:id", r.handlers.Models.Update)
	group.DELETE("/models/:id", r.handlers.Models.Delete)
	group.POST("/models/:id/toggle", r.handlers.Models.Toggle)

	group.GET("/prompts", r.handlers.Prompts.List)
	group.POST("/prompts", r.handlers.Prompts.Create)
	group.GET("/prompts/:id", r.handlers.Prompts.Get)
	group.PUT("/prompts/:id", r.handlers.Prompts.Update)
	group.DELETE("/prompts/:id", r.handlers.Prompts.Delete)
	group.POST("/prompts/:id/favorite", r.handlers.Prompts.ToggleFavorite)
	group.GET("/prompts/:id/results", r.handlers.Prompts.Results)

	group.GET("/results", r.handlers.Results.List)
	group.GET("/results/:id", r.handlers.Results.Get)
	group.DELETE("/results/:id", r.handlers.Results.Delete)

	group.GET("/settings", r.handlers.Settings.List)
	group.GET("/settings/:key", r.handlers.Settings.Get)
	group.PUT("/settings/:key", r.handlers.Settings.Put)
	group.DELETE("/settings/:key", r.handlers.Settings.Delete)
}
