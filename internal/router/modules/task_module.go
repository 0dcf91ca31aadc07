package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/dayline-app/dayline/internal/interface/http"
	"github.com/dayline-app/dayline/internal/interface/middleware"
	"github.com/dayline-app/dayline/pkg/helpers"
)

// TaskModule wires task routes, all behind the bearer gate.
type TaskModule struct {
	Handler *handlers.TaskHandler
	JWT     *helpers.JWTManager
}

func NewTaskModule(h *handlers.TaskHandler, jwt *helpers.JWTManager) *TaskModule {
	return &TaskModule{Handler: h, JWT: jwt}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	tasks.Use(middleware.Auth(m.JWT))
	{
		tasks.GET("", m.Handler.List)
		tasks.POST("", m.Handler.Create)
		tasks.GET("/search", m.Handler.Search)
		tasks.PUT("/:id", m.Handler.Update)
		tasks.DELETE("/:id", m.Handler.Delete)
	}
}
