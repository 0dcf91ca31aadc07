package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/dayline-app/dayline/internal/interface/http"
	"github.com/dayline-app/dayline/internal/interface/middleware"
	"github.com/dayline-app/dayline/pkg/helpers"
)

// UserModule wires account routes.
// Public: POST /api/user/register, POST /api/user/login
// Protected: GET /api/user/me, PUT /api/user/profile, PUT /api/user/password
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.POST("/user/register", m.Handler.Register)
	rg.POST("/user/login", m.Handler.Login)

	auth := rg.Group("/user")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/me", m.Handler.Me)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.PUT("/password", m.Handler.ChangePassword)
	}
}
