package router

import (
	"github.com/dayline-app/dayline/internal/application"
	"github.com/dayline-app/dayline/internal/container"
	pginfra "github.com/dayline-app/dayline/internal/infrastructure/postgres"
	handlers "github.com/dayline-app/dayline/internal/interface/http"
	"github.com/dayline-app/dayline/internal/router/modules"
)

// InitModules wires repositories, services and handlers from the container
// singletons and registers every feature module. Called once at startup.
func InitModules(r *Registry) {
	logger := container.GetLogger()
	jwt := container.GetJWT()
	pool := container.GetPGPool()

	userRepo := pginfra.NewUserRepository(pool)
	userSvc := application.NewUserService(userRepo, jwt, container.GetRedis(), logger)
	userHandler := handlers.NewUserHandler(userSvc, logger)

	taskRepo := pginfra.NewTaskRepository(pool)
	taskSvc := application.NewTaskService(taskRepo, container.GetES(), container.GetConfig().ESTasksIndex, logger)
	taskHandler := handlers.NewTaskHandler(taskSvc, logger)

	r.Add(modules.NewUserModule(userHandler, jwt))
	r.Add(modules.NewTaskModule(taskHandler, jwt))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
