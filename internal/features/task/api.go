package task

import (
	"go-taskhub/internal/config"
	"go-taskhub/internal/middleware"
	"go-taskhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type TaskApi struct {
	Controller *TaskController
	Config     *config.Config
}

func NewTaskApi(controller *TaskController, cfg *config.Config) *TaskApi {
	return &TaskApi{Controller: controller, Config: cfg}
}

func (api *TaskApi) Setup(app *fiber.App) {
	grp := app.Group("/api/tasks", middleware.AuthMiddleware(api.Config.SkipAuth))
	staff := middleware.RequireRoles(api.Config.SkipAuth, utils.RoleAdmin, utils.RoleSubadmin)

	grp.Get("/", api.Controller.ListTasks)
	grp.Get("/export", staff, api.Controller.ExportTasks)
	grp.Get("/:id", api.Controller.GetTask)
	grp.Post("/", staff, api.Controller.CreateTask)
	grp.Put("/:id", staff, api.Controller.UpdateTask)
	grp.Put("/:id/status", api.Controller.UpdateStatus)
	grp.Delete("/:id", staff, api.Controller.DeleteTask)
}
