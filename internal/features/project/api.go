package project

import (
	"go-taskhub/internal/config"
	"go-taskhub/internal/middleware"
	"go-taskhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type ProjectApi struct {
	Controller *ProjectController
	Config     *config.Config
}

func NewProjectApi(controller *ProjectController, cfg *config.Config) *ProjectApi {
	return &ProjectApi{Controller: controller, Config: cfg}
}

func (api *ProjectApi) Setup(app *fiber.App) {
	grp := app.Group("/api/projects", middleware.AuthMiddleware(api.Config.SkipAuth))
	staff := middleware.RequireRoles(api.Config.SkipAuth, utils.RoleAdmin, utils.RoleSubadmin)

	grp.Get("/", api.Controller.ListProjects)
	grp.Get("/:slug", api.Controller.GetProject)
	grp.Post("/", staff, api.Controller.CreateProject)
	grp.Put("/:id", staff, api.Controller.UpdateProject)
	grp.Delete("/:id", staff, api.Controller.DeleteProject)
}
