package team

import (
	"go-taskhub/internal/config"
	"go-taskhub/internal/middleware"
	"go-taskhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type TeamApi struct {
	Controller *TeamController
	Config     *config.Config
}

func NewTeamApi(controller *TeamController, cfg *config.Config) *TeamApi {
	return &TeamApi{Controller: controller, Config: cfg}
}

func (api *TeamApi) Setup(app *fiber.App) {
	grp := app.Group("/api/teams", middleware.AuthMiddleware(api.Config.SkipAuth))
	staff := middleware.RequireRoles(api.Config.SkipAuth, utils.RoleAdmin, utils.RoleSubadmin)

	grp.Get("/", api.Controller.GetAllTeams)
	grp.Get("/:id", api.Controller.GetTeam)
	grp.Post("/", staff, api.Controller.CreateTeam)
	grp.Put("/:id", staff, api.Controller.UpdateTeam)
	grp.Delete("/:id", staff, api.Controller.DeleteTeam)
}
