package user

import (
	"go-taskhub/internal/common/api"
	"go-taskhub/internal/config"
	"go-taskhub/internal/middleware"
	"go-taskhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	config     *config.Config
}

func NewUserApi(controller *UserController, config *config.Config) api.Route {
	return &UserApi{
		controller: controller,
		config:     config,
	}
}

func (h *UserApi) Setup(app *fiber.App) {
	app.Post("/api/auth/login", h.controller.Login)

	group := app.Group("/api/users", middleware.AuthMiddleware(h.config.SkipAuth))
	group.Get("/me", h.controller.Me)
	group.Get("/", middleware.RequireRoles(h.config.SkipAuth, utils.RoleAdmin, utils.RoleSubadmin), h.controller.List)
	group.Post("/", middleware.RequireRoles(h.config.SkipAuth, utils.RoleAdmin), h.controller.Register)
}
