package chat

import (
	"go-taskhub/internal/config"
	"go-taskhub/internal/middleware"
	"go-taskhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type ChatApi struct {
	Controller *ChatController
	Config     *config.Config
}

func NewChatApi(controller *ChatController, cfg *config.Config) *ChatApi {
	return &ChatApi{Controller: controller, Config: cfg}
}

func (api *ChatApi) Setup(app *fiber.App) {
	grp := app.Group("/api/chat", middleware.AuthMiddleware(api.Config.SkipAuth))
	staff := middleware.RequireRoles(api.Config.SkipAuth, utils.RoleAdmin, utils.RoleSubadmin)

	grp.Get("/history", api.Controller.GetHistory)
	grp.Post("/team/:teamName", api.Controller.SendTeamMessage)
	grp.Post("/admin", staff, api.Controller.SendAdminMessage)
	grp.Put("/message/:id", api.Controller.EditMessage)
}
