package notification

import (
	"go-taskhub/internal/common/api"
	"go-taskhub/internal/config"
	"go-taskhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type NotificationApi struct {
	controller *NotificationController
	config     *config.Config
}

func NewNotificationApi(controller *NotificationController, config *config.Config) api.Route {
	return &NotificationApi{
		controller: controller,
		config:     config,
	}
}

func (h *NotificationApi) Setup(app *fiber.App) {
	group := app.Group("/api/notifications", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.List)
	group.Get("/unread-count", h.controller.GetUnreadCount)
	// read-all must be registered before the :id routes, or it would be
	// captured as an id.
	group.Put("/read-all", h.controller.MarkAllAsRead)
	group.Put("/:id/read", h.controller.MarkAsRead)
	group.Put("/:id/unread", h.controller.MarkAsUnread)
}
