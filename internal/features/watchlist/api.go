package watchlist

import (
	"go-taskhub/internal/common/api"
	"go-taskhub/internal/config"
	"go-taskhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type WatchlistApi struct {
	controller *WatchlistController
	config     *config.Config
}

func NewWatchlistApi(controller *WatchlistController, config *config.Config) api.Route {
	return &WatchlistApi{
		controller: controller,
		config:     config,
	}
}

func (h *WatchlistApi) Setup(app *fiber.App) {
	group := app.Group("/api/watchlist", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/my-settings", h.controller.MySettings)
	group.Put("/update", h.controller.Update)
	group.Get("/i-can-watch", h.controller.ICanWatch)
}
