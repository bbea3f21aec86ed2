package watchlist

import (
	"go-taskhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WatchlistController struct {
	service WatchlistService
}

func NewWatchlistController(service WatchlistService) *WatchlistController {
	return &WatchlistController{service: service}
}

func callerID(ctx *fiber.Ctx) (primitive.ObjectID, error) {
	claims := utils.ClaimsFromCtx(ctx)
	if claims == nil {
		return primitive.NilObjectID, fiber.ErrUnauthorized
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}

func (c *WatchlistController) MySettings(ctx *fiber.Ctx) error {
	owner, err := callerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	watchers, err := c.service.GetMySettings(ctx.Context(), owner)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"watchers": watchers})
}

type updateRequest struct {
	Watchers []WatcherInput `json:"watchers"`
}

func (c *WatchlistController) Update(ctx *fiber.Ctx) error {
	owner, err := callerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req updateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.UpdateWatchers(ctx.Context(), owner, req.Watchers); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"success": true})
}

func (c *WatchlistController) ICanWatch(ctx *fiber.Ctx) error {
	viewer, err := callerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	grants, err := c.service.ListWatchableOwners(ctx.Context(), viewer)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"canWatch": grants})
}
