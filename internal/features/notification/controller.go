package notification

import (
	"errors"
	"strconv"

	"go-taskhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationController struct {
	service NotificationService
}

func NewNotificationController(service NotificationService) *NotificationController {
	return &NotificationController{
		service: service,
	}
}

func callerID(ctx *fiber.Ctx) (primitive.ObjectID, error) {
	claims := utils.ClaimsFromCtx(ctx)
	if claims == nil {
		return primitive.NilObjectID, fiber.ErrUnauthorized
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}

// parsePositive falls back to def on malformed or non-positive input.
func parsePositive(raw string, def int64) int64 {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// List godoc
func (c *NotificationController) List(ctx *fiber.Ctx) error {
	caller, err := callerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	page := parsePositive(ctx.Query("page", "1"), 1)
	limit := parsePositive(ctx.Query("limit", "10"), 10)
	category := ctx.Query("type")

	target := primitive.NilObjectID
	if raw := ctx.Query("userId"); raw != "" {
		target, err = primitive.ObjectIDFromHex(raw)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid userId"})
		}
	}

	result, err := c.service.List(ctx.Context(), caller, target, category, page, limit)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !result.Paged {
		return ctx.JSON(fiber.Map{"notifications": result.Items})
	}
	return ctx.JSON(fiber.Map{
		"notifications": result.Items,
		"hasMore":       result.HasMore,
		"total":         result.Total,
		"page":          result.Page,
	})
}

// GetUnreadCount godoc
func (c *NotificationController) GetUnreadCount(ctx *fiber.Ctx) error {
	caller, err := callerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	count, err := c.service.UnreadCount(ctx.Context(), caller)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"count": count})
}

// MarkAsRead godoc
func (c *NotificationController) MarkAsRead(ctx *fiber.Ctx) error {
	return c.setRead(ctx, true)
}

// MarkAsUnread godoc
func (c *NotificationController) MarkAsUnread(ctx *fiber.Ctx) error {
	return c.setRead(ctx, false)
}

func (c *NotificationController) setRead(ctx *fiber.Ctx, read bool) error {
	caller, err := callerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	id := ctx.Params("id")
	if read {
		err = c.service.MarkRead(ctx.Context(), id, caller)
	} else {
		err = c.service.MarkUnread(ctx.Context(), id, caller)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"success": true})
}

// MarkAllAsRead godoc
func (c *NotificationController) MarkAllAsRead(ctx *fiber.Ctx) error {
	caller, err := callerID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	if err := c.service.MarkAllRead(ctx.Context(), caller); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"success": true})
}
