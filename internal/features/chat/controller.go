package chat

import (
	"errors"

	"go-taskhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatController struct {
	Service ChatService
}

func NewChatController(service ChatService) *ChatController {
	return &ChatController{Service: service}
}

// SendTeamMessage godoc
func (c *ChatController) SendTeamMessage(ctx *fiber.Ctx) error {
	claims := utils.ClaimsFromCtx(ctx)
	if claims == nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	msg, err := c.Service.SendTeamMessage(ctx.UserContext(), claims, ctx.Params("teamName"), body.Text)
	if err != nil {
		return chatError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(msg)
}

// SendAdminMessage godoc
func (c *ChatController) SendAdminMessage(ctx *fiber.Ctx) error {
	claims := utils.ClaimsFromCtx(ctx)
	if claims == nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var body struct {
		Text      string `json:"text"`
		Recipient string `json:"recipient,omitempty"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var recipient *primitive.ObjectID
	if body.Recipient != "" {
		id, err := primitive.ObjectIDFromHex(body.Recipient)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid recipient ID"})
		}
		recipient = &id
	}

	msg, err := c.Service.SendAdminMessage(ctx.UserContext(), claims, recipient, body.Text)
	if err != nil {
		return chatError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(msg)
}

// EditMessage godoc
func (c *ChatController) EditMessage(ctx *fiber.Ctx) error {
	claims := utils.ClaimsFromCtx(ctx)
	if claims == nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid message ID"})
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	msg, err := c.Service.EditMessage(ctx.UserContext(), claims, id, body.Text)
	if err != nil {
		return chatError(ctx, err)
	}
	return ctx.JSON(msg)
}

// GetHistory godoc
func (c *ChatController) GetHistory(ctx *fiber.Ctx) error {
	claims := utils.ClaimsFromCtx(ctx)
	if claims == nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	room := ctx.Query("room")
	if room == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "room is required"})
	}

	messages, err := c.Service.History(ctx.UserContext(), claims, room)
	if err != nil {
		return chatError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"messages": messages})
}

func chatError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Permission denied"})
	case errors.Is(err, ErrNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Message not found"})
	default:
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
}
