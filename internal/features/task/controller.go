package task

import (
	"go-taskhub/internal/features/notification"
	"go-taskhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskController struct {
	Service TaskService
	Export  ExportService
}

func NewTaskController(service TaskService, export ExportService) *TaskController {
	return &TaskController{Service: service, Export: export}
}

func actorFromCtx(ctx *fiber.Ctx) (notification.Actor, error) {
	claims := utils.ClaimsFromCtx(ctx)
	if claims == nil {
		return notification.Actor{}, fiber.ErrUnauthorized
	}
	return notification.ActorFromClaims(claims)
}

func filterFromQuery(ctx *fiber.Ctx) TaskFilter {
	filter := TaskFilter{
		Team:    ctx.Query("team"),
		Project: ctx.Query("project"),
		Status:  ctx.Query("status"),
	}
	if raw := ctx.Query("assignee"); raw != "" {
		if id, err := primitive.ObjectIDFromHex(raw); err == nil {
			filter.Assignee = &id
		}
	}
	return filter
}

// CreateTask godoc
func (c *TaskController) CreateTask(ctx *fiber.Ctx) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var t Task
	if err := ctx.BodyParser(&t); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.CreateTask(ctx.UserContext(), actor, &t); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(t)
}

// ListTasks godoc
func (c *TaskController) ListTasks(ctx *fiber.Ctx) error {
	tasks, err := c.Service.ListTasks(ctx.UserContext(), filterFromQuery(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(tasks)
}

// GetTask godoc
func (c *TaskController) GetTask(ctx *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	t, err := c.Service.GetTaskByID(ctx.UserContext(), id)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}
	return ctx.JSON(t)
}

// UpdateTask godoc
func (c *TaskController) UpdateTask(ctx *fiber.Ctx) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var t Task
	if err := ctx.BodyParser(&t); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdateTask(ctx.UserContext(), actor, id, &t); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(t)
}

// UpdateStatus godoc
func (c *TaskController) UpdateStatus(ctx *fiber.Ctx) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	t, err := c.Service.UpdateStatus(ctx.UserContext(), actor, id, body.Status)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(t)
}

// DeleteTask godoc
func (c *TaskController) DeleteTask(ctx *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	if err := c.Service.DeleteTask(ctx.UserContext(), id); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"success": true})
}

// ExportTasks godoc
func (c *TaskController) ExportTasks(ctx *fiber.Ctx) error {
	data, filename, err := c.Export.ExportTasks(ctx.UserContext(), filterFromQuery(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", "attachment; filename="+filename)
	return ctx.Send(data)
}
