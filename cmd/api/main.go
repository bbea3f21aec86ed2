package main

import (
	"context"
	"fmt"
	common_api "go-taskhub/internal/common/api"
	"go-taskhub/internal/config"
	"go-taskhub/internal/database"
	"go-taskhub/internal/features/chat"
	"go-taskhub/internal/features/notification"
	"go-taskhub/internal/features/project"
	"go-taskhub/internal/features/system"
	"go-taskhub/internal/features/task"
	"go-taskhub/internal/features/team"
	"go-taskhub/internal/features/user"
	"go-taskhub/internal/features/watchlist"
	"go-taskhub/internal/logger"
	"go-taskhub/internal/metrics"
	"go-taskhub/internal/middleware"
	"go-taskhub/internal/realtime"
	"go-taskhub/pkg/utils"
	"log"

	_ "go-taskhub/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Use custom CORS middleware
	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for i, route := range routes {
		log.Printf("Setting up route %d: %T\n", i+1, route)
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// @title           TaskHub API
// @version         1.0
// @description     Task management backend with realtime notifications.

// @host            localhost:8080
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Metrics & realtime bus
			metrics.NewMetrics,
			realtime.NewBus,
			realtime.NewAuthorizer,

			// Initialize Repository
			user.NewUserRepository,
			notification.NewNotificationRepository,
			watchlist.NewWatchlistRepository,
			team.NewTeamRepository,
			task.NewTaskRepository,
			project.NewProjectRepository,
			chat.NewChatRepository,

			user.NewUserService,
			watchlist.NewWatchlistService,
			notification.NewNotificationService,
			notification.NewReminderService,
			team.NewTeamService,
			task.NewTaskService,
			task.NewExportService,
			project.NewProjectService,
			chat.NewChatService,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(r user.UserRepository) notification.UserDirectory { return r },
			func(r user.UserRepository) watchlist.UserFinder { return r },
			func(r user.UserRepository) realtime.MembershipSource { return r },
			func(r user.UserRepository) chat.ProfileFinder { return r },
			func(s notification.NotificationService) notification.Notifier { return s },

			// Initialize Controller
			user.NewUserController,
			notification.NewNotificationController,
			watchlist.NewWatchlistController,
			team.NewTeamController,
			task.NewTaskController,
			project.NewProjectController,
			chat.NewChatController,
			system.NewWebSocketController,

			// Initialize API Routes
			AsRoute(user.NewUserApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(watchlist.NewWatchlistApi),
			AsRoute(team.NewTeamApi),
			AsRoute(task.NewTaskApi),
			AsRoute(project.NewProjectApi),
			AsRoute(chat.NewChatApi),
			AsRoute(system.NewWebSocketApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewMetricsApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, reminder *notification.ReminderService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return reminder.Start()
					},
					OnStop: func(ctx context.Context) error {
						return reminder.Stop()
					},
				})
			},
		),
	)

	app.Run()
}
