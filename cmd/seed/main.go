package main

import (
	"context"

	"go-taskhub/internal/config"
	"go-taskhub/internal/database"
	"go-taskhub/internal/features/team"
	"go-taskhub/internal/features/user"
	"go-taskhub/internal/logger"
	"go-taskhub/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

type seedUser struct {
	name     string
	email    string
	password string
	role     string
	teams    []string
}

var seedUsers = []seedUser{
	{"Admin", "admin@taskhub.local", "admin123", utils.RoleAdmin, nil},
	{"Sam Subadmin", "sam@taskhub.local", "sam123", utils.RoleSubadmin, []string{"alpha"}},
	{"Mia Employee", "mia@taskhub.local", "mia123", utils.RoleEmployee, []string{"alpha"}},
	{"Eve Employee", "eve@taskhub.local", "eve123", utils.RoleEmployee, []string{"alpha"}},
}

// Seed creates a demo admin, a coordinated team and a few employees so a
// fresh database is immediately usable.
func Seed(
	lc fx.Lifecycle,
	users user.UserService,
	userRepo user.UserRepository,
	teams team.TeamRepository,
	log *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						log.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				log.Info("Seeding database...")

				byEmail := map[string]primitive.ObjectID{}
				for _, s := range seedUsers {
					if existing, err := userRepo.FindByEmail(context.Background(), s.email); err == nil && existing != nil {
						log.Info("user exists, skipping", zap.String("email", s.email))
						byEmail[s.email] = existing.ID
						continue
					}
					u := &user.User{Name: s.name, Email: s.email, Role: s.role, Teams: s.teams}
					if err := users.Register(context.Background(), u, s.password); err != nil {
						log.Error("failed to seed user", zap.String("email", s.email), zap.Error(err))
						continue
					}
					byEmail[s.email] = u.ID
					log.Info("seeded user", zap.String("email", s.email), zap.String("role", s.role))
				}

				if _, err := teams.FindByName(context.Background(), "alpha"); err != nil {
					t := &team.Team{
						Name:     "alpha",
						Project:  "onboarding",
						Subadmin: byEmail["sam@taskhub.local"],
						Members: []primitive.ObjectID{
							byEmail["mia@taskhub.local"],
							byEmail["eve@taskhub.local"],
						},
					}
					if err := teams.Create(context.Background(), t); err != nil {
						log.Error("failed to seed team", zap.Error(err))
					} else {
						log.Info("seeded team", zap.String("name", t.Name))
					}
				}

				log.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			user.NewUserRepository,
			user.NewUserService,
			team.NewTeamRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
