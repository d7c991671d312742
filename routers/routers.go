// Package routers assembles the fiber application from the per-area route packages.
package routers

import (
	authController "lingo/controllers/auth"
	courseController "lingo/controllers/course"
	learnController "lingo/controllers/learn"
	shopController "lingo/controllers/shop"
	"lingo/learning"
	"lingo/logger"
	"lingo/middleware"
	"lingo/repositories"
	"lingo/routers/authRoutes"
	"lingo/routers/courseRoutes"
	"lingo/routers/learnRoutes"
	"lingo/routers/shopRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
)

type Deps struct {
	Learning     *learning.Service
	Users        repositories.UserRepo
	SaltRound    int
	AllowOrigins string
	AccessLog    bool
	Log          *logger.Logger
}

func NewApp(deps Deps) *fiber.App {
	app := fiber.New()

	allowOrigins := deps.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST",
		AllowHeaders: "Content-Type,Authorization,Idempotency-Key",
	}))

	if deps.AccessLog {
		app.Use(fiberLogger.New(fiberLogger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	app.Use(middleware.RequestScope)

	authRoutes.SetupAuthRoutes(app, authController.New(deps.Users, deps.SaltRound, deps.Log))
	courseRoutes.SetupCourseRoutes(app, courseController.New(deps.Learning))
	learnRoutes.SetupLearnRoutes(app, learnController.New(deps.Learning))
	shopRoutes.SetupShopRoutes(app, shopController.New(deps.Learning))

	return app
}
