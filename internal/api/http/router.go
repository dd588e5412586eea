package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/user-service/internal/api/http/handlers"
	"github.com/campus-kit/user-service/internal/auth"
	"github.com/campus-kit/user-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Students *handlers.StudentsHandler
	Teachers *handlers.TeachersHandler
	Gate     *auth.Gate
}

// RegisterRoutes wires HTTP routes. The authentication gate runs on every
// request; routes that require an identity add explicit guards.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Gate.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/validate-token", cfg.Auth.ValidateToken)
	authGroup.Post("/validate-token/:role", cfg.Auth.ValidateTokenRole)

	studentGroup := app.Group("/student")
	studentGroup.Get("/me", auth.RequireRole(string(domain.RoleStudent)), cfg.Students.Me)
	studentGroup.Patch("/me", auth.RequireRole(string(domain.RoleStudent)), cfg.Students.PatchMe)
	studentGroup.Post("/ids", auth.RequireIdentity(), cfg.Students.IDs)
	studentGroup.Post("/:id/points", auth.RequireIdentity(), cfg.Students.AddPoints)

	teacherGroup := app.Group("/teacher")
	teacherGroup.Get("/me", auth.RequireRole(string(domain.RoleTeacher)), cfg.Teachers.Me)
	teacherGroup.Patch("/me", auth.RequireRole(string(domain.RoleTeacher)), cfg.Teachers.PatchMe)
}
