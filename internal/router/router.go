package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lumosedu/lumos-api/internal/config"
	"github.com/lumosedu/lumos-api/internal/handler"
	"github.com/lumosedu/lumos-api/internal/middleware"
	"github.com/lumosedu/lumos-api/internal/models"
	"github.com/lumosedu/lumos-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	HealthHandler     *handler.HealthHandler
	CourseHandler     *handler.CourseHandler
	EnrollmentHandler *handler.EnrollmentHandler
	AssignmentHandler *handler.AssignmentHandler
	ReportHandler     *handler.ReportHandler
	MetadataHandler   *handler.MetadataHandler
	JWTMiddleware     fiber.Handler
	ReportRateLimit   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	if deps.HealthHandler != nil {
		api.Get("/health", deps.HealthHandler.Check)
	}

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	instructorOnly := middleware.RequireRole(models.RoleInstructor)
	operatorOnly := middleware.RequireRole(models.RoleOperator)

	if deps.CourseHandler != nil {
		courses := api.Group("/courses")
		courses.Get("/", deps.CourseHandler.List)
		courses.Get("/:id", deps.CourseHandler.Get)
		courses.Post("/", jwtMiddleware, instructorOnly, deps.CourseHandler.Create)
		courses.Patch("/:id", jwtMiddleware, instructorOnly, deps.CourseHandler.Update)
	}

	if deps.EnrollmentHandler != nil {
		enrollments := api.Group("/enrollments", jwtMiddleware)
		enrollments.Post("/", deps.EnrollmentHandler.Enroll)
		enrollments.Get("/my", deps.EnrollmentHandler.ListMine)
		enrollments.Patch("/:id/cancel", deps.EnrollmentHandler.Cancel)
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments", jwtMiddleware)
		assignments.Post("/submit", deps.AssignmentHandler.Submit)
		assignments.Get("/course/:courseId", deps.AssignmentHandler.ListByCourse)
		assignments.Post("/submissions/:id/grade", instructorOnly, deps.AssignmentHandler.Grade)
		assignments.Get("/:id", deps.AssignmentHandler.Get)
		assignments.Post("/", instructorOnly, deps.AssignmentHandler.Create)
		assignments.Patch("/:id/status", instructorOnly, deps.AssignmentHandler.UpdateStatus)
		assignments.Patch("/:id", instructorOnly, deps.AssignmentHandler.Update)
		assignments.Get("/:id/submissions", instructorOnly, deps.AssignmentHandler.ListSubmissions)
	}

	if deps.ReportHandler != nil {
		reports := api.Group("/reports", jwtMiddleware)

		createHandlers := []fiber.Handler{}
		if deps.ReportRateLimit != nil {
			createHandlers = append(createHandlers, deps.ReportRateLimit)
		}
		createHandlers = append(createHandlers, deps.ReportHandler.Create)
		reports.Post("/", createHandlers...)

		reports.Get("/", operatorOnly, deps.ReportHandler.List)
		reports.Get("/:id", operatorOnly, deps.ReportHandler.Get)
		reports.Patch("/:id/status", operatorOnly, deps.ReportHandler.UpdateStatus)
		reports.Post("/:id/actions", operatorOnly, deps.ReportHandler.ExecuteAction)
	}

	if deps.MetadataHandler != nil {
		metadata := api.Group("/metadata", jwtMiddleware, operatorOnly)
		metadata.Get("/:type", deps.MetadataHandler.List)
		metadata.Post("/:type", deps.MetadataHandler.Create)
		metadata.Patch("/:type/:id", deps.MetadataHandler.Update)
		metadata.Delete("/:type/:id", deps.MetadataHandler.Delete)
	}
}
