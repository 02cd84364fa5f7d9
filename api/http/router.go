package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zhiyanlab/research-match/api/http/handlers"
	"github.com/zhiyanlab/research-match/pkg/auth"
	"github.com/zhiyanlab/research-match/pkg/security/jwt"
)

// Register wires all HTTP routes onto the given Fiber app.
func Register(
	app *fiber.App,
	authH *handlers.AuthHandler,
	healthH *handlers.HealthHandler,
	profileH *handlers.ProfileHandler,
	projectH *handlers.ProjectHandler,
	applicationH *handlers.ApplicationHandler,
	aiH *handlers.AIHandler,
	authMW fiber.Handler,
) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", healthH.Health)
	v1.Get("/ready", healthH.Ready)

	a := v1.Group("/auth")
	a.Post("/register", authH.Register)
	a.Post("/login", authH.Login)

	studentOnly := jwt.RequireRole(auth.RoleStudent)
	teacherOnly := jwt.RequireRole(auth.RoleTeacher, auth.RoleAdmin)

	p := v1.Group("/profile", authMW)
	p.Get("/", profileH.Get)
	p.Put("/", studentOnly, profileH.Update)
	p.Post("/resume", studentOnly, profileH.UploadResume)
	p.Get("/resumes", studentOnly, profileH.ListResumes)
	p.Delete("/resumes/:id", studentOnly, profileH.DeleteResume)

	pr := v1.Group("/projects", authMW)
	pr.Get("/", projectH.List)
	pr.Post("/", teacherOnly, projectH.Create)
	pr.Post("/expand-description", teacherOnly, projectH.ExpandDescription)
	pr.Get("/:id", projectH.Get)
	pr.Post("/:id/applications", studentOnly, applicationH.Apply)
	pr.Get("/:id/applications", teacherOnly, applicationH.ListForProject)

	ap := v1.Group("/applications", authMW)
	ap.Get("/", studentOnly, applicationH.ListMine)
	ap.Post("/:id/decision", teacherOnly, applicationH.Decide)

	ai := v1.Group("/ai", authMW)
	ai.Post("/match", studentOnly, aiH.Match)
	ai.Post("/statement", studentOnly, aiH.Statement)
	ai.Post("/rank", teacherOnly, aiH.Rank)
	ai.Post("/chat", aiH.Chat)
}
