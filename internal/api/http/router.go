package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/case-portal/internal/api/http/handlers"
	"github.com/spec-kit/case-portal/internal/auth"
	"github.com/spec-kit/case-portal/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Lookup         *handlers.LookupHandler
	Cases          *handlers.CasesHandler
	Messages       *handlers.MessagesHandler
	AccessRequests *handlers.AccessRequestsHandler
	Reports        *handlers.ReportsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Handler())

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	// Public lookup identifies signed-in visitors but never requires a
	// session.
	app.Get("/lookup", cfg.AuthMiddleware.Optional, cfg.Lookup.Lookup)

	signedIn := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	cases := signedIn.Group("/cases")
	cases.Get("/:caseID", cfg.Cases.GetCase)
	cases.Get("/:caseID/messages", cfg.Messages.List)
	cases.Post("/:caseID/messages", cfg.Messages.Post)
	cases.Post("/:caseID/access-requests", cfg.AccessRequests.Submit)

	signedIn.Get("/access-requests", cfg.AccessRequests.Mine)
	signedIn.Post("/reports", cfg.Reports.Create)
	signedIn.Get("/reports", cfg.Reports.Mine)

	admin := signedIn.Group("/admin", auth.RequireAdmin())
	admin.Post("/cases", cfg.Cases.CreateCase)
	admin.Get("/cases", cfg.Cases.ListCases)
	admin.Patch("/cases/:caseID/status", cfg.Cases.UpdateStatus)
	admin.Get("/access-requests", cfg.Admin.PendingAccessRequests)
	admin.Post("/access-requests/:requestID/approve", cfg.Admin.ApproveAccessRequest)
	admin.Post("/access-requests/:requestID/deny", cfg.Admin.DenyAccessRequest)
	admin.Get("/reports", cfg.Admin.ListReports)
	admin.Patch("/reports/:reportID/status", cfg.Admin.UpdateReportStatus)
	admin.Post("/users/promote", cfg.Admin.PromoteUser)
	admin.Get("/audit-logs", cfg.Admin.AuditLogs)
}
