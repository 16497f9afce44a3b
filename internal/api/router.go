package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/taskdesk/taskdesk/docs"
	"github.com/taskdesk/taskdesk/internal/api/handler"
	"github.com/taskdesk/taskdesk/internal/api/middleware"
	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/ports"
	"github.com/taskdesk/taskdesk/internal/infrastructure/http/handlers"
)

// Deps are the services and probes the router wires into handlers.
type Deps struct {
	Auth        ports.AuthService
	Users       ports.UserService
	Tasks       ports.TaskService
	Assignments ports.AssignmentService
	Catalog     ports.CatalogService
	Requests    ports.RequestService
	Dashboard   ports.DashboardService

	// Checks are the readiness probes, by dependency name.
	Checks map[string]handlers.Check

	// LoginRate is the sustained login attempts per second per client IP;
	// zero disables the limiter.
	LoginRate  float64
	LoginBurst int

	// Registerer and Gatherer back the HTTP metrics; nil means the default
	// Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "taskdesk",
		Registerer: d.Registerer,
	}))

	auth := middleware.Auth(d.Auth)
	managers := middleware.RBAC(domain.RoleAdmin, domain.RoleManager)
	admins := middleware.RBAC(domain.RoleAdmin)

	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users, d.Assignments)
	taskHandler := handler.NewTaskHandler(d.Tasks)
	assignmentHandler := handler.NewAssignmentHandler(d.Assignments)
	catalogHandler := handler.NewCatalogHandler(d.Catalog)
	requestHandler := handler.NewRequestHandler(d.Requests)
	dashboardHandler := handler.NewDashboardHandler(d.Dashboard)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login, loginLimiter(d.LoginRate, d.LoginBurst)...)
	e.POST("/auth/logout", authHandler.Logout, auth)
	e.GET("/auth/session", authHandler.Session, auth)

	v1 := e.Group("/v1", auth)

	// --- Self service ---
	v1.GET("/me", userHandler.Me)
	v1.PATCH("/me", userHandler.UpdateMe)
	v1.PUT("/me/push-token", userHandler.SetPushToken)
	v1.GET("/me/assignments", userHandler.MyAssignments)
	v1.GET("/directory", userHandler.Directory)

	// --- Tasks ---
	v1.GET("/tasks", taskHandler.List)
	v1.GET("/tasks/:id", taskHandler.Get)
	v1.POST("/tasks", taskHandler.Create, managers)
	v1.PUT("/tasks/:id", taskHandler.Update, managers)
	v1.DELETE("/tasks/:id", taskHandler.Delete, managers)

	// --- Assignments ---
	v1.POST("/tasks/:id/assignments", assignmentHandler.Assign, managers)
	v1.GET("/assignments", assignmentHandler.List, managers)
	v1.DELETE("/assignments/:id", assignmentHandler.Remove, managers)
	v1.POST("/assignments/:id/complete", assignmentHandler.Complete)
	v1.GET("/reports/assignments", assignmentHandler.Report, managers)

	// --- Projects / clients ---
	v1.GET("/projects", catalogHandler.ListProjects, managers)
	v1.GET("/projects/:id", catalogHandler.GetProject, managers)
	v1.POST("/projects", catalogHandler.CreateProject, managers)
	v1.PUT("/projects/:id", catalogHandler.UpdateProject, managers)
	v1.GET("/forms/project", catalogHandler.ProjectForm, managers)
	v1.GET("/clients", catalogHandler.ListClients, managers)
	v1.GET("/clients/:id", catalogHandler.GetClient, managers)
	v1.POST("/clients", catalogHandler.CreateClient, managers)
	v1.PUT("/clients/:id", catalogHandler.UpdateClient, managers)

	// --- Peer requests ---
	v1.POST("/requests", requestHandler.Create)
	v1.GET("/requests/inbox", requestHandler.Inbox)
	v1.GET("/requests/outbox", requestHandler.Outbox)
	v1.PATCH("/requests/:id/status", requestHandler.UpdateStatus)

	// --- Admin ---
	v1.GET("/users", userHandler.List, admins)
	v1.PATCH("/users/:id/role", userHandler.ChangeRole, admins)
	v1.PATCH("/users/:id/active", userHandler.SetActive, admins)
	v1.GET("/dashboard", dashboardHandler.Stats, admins)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// loginLimiter throttles login attempts per client IP.
func loginLimiter(perSecond float64, burst int) []echo.MiddlewareFunc {
	if perSecond <= 0 {
		return nil
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 10 * time.Minute,
	})
	return []echo.MiddlewareFunc{echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
		},
	})}
}
