// Package server contains the HTTP and WebSocket handlers for the site API
// and the admin back office.
package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	_ "bizsite/docs" // swagger docs
	"bizsite/internal/auth"
	"bizsite/internal/cache"
	"bizsite/internal/config"
	"bizsite/internal/database"
	"bizsite/internal/middleware"
	"bizsite/internal/models"
	"bizsite/internal/observability"
	"bizsite/internal/repository"
	"bizsite/internal/requestlog"
	"bizsite/internal/security"
	"bizsite/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// promMiddleware registers the HTTP collectors once per process.
func promMiddleware() *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(observability.ServiceName)
	})
	return prom
}

// Server holds all dependencies and provides handlers
type Server struct {
	config   *config.Config
	db       *gorm.DB
	redis    *redis.Client
	app      *fiber.App
	prom     *fiberprometheus.FiberPrometheus
	cookie   middleware.SessionCookie
	tokens   *auth.TokenCodec
	limiter  *middleware.RateLimiter
	requests *requestlog.Ring
	now      service.Clock

	userRepo repository.UserRepository

	authService      *service.AuthService
	userService      *service.UserService
	categoryService  *service.CategoryService
	productService   *service.ProductService
	offeringService  *service.OfferingService
	projectService   *service.ProjectService
	blogService      *service.BlogService
	licenseService   *service.LicenseService
	contactService   *service.ContactService
	settingsService  *service.SettingsService
	setupService     *service.SetupService
	dashboardService *service.DashboardService
	toolsService     *service.ToolsService
}

// Option customises a Server built by NewServerWithDeps.
type Option func(*options)

type options struct {
	now       service.Clock
	providers []service.OAuthProvider
}

// WithClock replaces time.Now for tokens, licenses and the dashboard.
func WithClock(now service.Clock) Option {
	return func(o *options) { o.now = now }
}

// WithOAuthProviders replaces the providers built from configuration.
func WithOAuthProviders(providers ...service.OAuthProvider) Option {
	return func(o *options) { o.providers = providers }
}

// NewServer connects the database and Redis named by cfg and builds a Server.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := observability.RegisterQueryMetrics(db); err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}

	rdb, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		// Redis is optional: caching and rate limits fall back in process.
		middleware.Logger.Warn("Redis unavailable, continuing without it", "error", err)
		rdb = nil
	}

	return NewServerWithDeps(cfg, db, rdb)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// rdb may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, rdb *redis.Client, opts ...Option) (*Server, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.providers == nil {
		o.providers = providersFromConfig(cfg)
	}

	users := repository.NewUserRepository(db)
	categories := repository.NewCategoryRepository(db)
	products := repository.NewProductRepository(db)
	offerings := repository.NewOfferingRepository(db)
	projects := repository.NewProjectRepository(db)
	blog := repository.NewBlogRepository(db)
	licenses := repository.NewLicenseRepository(db)
	contacts := repository.NewContactRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	c := cache.New(rdb)
	sanitizer := security.NewSanitizer()
	tokens := auth.NewTokenCodec(cfg.JWTSecret, cfg.SessionTTL(), auth.WithClock(o.now))
	ring := requestlog.New(cfg.RequestLogCapacity)

	var states auth.StateStore
	if rdb != nil {
		states = cache.NewStateStore(rdb)
	}

	s := &Server{
		config:   cfg,
		db:       db,
		redis:    rdb,
		prom:     promMiddleware(),
		tokens:   tokens,
		limiter:  middleware.NewRateLimiter(rdb, cfg.RateLimitEnabled),
		requests: ring,
		now:      o.now,
		userRepo: users,
		cookie: middleware.SessionCookie{
			Name:   cfg.CookieName,
			Domain: cfg.CookieDomain,
			Secure: cfg.CookieSecure,
		},
	}

	s.settingsService = service.NewSettingsService(settingRepo)
	s.setupService = service.NewSetupService(users)
	s.authService = service.NewAuthService(service.AuthServiceConfig{
		Users:     users,
		Settings:  s.settingsService,
		Tokens:    tokens,
		Providers: o.providers,
		States:    states,
		Now:       o.now,
	})
	s.userService = service.NewUserService(users, s.setupService)
	s.categoryService = service.NewCategoryService(categories)
	s.productService = service.NewProductService(products, categories, c)
	s.offeringService = service.NewOfferingService(offerings, c)
	s.projectService = service.NewProjectService(projects, categories, c)
	s.blogService = service.NewBlogService(blog, categories, sanitizer, c, o.now)
	s.licenseService = service.NewLicenseService(licenses, products, users, nil, o.now)
	s.contactService = service.NewContactService(contacts, s.settingsService, sanitizer)
	s.dashboardService = service.NewDashboardService(service.DashboardRepos{
		Users:      users,
		Categories: categories,
		Products:   products,
		Services:   offerings,
		Projects:   projects,
		Blog:       blog,
		Licenses:   licenses,
		Contacts:   contacts,
	}, ring, o.now)
	s.toolsService = service.NewToolsService(o.now, nil)

	return s, nil
}

func providersFromConfig(cfg *config.Config) []service.OAuthProvider {
	var out []service.OAuthProvider
	if gh := cfg.OAuth("github"); gh.Configured() {
		out = append(out, auth.NewGitHubProvider(auth.ProviderConfig{
			ClientID:     gh.ClientID,
			ClientSecret: gh.ClientSecret,
			RedirectURL:  gh.RedirectURL,
		}))
	}
	if g := cfg.OAuth("google"); g.Configured() {
		out = append(out, auth.NewGoogleProvider(auth.ProviderConfig{
			ClientID:     g.ClientID,
			ClientSecret: g.ClientSecret,
			RedirectURL:  g.RedirectURL,
		}))
	}
	return out
}

// App builds the Fiber app with middleware and routes on first use.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName:      "Business Site API",
		BodyLimit:    2 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// errorHandler funnels errors that escaped a handler into the standard
// error body.
func errorHandler(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err, "path", c.Path())
	}
	return models.RespondWithError(c, status, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	if s.prom != nil {
		app.Use(s.prom.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowCredentials: s.config.AllowedOrigins != "*",
		MaxAge:           86400,
	}))

	// Global rate limiting (300 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return !s.config.RateLimitEnabled || c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Success: false,
				Error:   "Too many requests, please try again later",
				Code:    "RATE_LIMITED",
			})
		},
	}))

	app.Use(middleware.Session(s.tokens, s.cookie))
	app.Use(middleware.RequestLog(s.requests, "/metrics", "/health/live", "/health/ready", "/health"))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.prom != nil {
		s.prom.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Business Site Metrics",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Site settings and first-run setup
	api.Get("/settings", s.GetPublicSettings)
	setup := api.Group("/setup")
	setup.Get("/status", s.GetSetupStatus)
	setup.Post("/", s.limiter.Handler("setup", 5, 10*time.Minute, middleware.FailOpen), s.CreateFirstAdmin)

	// Public content, hidden while the site is in maintenance mode. The gate
	// is attached per route: a group handler would run for every /api path.
	gate := s.maintenanceGate
	api.Get("/categories", gate, s.GetPublicCategories)
	api.Get("/products", gate, s.GetPublicProducts)
	api.Get("/products/:slug", gate, s.GetPublicProduct)
	api.Get("/services", gate, s.GetPublicServices)
	api.Get("/services/:slug", gate, s.GetPublicService)
	api.Get("/projects", gate, s.GetPublicProjects)
	api.Get("/projects/:slug", gate, s.GetPublicProject)
	api.Get("/blog", gate, s.GetPublicPosts)
	api.Get("/blog/:slug", gate, s.GetPublicPost)
	api.Post("/contact", gate, s.limiter.Handler("contact", 5, 10*time.Minute, middleware.FailOpen), s.SubmitContact)

	licenses := api.Group("/licenses", gate)
	licenses.Get("/lookup", s.limiter.Handler("license_lookup", 30, time.Minute, middleware.FailOpen), s.LookupLicense)
	licenses.Post("/activate", s.limiter.Handler("license_activate", 10, time.Minute, middleware.FailOpen), s.ActivateLicense)

	tools := api.Group("/tools", s.limiter.Handler("tools", 60, time.Minute, middleware.FailOpen))
	tools.Post("/totp", s.GenerateTOTP)
	tools.Get("/totp/secret", s.GenerateTOTPSecret)
	tools.Get("/password", s.GeneratePassword)
	tools.Get("/uuid", s.GenerateUUID)
	tools.Post("/slugify", s.Slugify)

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", s.limiter.Handler("register", 3, 10*time.Minute, middleware.FailOpen), s.Register)
	authGroup.Post("/login", s.limiter.Handler("login", 10, 5*time.Minute, middleware.FailOpen), s.Login)
	authGroup.Post("/logout", s.Logout)
	authGroup.Get("/me", middleware.RequireAuth, s.Me)
	authGroup.Get("/providers", s.GetProviders)
	authGroup.Post("/onboarding", middleware.RequireAuth, s.CompleteOnboarding)
	// Specific /:provider/callback route before generic /:provider
	authGroup.Get("/:provider/callback", s.OAuthCallback)
	authGroup.Get("/:provider", s.limiter.Handler("oauth_begin", 20, time.Minute, middleware.FailOpen), s.BeginOAuth)

	// Admin routes
	admin := api.Group("/admin",
		middleware.RequireAuth,
		middleware.RequireOnboarded,
		middleware.AdminRequired(s.userRepo),
	)
	admin.Get("/dashboard", s.GetDashboard)
	admin.Get("/requests", s.GetRequestLog)
	admin.Get("/ws/requests", s.requestFeedUpgrade, s.RequestFeedHandler())
	admin.Get("/settings", s.GetAdminSettings)
	admin.Put("/settings", s.UpdateSettings)

	users := admin.Group("/users")
	users.Get("/", s.ListUsers)
	users.Get("/:id", s.GetUser)
	users.Post("/", s.CreateUser)
	users.Patch("/:id", s.UpdateUser)
	users.Delete("/:id", s.DeleteUser)

	categories := admin.Group("/categories")
	categories.Get("/", s.ListCategories)
	categories.Get("/:id", s.GetCategory)
	categories.Post("/", s.CreateCategory)
	categories.Patch("/:id", s.UpdateCategory)
	categories.Delete("/:id", s.DeleteCategory)

	products := admin.Group("/products")
	products.Get("/", s.ListProducts)
	products.Get("/:id", s.GetProduct)
	products.Post("/", s.CreateProduct)
	products.Patch("/:id", s.UpdateProduct)
	products.Delete("/:id", s.DeleteProduct)

	services := admin.Group("/services")
	services.Get("/", s.ListServices)
	services.Get("/:id", s.GetService)
	services.Post("/", s.CreateService)
	services.Patch("/:id", s.UpdateService)
	services.Delete("/:id", s.DeleteService)

	projects := admin.Group("/projects")
	projects.Get("/", s.ListProjects)
	projects.Get("/:id", s.GetProject)
	projects.Post("/", s.CreateProject)
	projects.Patch("/:id", s.UpdateProject)
	projects.Delete("/:id", s.DeleteProject)

	blog := admin.Group("/blog")
	blog.Get("/", s.ListPosts)
	blog.Get("/:id", s.GetPost)
	blog.Post("/", s.CreatePost)
	blog.Patch("/:id", s.UpdatePost)
	blog.Delete("/:id", s.DeletePost)

	adminLicenses := admin.Group("/licenses")
	adminLicenses.Get("/", s.ListLicenses)
	adminLicenses.Get("/:id", s.GetLicense)
	adminLicenses.Post("/", s.CreateLicense)
	adminLicenses.Patch("/:id", s.UpdateLicense)
	adminLicenses.Delete("/:id", s.DeleteLicense)

	contacts := admin.Group("/contacts")
	contacts.Get("/", s.ListContacts)
	contacts.Get("/:id", s.GetContact)
	contacts.Patch("/:id", s.UpdateContact)
	contacts.Delete("/:id", s.DeleteContact)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   s.now().UTC(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional, so
// only a configured but unreachable Redis makes the service unready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"success": status == fiber.StatusOK,
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": s.now().UTC(),
	})
}

// maintenanceGate hides public content while maintenance mode is on.
func (s *Server) maintenanceGate(c *fiber.Ctx) error {
	settings, err := s.settingsService.Get(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	if settings.MaintenanceMode {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
			Success: false,
			Error:   "Site is under maintenance",
			Code:    "MAINTENANCE",
		})
	}
	return c.Next()
}

// Start serves on the configured port until Shutdown is called.
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("Server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing sql DB", "error", err)
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", "error", err)
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
