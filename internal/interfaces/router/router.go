package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	assetsvc "inventory-backend/internal/application/assets"
	"inventory-backend/internal/application/auth"
	catsvc "inventory-backend/internal/application/categories"
	healthsvc "inventory-backend/internal/application/health"
	"inventory-backend/internal/application/status"
	transfersvc "inventory-backend/internal/application/transfers"
	usersvc "inventory-backend/internal/application/user"
	"inventory-backend/internal/config"
	"inventory-backend/internal/infrastructure/cache"
	"inventory-backend/internal/infrastructure/database"
	assethandler "inventory-backend/internal/interfaces/handlers/assets"
	cathandler "inventory-backend/internal/interfaces/handlers/categories"
	healthhandler "inventory-backend/internal/interfaces/handlers/health"
	transferhandler "inventory-backend/internal/interfaces/handlers/transfers"
	userhandler "inventory-backend/internal/interfaces/handlers/user"
	"inventory-backend/internal/middleware"
	"inventory-backend/internal/pkg/constants"
	"inventory-backend/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Deps are the collaborators NewApp wires into handlers. Rdb and Metrics may be nil.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Rdb     *redis.Client
	Metrics *metrics.Metrics
	// Now overrides the clock of the status engine and transfer ledger.
	Now func() time.Time
}

// Server is a built application plus the resources it owns.
type Server struct {
	App     *fiber.App
	DB      *gorm.DB
	Rdb     *redis.Client
	Assets  *assetsvc.Service
	Metrics *metrics.Metrics
}

// Close releases the database pool and Redis client.
func (s *Server) Close() {
	if s.Rdb != nil {
		_ = s.Rdb.Close()
	}
	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// CreateApp opens the database and optional Redis from cfg and builds the app.
func CreateApp(cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	rdb, err := cache.Open(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable; health counters and sweep lock disabled")
		rdb = nil
	}
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}
	return NewApp(Deps{Config: cfg, DB: db, Rdb: rdb, Metrics: m})
}

// NewApp builds the Fiber app with global middleware and the route table.
func NewApp(d Deps) (*Server, error) {
	cfg := d.Config
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, err
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
		AppName:               "inventory-backend",
	})

	app.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: cfg.CORSAllowedOrigins}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.HealthMarker(d.Rdb))
	app.Use(middleware.ResponseFormatter(!cfg.IsProduction()))
	if d.Metrics != nil {
		app.Use(d.Metrics.Middleware())
		app.Get("/metrics", d.Metrics.Handler())
	}

	// Health (no auth)
	hh := &healthhandler.Handlers{
		Rdb:            d.Rdb,
		DB:             healthsvc.GormPinger{DB: d.DB},
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Liveness)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/reset", hh.Reset)
	app.Get("/health/errors", hh.Errors)

	categories := &catsvc.Service{DB: d.DB}
	assets := &assetsvc.Service{
		DB:         d.DB,
		Engine:     &status.Engine{Now: now},
		Categories: categories,
	}
	transfers := &transfersvc.Service{DB: d.DB, Now: now}
	users := &usersvc.Service{DB: d.DB, Tokens: tokens}
	if d.Metrics != nil {
		assets.Metrics = d.Metrics
		transfers.Metrics = d.Metrics
	}
	requireAuth := middleware.RequireAuth(tokens, users)

	// Assets
	ah := &assethandler.Handlers{Service: assets}
	ag := app.Group("/asset")
	ag.Post("/check-expiring", ah.CheckExpiring)
	ag.Post("/auto-update-status", ah.AutoUpdateStatus)
	ag.Get("/filter-options", ah.FilterOptions)
	ag.Get("/dropdown-options", ah.DropdownOptions)
	ag.Post("/createAsset", ah.CreateAsset)
	ag.Get("/getAllAssets", ah.GetAllAssets)
	ag.Get("/export", ah.ExportAssets)
	ag.Delete("/deleteAsset/:id", ah.DeleteAsset)
	ag.Put("/assets/:id/surplus", ah.MarkSurplus)
	ag.Put("/assets/:id", ah.UpdateAsset)

	// Categories
	ch := &cathandler.Handlers{Service: categories}
	cg := app.Group("/categories")
	cg.Get("/:category", ch.List)
	cg.Post("/:category", ch.Add)
	cg.Delete("/:category/:id", ch.Delete)

	// Transfers
	th := &transferhandler.Handlers{Service: transfers}
	tg := app.Group("/asset-transfers")
	tg.Post("/create-transfer-asset", requireAuth, th.CreateTransfer)
	tg.Get("/get-all-transfer-assets", th.GetAllTransfers)
	tg.Get("/asset-history/:asset_id", th.GetAssetHistory)
	tg.Get("/transfer/:transfer_id", th.GetTransferByID)

	// Users
	uh := &userhandler.Handlers{Service: users}
	ug := app.Group("/user")
	ug.Post("/signup", uh.Signup)
	ug.Post("/signin", uh.Signin)
	ug.Get("/getuser", requireAuth, uh.GetCurrentUser)
	ug.Get("/all", requireAuth, middleware.AuthorizePermission(constants.ListUsers), uh.GetAllUsers)
	ug.Put("/change-password", requireAuth, middleware.AuthorizePermission(constants.ChangePassword), uh.ChangePassword)
	ug.Patch("/toggle-status/:userId", requireAuth, middleware.AuthorizePermission(constants.ToggleUserStatus), uh.ToggleStatus)

	return &Server{App: app, DB: d.DB, Rdb: d.Rdb, Assets: assets, Metrics: d.Metrics}, nil
}

// Handler returns the app as a net/http handler (serverless entry).
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
