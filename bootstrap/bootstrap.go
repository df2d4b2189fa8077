package bootstrap

import (
	"inventory-backend/internal/config"
	"inventory-backend/internal/interfaces/router"
	"inventory-backend/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// New creates the Fiber app for serverless hosting (the api handler imports
// this package, not internal). The background sweeper is not started here;
// list reads still sweep before they run.
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(logger.Options{Level: cfg.LogLevel, Format: "json"}); err != nil {
		return nil, err
	}
	srv, err := router.CreateApp(cfg)
	if err != nil {
		return nil, err
	}
	return srv.App, nil
}
