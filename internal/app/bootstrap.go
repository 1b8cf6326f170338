package app

import (
	"fmt"
	"strings"

	"jobradar/internal/config"
	"jobradar/internal/delivery/http/handler"
	"jobradar/internal/delivery/http/middleware"
	"jobradar/internal/pkg/response"
	"jobradar/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap builds the container and the Fiber app with all routes mounted.
// The returned cleanup stops the scheduler and closes the cache connection.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})
	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	app.Use(middleware.NewErrorMiddleware().Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Get("/health", func(ctx fiber.Ctx) error {
		return response.Success(ctx, fiber.StatusOK, response.MessageOK, nil)
	})

	scrape := handler.NewScrapeHandler(c.Custom, c.Store, c.Cache, c.Logger)
	stats := handler.NewStatsHandler(c.Store, c.Cache, c.Logger)
	match := handler.NewMatchHandler(c.Matcher, c.Cache, c.Logger)
	analyze := handler.NewAnalyzeHandler(c.Analyzer, c.Scheduler, c.Logger)

	api := app.Group("/api")
	api.Post("/scrape-custom", scrape.HandleScrapeCustom)
	api.Get("/jobs-stats", stats.HandleJobsStats)
	api.Post("/match-jobs", match.HandleMatchJobs)
	api.Post("/analyze", analyze.HandleAnalyze)

	wsHandler := ws.NewHandler(c.Hub, c.Logger)
	app.Get("/ws/jobs", wsHandler.HandleJobsWS)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
