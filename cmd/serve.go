package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mgzdb/core/loader"
	"mgzdb/core/logger"
	"mgzdb/core/middleware/auth"
	"mgzdb/core/middleware/rayid"
	"mgzdb/feature/audit"
	"mgzdb/feature/peer"
	"mgzdb/feature/query"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "mgzdb/docs/swagger"
)

// @title mgzdb API
// @version 1.0
// @description Reports, audits and peer sync for the replay database.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the query and peer HTTP server",
	Long:  `Starts the HTTP server exposing reports, audits and the peer endpoints used by "add db".`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(runServe)
	},
}

func runServe(ctx context.Context, a *app) error {
	l := a.log.With(zap.String("database", a.cfg.Database.Driver))

	srv := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	mgr := loader.NewManager()
	mgr.Register(query.NewFeature(a.db, l))
	mgr.Register(peer.NewFeature(peer.NewLocal(a.db, a.store, a.codec), l))
	auditTTL := time.Duration(a.cfg.Server.AuditCacheSeconds) * time.Second
	mgr.Register(audit.NewFeature(audit.NewService(a.db, a.store, l, auditTTL)))

	// RayID first so every later log line carries it
	srv.Use(rayid.New())

	srv.Use(func(c *fiber.Ctx) error {
		rl := logger.WithRayID(l, c)
		rl.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			rl.Error("Request error", zap.Error(err))
		}
		return err
	})

	// Docs stay public
	srv.Get("/swagger/*", swagger.HandlerDefault)

	if !a.cfg.Server.IsProtected() {
		l.Warn("No API key configured, every endpoint is public")
	}
	srv.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

	if err := mgr.LoadAll(srv); err != nil {
		return err
	}
	l.Info("Features loaded", zap.Strings("features", mgr.Loaded()))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		l.Info("Starting server", zap.String("port", a.cfg.Server.Port))
		errs <- srv.Listen(":" + a.cfg.Server.Port)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	l.Info("Shutting down server...")
	return srv.Shutdown()
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
