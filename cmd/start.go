package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"craft-catalog/core/loader"
	"craft-catalog/core/logger"
	"craft-catalog/core/middleware/auth"
	"craft-catalog/core/middleware/rayid"
	"craft-catalog/feature/catalog"
	"craft-catalog/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the catalog server",
	Long:  `Opens the catalog store, starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logg, err := bootstrap()
		if err != nil {
			log.Fatal(err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if !cfg.Server.IsValidPort() {
			logg.Fatal("Invalid server port", zap.String("port", cfg.Server.Port))
		}

		client := optionalStorage(cfg, logg)
		db := optionalDatabase(cfg, logg)

		svc, err := catalog.NewService(cfg.Catalog, client, cfg.Storage.Bucket, logg)
		if err != nil {
			logg.Fatal("Failed to open catalog", zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		mgr := loader.NewManager()
		mgr.Register(catalog.NewFeature(svc))
		mgr.Register(integrity.NewFeature(client, cfg.Storage.Bucket, logg, db, cfg.Catalog))

		// RayID must run first so every later log line carries it.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port), zap.String("data_dir", cfg.Catalog.DataDir))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
		if err := svc.Close(); err != nil {
			logg.Error("Failed to flush catalog", zap.Error(err))
		}
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
