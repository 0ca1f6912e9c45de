package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	coreconfig "github.com/AzielCF/wap-gatekeeper/core/config"
	"github.com/AzielCF/wap-gatekeeper/ui/rest"
	"github.com/AzielCF/wap-gatekeeper/ui/rest/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Serve the allow-list admin API over http",
	Run:   restServer,
}

func init() {
	restCmd.Flags().StringP("port", "p", "", "change port number with --port <number> | example: --port=8080")
	rootCmd.AddCommand(restCmd)
}

func restServer(cmd *cobra.Command, _ []string) {
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		coreconfig.Global.App.Port = port
	}

	app := fiber.New(fiber.Config{
		Network:      "tcp",
		AppName:      "wap-gatekeeper",
		ServerHeader: "Hidden",
	})

	app.Use(requestid.New())
	app.Use(middleware.Recovery())
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	if coreconfig.Global.App.Debug {
		app.Use(logger.New())
	}

	apiGroup := app.Group(coreconfig.Global.App.BasePath + "/api")

	// Graceful shutdown handler
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[REST] Reception of termination signal, shutting down gracefully...")
		if err := app.Shutdown(); err != nil {
			logrus.Errorf("[REST] Error during Fiber shutdown: %v", err)
		}
		StopApp()
	}()

	rest.InitRestAccess(apiGroup, accessUsecase, documentStore, coreconfig.Global.Paths.ConfigFile)
	rest.InitRestHealth(apiGroup, healthUsecase)

	apiGroup.All("/*", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "API Endpoint not found",
			"path":  c.Path(),
		})
	})

	if err := app.Listen(":" + coreconfig.Global.App.Port); err != nil {
		logrus.Fatalln("Failed to start: ", err.Error())
	}
}
