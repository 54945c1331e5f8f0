package main

import (
	"fmt"
	"log"

	"aegisaccounts/backend/internal/auth"
	"aegisaccounts/backend/internal/database"
	"aegisaccounts/backend/internal/notifications"
	"aegisaccounts/backend/internal/router"
	"aegisaccounts/backend/pkg/config"
	aeglog "aegisaccounts/backend/pkg/log"
)

func buildDSN() string {
	sslMode := "disable"
	if config.Cfg.EnableDBSSL {
		sslMode = "require"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		config.Cfg.DBHost, config.Cfg.DBPort, config.Cfg.DBUser, config.Cfg.DBPassword, config.Cfg.DBName, sslMode)
}

func main() {
	aeglog.Init("info", config.Cfg.Environment)

	if err := auth.InitializeJWT(); err != nil {
		log.Fatalf("Failed to initialize JWT: %v", err)
	}

	if err := database.ConnectDB(buildDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.MigrateDB(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	notifications.InitEmailService()

	r := router.SetupRouter(aeglog.L)

	aeglog.S.Infof("Starting Aegis Accounts on port %s", config.Cfg.Port)
	if err := r.Run(":" + config.Cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
