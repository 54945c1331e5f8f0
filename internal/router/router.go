package router

import (
	"net/http"
	"time"

	"aegisaccounts/backend/internal/auth"
	"aegisaccounts/backend/internal/database"
	"aegisaccounts/backend/internal/handlers"
	aegmiddleware "aegisaccounts/backend/internal/middleware"
	aeglog "aegisaccounts/backend/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter configura e retorna uma instância do Gin Engine.
func SetupRouter(log *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(aegmiddleware.Metrics())
	router.Use(aegmiddleware.GinZap(log, time.RFC3339, true))
	router.Use(aegmiddleware.GinRecovery(log, time.RFC3339, true, true))

	// Endpoint para métricas Prometheus
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health", healthCheckHandler)

	setupAuthRoutes(router)
	setupV1Routes(router)

	return router
}

func healthCheckHandler(c *gin.Context) {
	sqlDB, err := database.DB.DB()
	if err != nil {
		aeglog.L.Error("Erro ao obter a instância do DB para o health check", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "database instance error"})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		aeglog.L.Error("Falha no ping do banco de dados durante o health check", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "database ping failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": "connected",
	})
}

// Rotas públicas do ciclo de vida de conta: registro, confirmação, login e
// reset de senha não exigem sessão.
func setupAuthRoutes(r *gin.Engine) {
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", handlers.RegisterHandler)
		authRoutes.GET("/confirm", handlers.ConfirmRegistrationHandler)
		authRoutes.POST("/login", handlers.LoginHandler)
		authRoutes.POST("/remember", handlers.RememberMeLoginHandler)
		authRoutes.POST("/forgot-password", handlers.ForgotPasswordHandler)
		authRoutes.GET("/reset-password", handlers.BeginPasswordResetHandler)
		authRoutes.POST("/reset-password", handlers.ResetPasswordHandler)
	}
}

func setupV1Routes(r *gin.Engine) {
	apiV1 := r.Group("/api/v1")
	apiV1.Use(auth.AuthMiddleware())
	apiV1.Use(auth.Authorize()) // tabela declarativa de políticas por rota
	{
		apiV1.GET("/me", handlers.MeHandler)
		apiV1.PUT("/me", handlers.UpdateMeHandler)
		apiV1.PUT("/me/password", handlers.ChangePasswordHandler)
		apiV1.POST("/logout", handlers.LogoutHandler)

		// User management (admin, via política)
		userRoutes := apiV1.Group("/users")
		{
			userRoutes.GET("", handlers.ListUsersHandler)
			userRoutes.GET("/:userId", handlers.GetUserHandler)
			userRoutes.PUT("/:userId/role", handlers.UpdateUserRoleHandler)
			userRoutes.DELETE("/:userId", handlers.DeleteUserHandler)
		}

		// System Admin Routes
		adminRoutes := apiV1.Group("/admin")
		{
			settingsRoutes := adminRoutes.Group("/settings")
			{
				settingsRoutes.GET("", handlers.ListSystemSettingsHandler)
				settingsRoutes.PUT("", handlers.UpdateSystemSettingsHandler)
				settingsRoutes.POST("/test-email", handlers.SendTestEmailHandler)
			}
		}
	}
}
