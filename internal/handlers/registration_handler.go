package handlers

import (
	"errors"
	"net/http"

	"aegisaccounts/backend/internal/accounts"
	"aegisaccounts/backend/internal/database"
	"aegisaccounts/backend/internal/notifications"
	"aegisaccounts/backend/pkg/features"
	aeglog "aegisaccounts/backend/pkg/log"
	aegmetrics "aegisaccounts/backend/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RegisterPayload struct {
	Name                 string `json:"name" binding:"required"`
	Email                string `json:"email" binding:"required,email"`
	Password             string `json:"password" binding:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required"`
}

// RegisterHandler cria uma conta desabilitada e despacha o e-mail de
// confirmação. A emissão do token e o envio do e-mail acontecem depois do
// insert do usuário e não são transacionais com ele.
func RegisterHandler(c *gin.Context) {
	log := aeglog.L.Named("RegisterHandler")

	if !features.IsEnabled(features.SelfRegistration) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Self-registration is disabled"})
		return
	}

	var payload RegisterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	if payload.Password != payload.PasswordConfirmation {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}

	svc := accounts.NewService(database.GetDB())
	user, err := svc.RegisterNewUser(c.Request.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrDuplicateEmail) {
			aegmetrics.RegistrationCounter.WithLabelValues("duplicate_email").Inc()
			// Erro inline no formulário de origem
			c.JSON(http.StatusConflict, gin.H{"error": "There is an account with that email address: " + payload.Email})
			return
		}
		log.Error("Failed to register user", zap.Error(err))
		aegmetrics.RegistrationCounter.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	token, err := svc.MintVerificationToken(c.Request.Context(), user)
	if err != nil {
		// A conta existe, mas o link de confirmação não pôde ser emitido.
		log.Error("Failed to mint verification token", zap.String("userID", user.ID.String()), zap.Error(err))
		aegmetrics.RegistrationCounter.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue verification token"})
		return
	}

	notifications.SendVerificationEmail(c.Request.Context(), user, token)

	aegmetrics.RegistrationCounter.WithLabelValues("created").Inc()
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful. Please check your email to verify your account.",
		"user_id": user.ID.String(),
	})
}

// ConfirmRegistrationHandler lida com o clique no link de confirmação.
// Falhas redirecionam para a view de login com uma mensagem estilo flash.
func ConfirmRegistrationHandler(c *gin.Context) {
	log := aeglog.L.Named("ConfirmRegistrationHandler")

	tokenValue := c.Query("token")
	if tokenValue == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token parameter", "redirect": "/login"})
		return
	}

	svc := accounts.NewService(database.GetDB())
	user, err := svc.ConfirmRegistration(c.Request.Context(), tokenValue)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrExpiredToken):
			aegmetrics.TokenValidationCounter.WithLabelValues("verification", "expired").Inc()
			c.JSON(http.StatusGone, gin.H{"error": "Your registration token has expired. Please register again.", "redirect": "/login"})
		case errors.Is(err, accounts.ErrInvalidToken):
			aegmetrics.TokenValidationCounter.WithLabelValues("verification", "invalid").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account confirmation token.", "redirect": "/login"})
		default:
			log.Error("Failed to confirm registration", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm registration"})
		}
		return
	}

	aegmetrics.TokenValidationCounter.WithLabelValues("verification", "ok").Inc()
	log.Info("Account verified", zap.String("userID", user.ID.String()))
	c.JSON(http.StatusOK, gin.H{
		"message":  "Your account verified successfully",
		"redirect": "/login",
	})
}
