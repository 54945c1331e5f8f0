package handlers

import (
	"errors"
	"net/http"

	"aegisaccounts/backend/internal/accounts"
	"aegisaccounts/backend/internal/database"
	"aegisaccounts/backend/internal/notifications"
	aeglog "aegisaccounts/backend/pkg/log"
	aegmetrics "aegisaccounts/backend/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ForgotPasswordPayload struct {
	Email string `json:"email" binding:"required,email"`
}

// resetRequestAck é a resposta única do pedido de reset, exista a conta ou
// não: nada aqui pode vazar a existência do e-mail.
const resetRequestAck = "If an account with that email exists, a password reset link has been sent."

// ForgotPasswordHandler inicia o processo de reset de senha.
func ForgotPasswordHandler(c *gin.Context) {
	log := aeglog.L.Named("ForgotPasswordHandler")
	var payload ForgotPasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	svc := accounts.NewService(database.GetDB())
	token, err := svc.RequestPasswordReset(c.Request.Context(), payload.Email)
	if err != nil {
		log.Error("Failed to create password reset token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		return
	}

	if token != nil {
		notifications.SendPasswordResetEmail(c.Request.Context(), &token.User, token)
	}

	c.JSON(http.StatusOK, gin.H{"message": resetRequestAck})
}

// BeginPasswordResetHandler valida o par id+token do link de reset antes de o
// frontend mostrar o formulário de nova senha. "Não encontrado", "expirado" e
// "dono errado" retornam a mesma mensagem, para não vazar qual checagem falhou.
func BeginPasswordResetHandler(c *gin.Context) {
	idParam := c.Query("id")
	tokenValue := c.Query("token")
	if idParam == "" || tokenValue == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token", "redirect": "/login"})
		return
	}

	userID, err := uuid.Parse(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token", "redirect": "/login"})
		return
	}

	svc := accounts.NewService(database.GetDB())
	if _, err := svc.BeginPasswordReset(c.Request.Context(), userID, tokenValue); err != nil {
		if errors.Is(err, accounts.ErrInvalidToken) || errors.Is(err, accounts.ErrExpiredToken) {
			aegmetrics.TokenValidationCounter.WithLabelValues("password_reset", "invalid").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token", "redirect": "/login"})
			return
		}
		aeglog.L.Named("BeginPasswordResetHandler").Error("Failed to validate reset token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate token"})
		return
	}

	aegmetrics.TokenValidationCounter.WithLabelValues("password_reset", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"token": tokenValue})
}

type ResetPasswordPayload struct {
	Token                string `json:"token" binding:"required"`
	Password             string `json:"password" binding:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required"`
}

// ResetPasswordHandler finaliza o processo de reset de senha.
func ResetPasswordHandler(c *gin.Context) {
	log := aeglog.L.Named("ResetPasswordHandler")
	var payload ResetPasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	svc := accounts.NewService(database.GetDB())
	_, err := svc.CompletePasswordReset(c.Request.Context(), payload.Token, payload.Password, payload.PasswordConfirmation)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrPasswordMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		case errors.Is(err, accounts.ErrInvalidToken), errors.Is(err, accounts.ErrExpiredToken):
			aegmetrics.TokenValidationCounter.WithLabelValues("password_reset", "invalid").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		default:
			log.Error("Failed to reset password", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully."})
}
