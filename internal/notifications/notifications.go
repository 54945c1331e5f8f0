package notifications

import (
	"context"
	"fmt"
	"strings"

	"aegisaccounts/backend/internal/database"
	"aegisaccounts/backend/internal/models"
	"aegisaccounts/backend/pkg/config"
	aeglog "aegisaccounts/backend/pkg/log"

	"go.uber.org/zap"
)

// frontendBaseURL resolve a base dos links enviados por e-mail: primeiro a
// configuração dinâmica no banco, depois o .env.
func frontendBaseURL() string {
	db := database.GetDB()
	if db != nil {
		if base, err := models.GetSystemSetting(db, "FRONTEND_BASE_URL"); err == nil && base != "" {
			return strings.TrimSuffix(base, "/")
		}
	}
	base := config.Cfg.FrontendBaseURL
	if base == "" {
		base = "http://localhost:3000" // Fallback
	}
	return strings.TrimSuffix(base, "/")
}

// SendVerificationEmail despacha o e-mail de confirmação de registro contendo
// o link com o token de verificação como query parameter.
// Formato do link: <base>/auth/confirm?token=<opaque-string>.
func SendVerificationEmail(ctx context.Context, user *models.User, token *models.VerificationToken) {
	confirmLink := fmt.Sprintf("%s/auth/confirm?token=%s", frontendBaseURL(), token.Token)

	bodyHTML := fmt.Sprintf(`
        <h2>Registration Confirmation</h2>
        <p>Welcome! Please open the link below to verify your account:</p>
        <p><a href="%s">Confirm Registration</a></p>
        <p>This link is valid for 24 hours. If you did not register, please ignore this email.</p>
    `, confirmLink)
	bodyText := "Please open the following URL to verify your account:\r\n" + confirmLink

	if err := SendEmailNotification(ctx, user.Email, "Registration Confirmation", bodyHTML, bodyText); err != nil {
		aeglog.L.Error("Failed to send registration confirmation email",
			zap.String("recipient", user.Email),
			zap.Error(err))
	}
}

// SendPasswordResetEmail despacha o e-mail de reset de senha. O link carrega
// o par id+token; ambos precisam bater na confirmação do reset.
// Formato do link: <base>/auth/reset-password?id=<user-id>&token=<opaque-string>.
func SendPasswordResetEmail(ctx context.Context, user *models.User, token *models.PasswordResetToken) {
	resetLink := fmt.Sprintf("%s/auth/reset-password?id=%s&token=%s", frontendBaseURL(), user.ID.String(), token.Token)

	bodyHTML := fmt.Sprintf(`
        <h2>Password Reset Request</h2>
        <p>You requested a password reset. Click the link below to reset your password:</p>
        <p><a href="%s">Reset Password</a></p>
        <p>This link is valid for 1 hour. If you did not request this, please ignore this email.</p>
    `, resetLink)
	bodyText := "Please open the following URL to reset your password:\r\n" + resetLink

	if err := SendEmailNotification(ctx, user.Email, "Password Reset Request", bodyHTML, bodyText); err != nil {
		aeglog.L.Error("Failed to send password reset email",
			zap.String("recipient", user.Email),
			zap.Error(err))
	}
}
