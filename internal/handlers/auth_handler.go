package handlers

import (
	"net/http"

	"aegisaccounts/backend/internal/auth"
	"aegisaccounts/backend/internal/database"
	"aegisaccounts/backend/internal/models"
	aeglog "aegisaccounts/backend/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type LoginPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

type LoginResponse struct {
	Token      string                     `json:"token"`
	UserID     string                     `json:"user_id"`
	Email      string                     `json:"email"`
	Name       string                     `json:"name"`
	Role       models.UserRole            `json:"role"`
	RememberMe *auth.RememberMeCredential `json:"remember_me,omitempty"`
}

// LoginHandler lida com o login do usuário.
func LoginHandler(c *gin.Context) {
	log := aeglog.L.Named("LoginHandler")
	var payload LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	db := database.GetDB()
	var user models.User
	if err := db.Where("email = ?", payload.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	// Conta pendente de verificação de e-mail não loga
	if !user.Enabled {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User account is not verified"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	tokenString, err := auth.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token: " + err.Error()})
		return
	}

	response := LoginResponse{
		Token:  tokenString,
		UserID: user.ID.String(),
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}

	if payload.Remember {
		cred, err := auth.IssueRememberMe(c.Request.Context(), db, &user)
		if err != nil {
			// Login ainda é válido; só o remember-me falhou.
			log.Error("Failed to issue remember-me credential", zap.String("userID", user.ID.String()), zap.Error(err))
		} else {
			response.RememberMe = cred
		}
	}

	c.JSON(http.StatusOK, response)
}

type RememberMePayload struct {
	Series string `json:"series" binding:"required"`
	Token  string `json:"token" binding:"required"`
}

// RememberMeLoginHandler retoma uma sessão a partir de um persistent login,
// sem senha. O token é rotacionado a cada resgate; a credencial nova vem na
// resposta e substitui a antiga no cliente.
func RememberMeLoginHandler(c *gin.Context) {
	var payload RememberMePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	db := database.GetDB()
	user, cred, err := auth.RedeemRememberMe(c.Request.Context(), db, payload.Series, payload.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired remember-me credential"})
		return
	}

	if !user.Enabled {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User account is not verified"})
		return
	}

	tokenString, err := auth.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:      tokenString,
		UserID:     user.ID.String(),
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		RememberMe: cred,
	})
}

// LogoutHandler revoga todos os persistent logins do usuário autenticado.
// O JWT em si expira sozinho.
func LogoutHandler(c *gin.Context) {
	userIDVal, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}
	userID := userIDVal.(uuid.UUID)

	if err := auth.ClearRememberMe(c.Request.Context(), database.GetDB(), userID); err != nil {
		aeglog.L.Error("Failed to clear persistent logins on logout", zap.String("userID", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
