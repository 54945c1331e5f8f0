package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"aegisaccounts/backend/internal/models"
	"aegisaccounts/backend/pkg/config"
	aeglog "aegisaccounts/backend/pkg/log"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrRememberMeInvalid cobre série desconhecida, login expirado e token
// rotacionado incorreto. O caller não distingue os casos.
var ErrRememberMeInvalid = errors.New("invalid remember-me credential")

// RememberMeCredential é o par série/token entregue ao cliente.
// A série é estável por navegador; o token muda a cada resgate.
type RememberMeCredential struct {
	Series string `json:"series"`
	Token  string `json:"token"`
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// IssueRememberMe cria um persistent login para o usuário e retorna a
// credencial a ser guardada pelo cliente.
func IssueRememberMe(ctx context.Context, db *gorm.DB, user *models.User) (*RememberMeCredential, error) {
	series, err := randomHex(16)
	if err != nil {
		return nil, err
	}
	token, err := randomHex(16)
	if err != nil {
		return nil, err
	}

	login := models.PersistentLogin{
		Series:     series,
		UserID:     user.ID,
		Token:      token,
		LastUsedAt: time.Now(),
	}
	if err := db.WithContext(ctx).Create(&login).Error; err != nil {
		return nil, err
	}
	return &RememberMeCredential{Series: series, Token: token}, nil
}

// RedeemRememberMe valida um par série/token e, em caso de sucesso, rotaciona
// o token e retorna o usuário dono junto com a nova credencial.
// Token errado para uma série conhecida é tratado como indício de cookie
// roubado: todos os persistent logins do usuário são revogados.
func RedeemRememberMe(ctx context.Context, db *gorm.DB, series, token string) (*models.User, *RememberMeCredential, error) {
	var login models.PersistentLogin
	if err := db.WithContext(ctx).Where("series = ?", series).Preload("User").First(&login).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRememberMeInvalid
		}
		return nil, nil, err
	}

	if login.Token != token {
		aeglog.L.Warn("Remember-me token mismatch for known series, revoking all persistent logins for user",
			zap.String("series", series),
			zap.String("userID", login.UserID.String()))
		if err := ClearRememberMe(ctx, db, login.UserID); err != nil {
			aeglog.L.Error("Failed to revoke persistent logins", zap.Error(err))
		}
		return nil, nil, ErrRememberMeInvalid
	}

	if !time.Now().Before(login.LastUsedAt.Add(config.Cfg.RememberMeWindow)) {
		db.WithContext(ctx).Delete(&login)
		return nil, nil, ErrRememberMeInvalid
	}

	newToken, err := randomHex(16)
	if err != nil {
		return nil, nil, err
	}
	login.Token = newToken
	login.LastUsedAt = time.Now()
	if err := db.WithContext(ctx).Save(&login).Error; err != nil {
		return nil, nil, err
	}

	user := login.User
	return &user, &RememberMeCredential{Series: series, Token: newToken}, nil
}

// ClearRememberMe revoga todos os persistent logins de um usuário (logout).
func ClearRememberMe(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	return db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.PersistentLogin{}).Error
}
