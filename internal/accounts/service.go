package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"aegisaccounts/backend/internal/models"
	aeglog "aegisaccounts/backend/pkg/log"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service orquestra registro, ativação e troca de senha contra o Credential
// Store e o Token Store. Cada operação roda dentro de uma única requisição;
// a corrida de registro para o mesmo e-mail é resolvida pelo índice único.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// isDuplicateKey traduz a violação de constraint única do storage para o
// erro de domínio. O driver postgres do GORM só traduz com TranslateError
// ligado, então caímos para a mensagem do Postgres.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

// FindUserByEmail busca um usuário pelo e-mail. Retorna ErrUserNotFound
// (interno, nunca exposto) quando não existe.
func (s *Service) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// RegisterNewUser cria um usuário desabilitado com a senha hasheada via bcrypt.
// Falha com ErrDuplicateEmail se o e-mail já pertence a uma conta, seja pelo
// lookup prévio, seja pela constraint única quando duas requisições disputam
// o mesmo e-mail.
func (s *Service) RegisterNewUser(ctx context.Context, name, email, password string) (*models.User, error) {
	if _, err := s.FindUserByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Enabled:      false,
		Role:         models.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &user, nil
}

// UpdateExistingUser persiste alterações em um usuário existente. Falha com
// ErrDuplicateEmail se outro usuário (id diferente) já possui o e-mail alvo.
// A senha só é re-hasheada quando newPassword é não vazia; vazia significa
// "manter a atual".
func (s *Service) UpdateExistingUser(ctx context.Context, user *models.User, newPassword string) error {
	owner, err := s.FindUserByEmail(ctx, user.Email)
	if err == nil && owner.ID != user.ID {
		return ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return err
	}

	if newPassword != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// MintVerificationToken emite o token de confirmação de e-mail do usuário.
// A emissão não é transacional com o insert do usuário; quem chama é
// responsável por despachar a notificação.
func (s *Service) MintVerificationToken(ctx context.Context, user *models.User) (*models.VerificationToken, error) {
	value, err := NewTokenValue()
	if err != nil {
		return nil, err
	}
	token := models.VerificationToken{
		Token:     value,
		UserID:    user.ID,
		ExpiresAt: VerificationTokenExpiry(time.Now()),
	}
	if err := s.db.WithContext(ctx).Create(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// ConfirmRegistration consome um token de verificação e habilita a conta dona.
// Re-confirmar com o mesmo token depois do sucesso re-habilita uma conta já
// habilitada, um no-op inofensivo; o token em si não é marcado como usado.
func (s *Service) ConfirmRegistration(ctx context.Context, tokenValue string) (*models.User, error) {
	var token models.VerificationToken
	if err := s.db.WithContext(ctx).Where("token = ?", tokenValue).Preload("User").First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if token.Expired(time.Now()) {
		return nil, ErrExpiredToken
	}

	user := token.User
	user.Enabled = true
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// RequestPasswordReset emite um token de reset para o dono do e-mail e o
// devolve para despacho. E-mail desconhecido retorna (nil, nil): a operação
// silenciosamente não faz nada e o caller ainda reporta sucesso, para não
// vazar a existência da conta.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (*models.PasswordResetToken, error) {
	user, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			aeglog.L.Info("Password reset requested for non-existent email", zap.String("email", email))
			return nil, nil
		}
		return nil, err
	}

	value, err := NewTokenValue()
	if err != nil {
		return nil, err
	}
	token := models.PasswordResetToken{
		Token:     value,
		UserID:    user.ID,
		ExpiresAt: ResetTokenExpiry(time.Now()),
	}
	if err := s.db.WithContext(ctx).Create(&token).Error; err != nil {
		return nil, err
	}
	token.User = *user
	return &token, nil
}

// BeginPasswordReset valida o par id+token do link de reset: o token precisa
// existir, não estar expirado e pertencer ao usuário identificado por userID.
// Token inexistente e dono errado retornam o mesmo ErrInvalidToken; expiração
// retorna ErrExpiredToken, mas o handler apresenta a mesma mensagem para os
// três casos.
func (s *Service) BeginPasswordReset(ctx context.Context, userID uuid.UUID, tokenValue string) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	if err := s.db.WithContext(ctx).Where("token = ?", tokenValue).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if token.UserID != userID {
		return nil, ErrInvalidToken
	}
	if token.Expired(time.Now()) {
		return nil, ErrExpiredToken
	}
	return &token, nil
}

// CompletePasswordReset revalida o token, troca a senha e apaga o token.
// A deleção fecha a janela de replay: uma segunda conclusão com o mesmo
// token falha com ErrInvalidToken.
func (s *Service) CompletePasswordReset(ctx context.Context, tokenValue, newPassword, confirmation string) (*models.User, error) {
	if newPassword != confirmation {
		return nil, ErrPasswordMismatch
	}

	var token models.PasswordResetToken
	if err := s.db.WithContext(ctx).Where("token = ?", tokenValue).Preload("User").First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if token.Expired(time.Now()) {
		return nil, ErrExpiredToken
	}

	user := token.User
	if err := s.ChangePassword(ctx, &user, newPassword); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Delete(&token).Error; err != nil {
		// A senha já foi trocada; um token órfão só expira mais cedo ou tarde.
		aeglog.L.Error("Failed to delete consumed password reset token", zap.Error(err))
	}
	return &user, nil
}

// ChangePassword hasheia e persiste incondicionalmente a nova senha.
// Usado por fluxos já autenticados; nenhuma checagem de token.
func (s *Service) ChangePassword(ctx context.Context, user *models.User, newPlaintext string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPlaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedPassword)
	return s.db.WithContext(ctx).Save(user).Error
}

// FindPasswordResetTokenByUserID retorna o token de reset mais recente de um
// usuário, se houver.
func (s *Service) FindPasswordResetTokenByUserID(ctx context.Context, userID uuid.UUID) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return &token, nil
}
