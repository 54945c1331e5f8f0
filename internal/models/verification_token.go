package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationToken armazena o token de confirmação de e-mail emitido no registro.
// Um usuário tem no máximo um token de verificação vivo (uniqueIndex em UserID);
// o token nunca é marcado como "usado"; ele se torna irrelevante quando a conta
// já está habilitada.
type VerificationToken struct {
	gorm.Model
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ExpiresAt time.Time `gorm:"not null"`
}

// Expired reporta se o token já passou da janela de validade.
// A comparação é issuedAt + window <= now.
func (t *VerificationToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
