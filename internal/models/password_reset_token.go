package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PasswordResetToken armazena tokens para a funcionalidade de "esqueci minha senha".
// Um usuário pode pedir um novo token com um antigo ainda pendente; o antigo
// simplesmente expira ou é apagado quando um reset é concluído.
type PasswordResetToken struct {
	gorm.Model
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ExpiresAt time.Time `gorm:"not null"`
}

// Expired reporta se o token já passou da janela de validade.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
