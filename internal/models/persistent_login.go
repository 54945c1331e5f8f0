package models

import (
	"time"

	"github.com/google/uuid"
)

// PersistentLogin é a credencial de longa duração do "remember-me".
// Esquema série/token: a série identifica o par navegador+usuário e é estável;
// o token é rotacionado a cada uso. Token errado para uma série conhecida é
// tratado como indício de cookie roubado (ver auth.RedeemRememberMe).
type PersistentLogin struct {
	Series     string    `gorm:"type:varchar(64);primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null"`
	User       User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Token      string    `gorm:"type:varchar(64);not null"`
	LastUsedAt time.Time `gorm:"not null"`
}

// TableName mantém o nome de tabela do esquema clássico de persistent tokens.
func (PersistentLogin) TableName() string {
	return "persistent_logins"
}
