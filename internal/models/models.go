package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole enforces the set of roles a user can hold.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// User é a conta de um usuário. Criada desabilitada no registro;
// Enabled vira true exatamente uma vez, pelo consumo de um token de verificação.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;"`
	Name         string    `gorm:"size:255;not null"`
	Email        string    `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `gorm:"size:255;not null"`
	Enabled      bool      `gorm:"not null;default:false"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'user'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}

// AutoMigrateDB automatically migrates the schema.
// Em produção as migrações são gerenciadas por arquivos SQL (golang-migrate);
// isto existe para ambientes de desenvolvimento e testes de integração.
func AutoMigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&VerificationToken{},
		&PasswordResetToken{},
		&PersistentLogin{},
		&SystemSetting{},
	)
}
