package accounts

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"aegisaccounts/backend/pkg/config"
)

// NewTokenValue gera um valor de token opaco: 32 bytes de crypto/rand em hex
// (256 bits de entropia). Colisão é tratada como negligível; a unicidade no
// banco rejeita o caso residual.
func NewTokenValue() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate token value: %w", err)
	}
	return hex.EncodeToString(tokenBytes), nil
}

// VerificationTokenExpiry retorna o instante de expiração de um token de
// verificação emitido agora (janela fixa, default 24h).
func VerificationTokenExpiry(now time.Time) time.Time {
	return now.Add(config.Cfg.VerificationTokenWindow)
}

// ResetTokenExpiry retorna o instante de expiração de um token de reset de
// senha emitido agora (janela fixa, default 1h).
func ResetTokenExpiry(now time.Time) time.Time {
	return now.Add(config.Cfg.ResetTokenWindow)
}
