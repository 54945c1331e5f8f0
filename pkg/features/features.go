package features

import (
	"aegisaccounts/backend/pkg/config"
)

// Nomes de features conhecidas pela aplicação.
// Os toggles vêm de variáveis de ambiente com prefixo FEATURE_ (ver pkg/config).
const (
	// SelfRegistration controla se o endpoint público de registro está aberto.
	// Desabilitado, novas contas só podem ser criadas pelo setup/admin.
	SelfRegistration = "SELF_REGISTRATION"
)

// IsEnabled verifica se um feature toggle específico está habilitado.
// Feature não definida é considerada desabilitada, exceto as listadas em
// enabledByDefault.
func IsEnabled(featureName string) bool {
	if config.Cfg.FeatureToggles == nil {
		return enabledByDefault(featureName)
	}
	enabled, exists := config.Cfg.FeatureToggles[featureName]
	if !exists {
		return enabledByDefault(featureName)
	}
	return enabled
}

// GetFeatureToggleState retorna o estado de um feature toggle e se ele foi
// configurado explicitamente.
func GetFeatureToggleState(featureName string) (enabled bool, exists bool) {
	if config.Cfg.FeatureToggles == nil {
		return false, false
	}
	enabled, exists = config.Cfg.FeatureToggles[featureName]
	return enabled, exists
}

func enabledByDefault(featureName string) bool {
	switch featureName {
	case SelfRegistration:
		return true
	}
	return false
}
