package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig detém a configuração da aplicação.
type AppConfig struct {
	Port                    string
	AppRootURL              string
	FrontendBaseURL         string
	JWTSecret               string
	JWTTokenLifespan        time.Duration
	VerificationTokenWindow time.Duration
	ResetTokenWindow        time.Duration
	RememberMeWindow        time.Duration
	DBHost                  string
	DBPort                  string
	DBUser                  string
	DBPassword              string
	DBName                  string
	EnableDBSSL             bool
	Environment             string // "development", "staging", "production"
	AWSRegion               string
	AWSSESEmailSender       string
	AppVersion              string
	FeatureToggles          map[string]bool
}

var Cfg AppConfig

// LoadConfig carrega a configuração da aplicação de variáveis de ambiente.
func LoadConfig() {
	// Carregar .env para desenvolvimento local, ignorar erro se não existir (para produção)
	if err := godotenv.Load(); err != nil {
		log.Println("Aviso: Arquivo .env não encontrado ou erro ao carregar:", err)
	}

	Cfg.Port = getEnv("PORT", "8080")
	Cfg.AppRootURL = getEnv("APP_ROOT_URL", "http://localhost:8080")
	Cfg.FrontendBaseURL = getEnv("FRONTEND_BASE_URL", "http://localhost:3000")
	Cfg.JWTSecret = getEnv("JWT_SECRET_KEY", "a_very_secure_secret_key_please_change_me_32_chars_long")
	jwtLifespanHours, err := strconv.Atoi(getEnv("JWT_TOKEN_LIFESPAN_HOURS", "24"))
	if err != nil {
		log.Printf("Aviso: JWT_TOKEN_LIFESPAN_HOURS inválido, usando default 24h. Erro: %v", err)
		jwtLifespanHours = 24
	}
	Cfg.JWTTokenLifespan = time.Duration(jwtLifespanHours) * time.Hour

	Cfg.VerificationTokenWindow = getEnvAsDuration("VERIFICATION_TOKEN_WINDOW_HOURS", 24) * time.Hour
	Cfg.ResetTokenWindow = getEnvAsDuration("RESET_TOKEN_WINDOW_HOURS", 1) * time.Hour
	Cfg.RememberMeWindow = getEnvAsDuration("REMEMBER_ME_WINDOW_HOURS", 168) * time.Hour // 7 dias

	Cfg.DBHost = getEnv("DB_HOST", "localhost")
	Cfg.DBPort = getEnv("DB_PORT", "5432")
	Cfg.DBUser = getEnv("DB_USER", "aegis_user")
	Cfg.DBPassword = getEnv("DB_PASSWORD", "aegis_pass")
	Cfg.DBName = getEnv("DB_NAME", "aegis_accounts_db")
	Cfg.EnableDBSSL = getEnvAsBool("DB_SSL_ENABLE", false)

	Cfg.Environment = getEnv("ENVIRONMENT", "development")

	Cfg.AWSRegion = getEnv("AWS_REGION", "")
	Cfg.AWSSESEmailSender = getEnv("AWS_SES_EMAIL_SENDER", "")
	Cfg.AppVersion = getEnv("APP_VERSION", "unknown")

	Cfg.FeatureToggles = loadFeatureToggles()

	log.Printf("Configuração carregada para o ambiente: %s", Cfg.Environment)
}

// loadFeatureToggles lê variáveis de ambiente com prefixo FEATURE_ e monta o mapa de toggles.
// Ex: FEATURE_SELF_REGISTRATION=true vira FeatureToggles["SELF_REGISTRATION"] = true.
func loadFeatureToggles() map[string]bool {
	toggles := make(map[string]bool)
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "FEATURE_") {
			continue
		}
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 {
			continue
		}
		name := strings.TrimPrefix(pair[0], "FEATURE_")
		enabled, err := strconv.ParseBool(pair[1])
		if err != nil {
			log.Printf("Aviso: Feature toggle '%s' com valor inválido '%s', ignorando.", pair[0], pair[1])
			continue
		}
		toggles[name] = enabled
	}
	return toggles
}

// getEnv retorna o valor de uma variável de ambiente ou um valor default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsBool retorna o valor booleano de uma variável de ambiente ou um valor default.
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Aviso: Variável de ambiente booleana '%s' com valor inválido '%s', usando default: %t. Erro: %v", key, valStr, defaultValue, err)
		return defaultValue
	}
	return valBool
}

// getEnvAsDuration lê um inteiro em horas e retorna como time.Duration (sem multiplicar).
func getEnvAsDuration(key string, defaultHours int) time.Duration {
	valStr := getEnv(key, "")
	if valStr == "" {
		return time.Duration(defaultHours)
	}
	hours, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Aviso: Variável de ambiente '%s' com valor inválido '%s', usando default: %dh. Erro: %v", key, valStr, defaultHours, err)
		return time.Duration(defaultHours)
	}
	return time.Duration(hours)
}

func init() {
	LoadConfig() // Carregar config automaticamente na inicialização do pacote
}
