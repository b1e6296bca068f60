// Package config gestiona toda la configuración de la aplicación de forma
// centralizada. Lee variables de entorno y soporta un archivo .env en desarrollo.
//
// En lugar de llamar os.Getenv() disperso por el código, se carga un único
// struct Config en el arranque y se inyecta donde haga falta.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config agrupa todos los valores de configuración.
// Cada sección es un struct propio — un concern por struct.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Session  SessionConfig
	Backend  BackendConfig
	Email    EmailConfig
	Crypto   CryptoConfig
}

// ServerConfig, ajustes del servidor HTTP.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig, ruta del archivo SQLite.
type DatabaseConfig struct {
	Path string // ej: ./data/portal.db
}

// JWTConfig, ajustes del token de acceso emitido por el módulo de identidad.
type JWTConfig struct {
	Secret       string // clave de firma — NUNCA se commitea
	ExpiryHours  int    // vida del token en horas (defecto: 8)
}

// SessionConfig, ajustes de la cookie de sesión del portal.
//
// Secure se deriva de APP_ENV: en producción la cookie viaja solo por HTTPS.
type SessionConfig struct {
	Secure bool
}

// BackendConfig, URL base del backend de identidad al que el proxy
// /api/auth/me reenvía el bearer token. En el despliegue monolítico apunta
// al propio proceso; la frontera de confianza es la misma.
type BackendConfig struct {
	BaseURL string // ej: http://localhost:8080
}

// EmailConfig, ajustes del envío de correo transaccional (Resend).
type EmailConfig struct {
	APIKey    string // re_xxxxxxxx — vacío deshabilita el envío
	FromEmail string // remitente verificado en Resend
	AppURL    string // URL pública del portal, usada en los enlaces
}

// CryptoConfig, clave AES para cifrar datos de contacto PQRS en reposo.
type CryptoConfig struct {
	AESKeyHex string // 64 caracteres hex = 32 bytes
}

// Load construye un Config desde variables de entorno.
// Si existe un .env lo carga primero; en producción no existe y se usan
// las variables reales del entorno.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	expiryHours, err := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_HOURS: %w", err)
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/portal.db"),
		},
		JWT: JWTConfig{
			Secret:      jwtSecret,
			ExpiryHours: expiryHours,
		},
		Session: SessionConfig{
			Secure: getEnv("APP_ENV", "development") == "production",
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_BASE_URL", fmt.Sprintf("http://localhost:%d", port)),
		},
		Email: EmailConfig{
			APIKey:    getEnv("RESEND_API_KEY", ""),
			FromEmail: getEnv("EMAIL_FROM", "noreply@vozciudadana.gov.co"),
			AppURL:    getEnv("APP_URL", "http://localhost:3000"),
		},
		Crypto: CryptoConfig{
			AESKeyHex: getEnv("PQRS_AES_KEY", ""),
		},
	}

	return cfg, nil
}

// Addr devuelve la dirección de escucha, ej: "0.0.0.0:8080".
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv lee una variable de entorno con valor por defecto.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
