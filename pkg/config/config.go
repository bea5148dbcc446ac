package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// SystemActorDefaultID actor usado cuando la operación no trae usuario autenticado.
const SystemActorDefaultID = "00000000-0000-0000-0000-000000000000"

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Ledger    LedgerConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	Telemetry TelemetryConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	Storage  string // postgres | memory
	SeedFile string // catálogo XML para el driver memory; vacío usa el catálogo por defecto
	Store    string // nombre impreso en los recibos
}

// IsDevelopment indica si corre en modo desarrollo.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	AutoMigrate bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT. Sin Secret la API no exige token y opera con el actor de sistema.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LedgerConfig identidad del actor de sistema.
type LedgerConfig struct {
	SystemActorID   string
	SystemActorName string
}

// RedisConfig almacenamiento de claves de idempotencia. URL vacía desactiva la función.
type RedisConfig struct {
	URL            string
	IdempotencyTTL time.Duration
}

// RabbitMQConfig publicación de eventos. URL vacía usa un publicador no-op.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// TelemetryConfig exportación de trazas OTLP. Endpoint vacío deja el tracer no-op.
type TelemetryConfig struct {
	Endpoint    string
	ServiceName string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, DB_PORT, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "pos-ledger"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			Storage:  strings.ToLower(getString(v, "STORAGE_DRIVER", StoragePostgres)),
			SeedFile: getString(v, "MEMORY_SEED_FILE", ""),
			Store:    getString(v, "STORE_NAME", "POS Ledger"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "pos_ledger"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			AutoMigrate: getBool(v, "MIGRATIONS_AUTO_RUN", false),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "pos-ledger"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Ledger: LedgerConfig{
			SystemActorID:   getString(v, "LEDGER_SYSTEM_ACTOR_ID", SystemActorDefaultID),
			SystemActorName: getString(v, "LEDGER_SYSTEM_ACTOR_NAME", "Sistema"),
		},
		Redis: RedisConfig{
			URL:            getString(v, "REDIS_URL", ""),
			IdempotencyTTL: time.Duration(getInt(v, "IDEMPOTENCY_TTL_SECONDS", 86400)) * time.Second,
		},
		RabbitMQ: RabbitMQConfig{
			URL:      getString(v, "RABBITMQ_URL", ""),
			Exchange: getString(v, "RABBITMQ_EXCHANGE", "pos.ledger"),
		},
		Telemetry: TelemetryConfig{
			Endpoint:    getString(v, "OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ServiceName: getString(v, "OTEL_SERVICE_NAME", "pos-ledger"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.App.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("config: STORAGE_DRIVER inválido %q (postgres|memory)", c.App.Storage)
	}
	if c.Ledger.SystemActorID == "" {
		return fmt.Errorf("config: LEDGER_SYSTEM_ACTOR_ID vacío")
	}
	if c.App.Env == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET es obligatorio en production")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
