package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Groq     GroqConfig
	Assembly AssemblyAIConfig
	Minutes  MinutesConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"mom_generator"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"5"`
	// Directory holding the sql-migrate files
	MigrationsDir string `envconfig:"DB_MIGRATIONS_DIR" default:"migrations"`
}

// RedisConfig holds Redis configuration. An empty host disables Redis and the
// in-memory store is used instead.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	AccessSecret string        `envconfig:"JWT_ACCESS_SECRET" default:"your-access-secret-change-in-production"`
	AccessExpiry time.Duration `envconfig:"JWT_ACCESS_EXPIRY" default:"15m"`
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Type            string `envconfig:"STORAGE_TYPE" default:"minio"` // "minio" or "s3"
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"mom-generator"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
	PublicURL       string `envconfig:"STORAGE_PUBLIC_URL"`
	// Expiry of the download links returned after an upload
	URLExpiry time.Duration `envconfig:"STORAGE_URL_EXPIRY" default:"168h"`
}

// GroqConfig holds the generation backend configuration.
// An empty API key runs generation offline.
type GroqConfig struct {
	APIKey  string        `envconfig:"GROQ_API_KEY"`
	BaseURL string        `envconfig:"GROQ_API_URL" default:"https://api.groq.com"`
	Model   string        `envconfig:"GROQ_MODEL" default:"llama-3.1-70b-versatile"`
	Timeout time.Duration `envconfig:"GROQ_TIMEOUT" default:"30s"`
}

// AssemblyAIConfig holds voice-note transcription configuration
type AssemblyAIConfig struct {
	APIKey       string `envconfig:"ASSEMBLYAI_API_KEY"`
	LanguageCode string `envconfig:"ASSEMBLYAI_LANGUAGE" default:"en"`
}

// MinutesConfig holds minutes pipeline settings
type MinutesConfig struct {
	IdentifierPrefix string        `envconfig:"MOM_ID_PREFIX" default:"MOM"`
	ScanLimit        int           `envconfig:"MOM_ID_SCAN_LIMIT" default:"100"`
	GenerateCooldown time.Duration `envconfig:"MOM_GENERATE_COOLDOWN" default:"5s"`
	SaveAttempts     int           `envconfig:"MOM_SAVE_ATTEMPTS" default:"5"`
	SessionTTL       time.Duration `envconfig:"MOM_SESSION_TTL" default:"12h"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}
	// Sections are processed one by one so variables keep their flat names.
	sections := []interface{}{
		&config.Server,
		&config.Database,
		&config.Redis,
		&config.JWT,
		&config.Storage,
		&config.Groq,
		&config.Assembly,
		&config.Minutes,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// IsProduction reports whether the server runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Minutes.IdentifierPrefix == "" {
		return fmt.Errorf("MOM_ID_PREFIX must not be empty")
	}
	if c.Minutes.ScanLimit <= 0 {
		return fmt.Errorf("MOM_ID_SCAN_LIMIT must be positive")
	}
	if c.Minutes.SaveAttempts <= 0 {
		return fmt.Errorf("MOM_SAVE_ATTEMPTS must be positive")
	}
	if !c.IsProduction() {
		return nil
	}
	if c.JWT.AccessSecret == "" || c.JWT.AccessSecret == "your-access-secret-change-in-production" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required in production")
	}
	if c.Storage.SecretAccessKey == "minioadmin" {
		return fmt.Errorf("STORAGE_SECRET_KEY is required in production")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// RedisEnabled reports whether a Redis host was configured
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}
