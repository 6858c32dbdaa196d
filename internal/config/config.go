package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Supported storage drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	// MongoDB Configuration, used when Database.Driver is "mongo"
	MongoDB MongoDBConfig `json:"mongodb"`

	// Collection endpoint settings
	API APIConfig `json:"api"`

	Fixtures FixturesConfig `json:"fixtures"`

	// Logging Configuration
	Logging LoggingConfig `json:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port            string `json:"port" validate:"required,numeric"`
	Host            string `json:"host"`
	GRPCPort        string `json:"grpc_port" validate:"omitempty,numeric"`
	GRPCEnabled     bool   `json:"grpc_enabled"`
	ReadTimeout     int    `json:"read_timeout" validate:"min=1"`     // Seconds
	WriteTimeout    int    `json:"write_timeout" validate:"min=1"`    // Seconds
	ShutdownTimeout int    `json:"shutdown_timeout" validate:"min=1"` // Seconds
	Environment     string `json:"environment"`                       // development, staging, production
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver       string `json:"driver" validate:"oneof=mysql sqlite mongo"`
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns" validate:"min=1"`
	MaxIdleConns int    `json:"max_idle_conns" validate:"min=0"`

	// SQLitePath is the database file for the sqlite driver
	SQLitePath string `json:"sqlite_path" validate:"required_if=Driver sqlite"`
}

// MongoDBConfig contains MongoDB connection configuration
type MongoDBConfig struct {
	Host       string `json:"host"`
	Port       string `json:"port"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Database   string `json:"database"`
	Collection string `json:"collection"`
}

// APIConfig contains settings of the JSON-LD collection endpoint
type APIConfig struct {
	ItemsPerPage int `json:"items_per_page" validate:"min=1,max=1000"`
}

// FixturesConfig controls seeding when the server starts
type FixturesConfig struct {
	OnStartup int  `json:"on_startup" validate:"min=0"` // Number of messages, 0 disables
	Append    bool `json:"append"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level" validate:"oneof=debug info warn error"`
	Format     string `json:"format" validate:"oneof=json text"`
	OutputPath string `json:"output_path" validate:"required"` // stdout, stderr, or file path
}

// LoadConfig reads an optional .env file and builds the configuration from
// the environment, falling back to defaults.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("SERVER_PORT", "8000"),
			GRPCPort:        getEnv("GRPC_PORT", "9090"),
			GRPCEnabled:     getEnvAsBool("GRPC_ENABLED", true),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			Environment:     getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
			Host:         getEnv("MYSQL_HOST", "localhost"),
			Port:         getEnv("MYSQL_PORT", "3306"),
			Username:     getEnv("MYSQL_USERNAME", "messageapi"),
			Password:     getEnv("MYSQL_PASSWORD", "messageapi"),
			DatabaseName: getEnv("MYSQL_DATABASE", "messageapi"),
			MaxOpenConns: getEnvAsInt("MYSQL_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("MYSQL_MAX_IDLE_CONNS", 5),
			SQLitePath:   getEnv("SQLITE_PATH", "var/data.db"),
		},
		MongoDB: MongoDBConfig{
			Host:       getEnv("MONGO_HOST", "localhost"),
			Port:       getEnv("MONGO_PORT", "27017"),
			Username:   getEnv("MONGO_USERNAME", ""),
			Password:   getEnv("MONGO_PASSWORD", ""),
			Database:   getEnv("MONGO_DATABASE", "messageapi"),
			Collection: getEnv("MONGO_COLLECTION", "messages"),
		},
		API: APIConfig{
			ItemsPerPage: getEnvAsInt("API_ITEMS_PER_PAGE", 30),
		},
		Fixtures: FixturesConfig{
			OnStartup: getEnvAsInt("FIXTURES_ON_STARTUP", 0),
			Append:    getEnvAsBool("FIXTURES_APPEND", false),
		},
		Logging: LoggingConfig{
			Level:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format:     strings.ToLower(getEnv("LOG_FORMAT", "text")),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
	}
}

// Validate checks the configuration against its constraints.
func (cfg *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func (cfg *Config) GetMongoURI() string {
	m := cfg.MongoDB
	if m.Username != "" && m.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin",
			m.Username, m.Password, m.Host, m.Port, m.Database)
	}
	return fmt.Sprintf("mongodb://%s:%s/%s", m.Host, m.Port, m.Database)
}

// HTTPAddr is the listen address of the HTTP server.
func (s ServerConfig) HTTPAddr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// GRPCAddr is the listen address of the gRPC server.
func (s ServerConfig) GRPCAddr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.GRPCPort)
}

func (s ServerConfig) ShutdownGrace() time.Duration {
	return time.Duration(s.ShutdownTimeout) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid boolean for %s: %q, using default %t", key, value, defaultValue)
		return defaultValue
	}
	return b
}
