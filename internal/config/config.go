package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StorageLocal = "local"
	StorageMinIO = "minio"

	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
	SessionStoreMemory   = "memory"

	EnvProduction = "production"

	defaultSessionSecret = "scout_secret"
)

type DB struct {
	Driver     string
	URL        string
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	Folder     string
	PublicURL  string
}

type Storage struct {
	Backend       string
	UploadDir     string
	MaxUploadSize int64
	MinIO         MinIO
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Session struct {
	Secret          string
	Store           string
	CookieName      string
	MaxAge          time.Duration
	CleanupInterval time.Duration
	Redis           Redis
}

type Log struct {
	Level  string
	Format string
}

type Config struct {
	ServerPort int
	Env        string

	// AdminPasswordHash is a bcrypt hash and takes precedence over AdminPassword.
	AdminPassword     string
	AdminPasswordHash string

	APIKey                  string
	RequireAPIKeyForUploads bool
	RequireAPIKeyForList    bool

	CORSOrigins []string

	DB      DB
	Storage Storage
	Session Session
	Log     Log
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

func parseMaxUploadSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil || size <= 0 {
		return 10 * 1024 * 1024
	}
	return size
}

func LoadDB() DB {
	return DB{
		Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		URL:        getEnv("DATABASE_URL", ""),
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "postgres"),
		DbNAME:     getEnv("DB_NAME", "scout_db"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadMinIO() MinIO {
	useSSL := getEnvBool("MINIO_USE_SSL", false)
	endpoint := getEnv("MINIO_ENDPOINT", "localhost:9000")

	scheme := "http"
	if useSSL {
		scheme = "https"
	}

	return MinIO{
		Endpoint:   endpoint,
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "troop-uploads"),
		UseSSL:     useSSL,
		Region:     getEnv("MINIO_REGION", "us-east-1"),
		Folder:     strings.Trim(getEnv("MINIO_FOLDER", "troop423"), "/"),
		PublicURL:  strings.TrimRight(getEnv("MINIO_PUBLIC_URL", scheme+"://"+endpoint), "/"),
	}
}

func LoadStorage() Storage {
	return Storage{
		Backend:       strings.ToLower(getEnv("STORAGE_BACKEND", StorageLocal)),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSize: parseMaxUploadSize(getEnv("MAX_UPLOAD_SIZE", "10485760")),
		MinIO:         LoadMinIO(),
	}
}

func LoadSession() Session {
	return Session{
		Secret:          getEnv("SESSION_SECRET", defaultSessionSecret),
		Store:           strings.ToLower(getEnv("SESSION_STORE", SessionStorePostgres)),
		CookieName:      getEnv("SESSION_COOKIE_NAME", "troop.sid"),
		MaxAge:          parseDuration(getEnv("SESSION_MAX_AGE", "168h"), 7*24*time.Hour),
		CleanupInterval: parseDuration(getEnv("SESSION_CLEANUP_INTERVAL", "1h"), time.Hour),
		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	port := getEnvAsInt("SERVER_PORT", 8080)
	// PORT is what most hosting platforms inject
	port = getEnvAsInt("PORT", port)

	return &Config{
		ServerPort:              port,
		Env:                     strings.ToLower(getEnv("APP_ENV", "development")),
		AdminPassword:           getEnv("ADMIN_PASSWORD", ""),
		AdminPasswordHash:       getEnv("ADMIN_PASSWORD_HASH", ""),
		APIKey:                  getEnv("API_KEY", ""),
		RequireAPIKeyForUploads: getEnvBool("REQUIRE_API_KEY_FOR_UPLOADS", false),
		RequireAPIKeyForList:    getEnvBool("REQUIRE_API_KEY_FOR_LIST", false),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{
			"http://troop423.netlify.app",
			"http://troop423-admin-site.netlify.app",
		}),
		DB:      LoadDB(),
		Storage: LoadStorage(),
		Session: LoadSession(),
		Log: Log{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate reports configuration the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port %d", c.ServerPort))
	}

	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DB.Driver))
	}

	switch c.Storage.Backend {
	case StorageLocal:
		if c.Storage.UploadDir == "" {
			errs = append(errs, errors.New("UPLOAD_DIR must not be empty"))
		}
	case StorageMinIO:
		if c.Storage.MinIO.Endpoint == "" || c.Storage.MinIO.BucketName == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT and MINIO_BUCKET_NAME are required for minio storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend))
	}

	switch c.Session.Store {
	case SessionStorePostgres, SessionStoreRedis, SessionStoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_STORE %q", c.Session.Store))
	}

	if c.Session.Secret == "" {
		errs = append(errs, errors.New("SESSION_SECRET must not be empty"))
	}
	if c.IsProduction() && c.Session.Secret == defaultSessionSecret {
		errs = append(errs, errors.New("SESSION_SECRET must be changed in production"))
	}

	if len(c.CORSOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ORIGINS must list at least one origin"))
	}

	if (c.RequireAPIKeyForUploads || c.RequireAPIKeyForList) && c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required when an API key gate is enabled"))
	}

	return errors.Join(errs...)
}

// DSN returns the connection string for the configured driver.
func (d DB) DSN() string {
	if d.URL != "" {
		return d.URL
	}

	if d.Driver == DriverSQLite {
		return d.DbNAME + ".db"
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.DbHOST,
		d.DbPORT,
		d.DbUSER,
		d.DbPASSWORD,
		d.DbNAME,
		d.DbSSLMODE,
	)
}
