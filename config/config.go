package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via env files or the environment.
type AppConfig struct {
	AppPort            string
	JWTSecret          string
	RateLimitPerMinute int
	AllowedOrigins     []string
	// Gin framework configuration
	GinMode string
	// Database (MySQL)
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Redis for media view caching
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Object storage (S3 compatible)
	StorageEndpoint      string
	StorageRegion        string
	StorageAccessKey     string
	StorageSecretKey     string
	StorageBucket        string
	StorageUseSSL        bool
	StoragePublicBaseURL string
	PresignExpiryMinutes int
	// Journal ownership service
	JournalBaseURL    string
	JournalTimeoutSec int
	// Stale UPLOADING records older than this are swept to FAILED
	UploadExpiryMinutes int
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration from environment variables. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	// Precedence: config/config.json -> defaults -> environment variable overrides
	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}
	if cfg.StorageBucket == "" {
		log.Fatal("STORAGE_BUCKET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads JSON file into cfg if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]any
	dec := json.NewDecoder(f)
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	getString := func(m map[string]any, key string) string {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		if v, ok := m[key]; ok {
			switch t := v.(type) {
			case float64:
				return int(t)
			case int:
				return t
			case json.Number:
				i, _ := t.Int64()
				return int(i)
			}
		}
		return 0
	}
	getBool := func(m map[string]any, key string) bool {
		if v, ok := m[key]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
		return false
	}
	getStringSlice := func(m map[string]any, key string) []string {
		if v, ok := m[key]; ok {
			if arr, ok := v.([]any); ok {
				res := make([]string, 0, len(arr))
				for _, it := range arr {
					if s, ok := it.(string); ok {
						res = append(res, s)
					}
				}
				return res
			}
		}
		return nil
	}

	if app, ok := raw["app"].(map[string]any); ok {
		out.AppPort = getString(app, "AppPort")
		out.JWTSecret = getString(app, "JWTSecret")
		out.GinMode = getString(app, "GinMode")
		if v := getInt(app, "RateLimitPerMinute"); v != 0 {
			out.RateLimitPerMinute = v
		}
		if list := getStringSlice(app, "AllowedOrigins"); len(list) > 0 {
			out.AllowedOrigins = list
		}
	}

	if db, ok := raw["database"].(map[string]any); ok {
		out.DatabaseURI = getString(db, "DatabaseURI")
		out.DBHost = getString(db, "DBHost")
		out.DBPort = getString(db, "DBPort")
		out.DBUser = getString(db, "DBUser")
		out.DBPassword = getString(db, "DBPassword")
		out.DBName = getString(db, "DBName")
	}

	if rd, ok := raw["redis"].(map[string]any); ok {
		out.RedisHost = getString(rd, "RedisHost")
		if v := getInt(rd, "RedisPort"); v != 0 {
			out.RedisPort = v
		}
		out.RedisDB = getInt(rd, "RedisDB")
		out.RedisPassword = getString(rd, "RedisPassword")
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		out.LogLevel = getString(lg, "LogLevel")
		out.LogPath = getString(lg, "LogPath")
		if v := getInt(lg, "LogMaxSizeMB"); v != 0 {
			out.LogMaxSizeMB = v
		}
		if v := getInt(lg, "LogMaxBackups"); v != 0 {
			out.LogMaxBackups = v
		}
		if v := getInt(lg, "LogMaxAgeDays"); v != 0 {
			out.LogMaxAgeDays = v
		}
		out.LogCompress = getBool(lg, "LogCompress")
	}

	if st, ok := raw["storage"].(map[string]any); ok {
		out.StorageEndpoint = getString(st, "Endpoint")
		out.StorageRegion = getString(st, "Region")
		out.StorageAccessKey = getString(st, "AccessKey")
		out.StorageSecretKey = getString(st, "SecretKey")
		out.StorageBucket = getString(st, "Bucket")
		out.StorageUseSSL = getBool(st, "UseSSL")
		out.StoragePublicBaseURL = getString(st, "PublicBaseURL")
		if v := getInt(st, "PresignExpiryMinutes"); v != 0 {
			out.PresignExpiryMinutes = v
		}
	}

	if jn, ok := raw["journal"].(map[string]any); ok {
		out.JournalBaseURL = getString(jn, "BaseURL")
		if v := getInt(jn, "TimeoutSec"); v != 0 {
			out.JournalTimeoutSec = v
		}
	}

	if up, ok := raw["upload"].(map[string]any); ok {
		if v := getInt(up, "ExpiryMinutes"); v != 0 {
			out.UploadExpiryMinutes = v
		}
	}

	return nil
}

func applyDefaults(out *AppConfig) {
	if out.AppPort == "" {
		out.AppPort = "8080"
	}
	if out.GinMode == "" {
		out.GinMode = "release"
	}
	if out.RateLimitPerMinute == 0 {
		out.RateLimitPerMinute = 120
	}
	if len(out.AllowedOrigins) == 0 {
		out.AllowedOrigins = []string{"*"}
	}
	if out.DBHost == "" {
		out.DBHost = "127.0.0.1"
	}
	if out.DBPort == "" {
		out.DBPort = "3306"
	}
	if out.DBUser == "" {
		out.DBUser = "tripmedia"
	}
	if out.DBName == "" {
		out.DBName = "tripmedia"
	}
	if out.RedisHost == "" {
		out.RedisHost = "127.0.0.1"
	}
	if out.RedisPort == 0 {
		out.RedisPort = 6379
	}
	if out.LogLevel == "" {
		out.LogLevel = "info"
	}
	if out.LogPath == "" {
		out.LogPath = "logs/tripmedia.log"
	}
	if out.LogMaxSizeMB == 0 {
		out.LogMaxSizeMB = 100
	}
	if out.LogMaxBackups == 0 {
		out.LogMaxBackups = 3
	}
	if out.LogMaxAgeDays == 0 {
		out.LogMaxAgeDays = 7
	}
	if out.StorageEndpoint == "" {
		out.StorageEndpoint = "127.0.0.1:9000"
	}
	if out.StorageRegion == "" {
		out.StorageRegion = "us-east-1"
	}
	if out.PresignExpiryMinutes == 0 {
		out.PresignExpiryMinutes = 20
	}
	if out.JournalTimeoutSec == 0 {
		out.JournalTimeoutSec = 4
	}
	if out.UploadExpiryMinutes == 0 {
		out.UploadExpiryMinutes = 120
	}
}

func applyEnvOverrides(out *AppConfig) {
	out.AppPort = getEnv("APP_PORT", out.AppPort)
	out.JWTSecret = getEnv("JWT_SECRET", out.JWTSecret)
	out.GinMode = getEnv("GIN_MODE", out.GinMode)
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			out.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				origins = append(origins, s)
			}
		}
		if len(origins) > 0 {
			out.AllowedOrigins = origins
		}
	}

	out.DatabaseURI = getEnv("DATABASE_URI", out.DatabaseURI)
	out.DBHost = getEnv("DB_HOST", out.DBHost)
	out.DBPort = getEnv("DB_PORT", out.DBPort)
	out.DBUser = getEnv("DB_USER", out.DBUser)
	out.DBPassword = getEnv("DB_PASSWORD", out.DBPassword)
	out.DBName = getEnv("DB_NAME", out.DBName)

	out.RedisHost = getEnv("REDIS_HOST", out.RedisHost)
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			out.RedisPort = n
		}
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			out.RedisDB = n
		}
	}
	out.RedisPassword = getEnv("REDIS_PASSWORD", out.RedisPassword)

	out.LogLevel = getEnv("LOG_LEVEL", out.LogLevel)
	out.LogPath = getEnv("LOG_PATH", out.LogPath)

	out.StorageEndpoint = getEnv("STORAGE_ENDPOINT", out.StorageEndpoint)
	out.StorageRegion = getEnv("STORAGE_REGION", out.StorageRegion)
	out.StorageAccessKey = getEnv("STORAGE_ACCESS_KEY", out.StorageAccessKey)
	out.StorageSecretKey = getEnv("STORAGE_SECRET_KEY", out.StorageSecretKey)
	out.StorageBucket = getEnv("STORAGE_BUCKET", out.StorageBucket)
	if v := os.Getenv("STORAGE_USE_SSL"); v != "" {
		out.StorageUseSSL = v == "1" || strings.EqualFold(v, "true")
	}
	out.StoragePublicBaseURL = getEnv("STORAGE_PUBLIC_BASE_URL", out.StoragePublicBaseURL)
	if v := os.Getenv("PRESIGN_EXPIRY_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			out.PresignExpiryMinutes = n
		}
	}

	out.JournalBaseURL = getEnv("JOURNAL_BASE_URL", out.JournalBaseURL)
	if v := os.Getenv("JOURNAL_TIMEOUT_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			out.JournalTimeoutSec = n
		}
	}
	if v := os.Getenv("UPLOAD_EXPIRY_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			out.UploadExpiryMinutes = n
		}
	}
}
