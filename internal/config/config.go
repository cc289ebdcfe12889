package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseURL         string
	RedisURL            string
	JWTAccessSecret     string
	JWTRefreshSecret    string
	AccessTokenExpiry   time.Duration
	RefreshTokenExpiry  time.Duration
	TokenIssuer         string
	DashboardCacheTTL   time.Duration
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	MaxUploadBytes      int64
	LoginRateLimit      int
	LoginRateWindow     time.Duration
	CORSAllowOrigins    string
	SeedEnabled         bool
	SeedToken           string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and an optional
// .env file. Token secrets have no defaults; the service refuses to start
// without them.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("JUPITER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "JUPITER HR API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "jupiter-hr")
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("cloudinary.folder", "jupiter/documents")
	v.SetDefault("upload.max_bytes", 5*1024*1024)
	v.SetDefault("login.rate_limit", 10)
	v.SetDefault("login.rate_window", "1m")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("seed.enabled", false)

	accessExpiry, err := parseDuration(v, "jwt.access_expiry")
	if err != nil {
		return Config{}, err
	}
	refreshExpiry, err := parseDuration(v, "jwt.refresh_expiry")
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := parseDuration(v, "dashboard.cache_ttl")
	if err != nil {
		return Config{}, err
	}
	rateWindow, err := parseDuration(v, "login.rate_window")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		JWTAccessSecret:     v.GetString("jwt.access_secret"),
		JWTRefreshSecret:    v.GetString("jwt.refresh_secret"),
		AccessTokenExpiry:   accessExpiry,
		RefreshTokenExpiry:  refreshExpiry,
		TokenIssuer:         v.GetString("jwt.issuer"),
		DashboardCacheTTL:   cacheTTL,
		CloudinaryCloudName: v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:    v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret: v.GetString("cloudinary.api_secret"),
		CloudinaryFolder:    v.GetString("cloudinary.folder"),
		MaxUploadBytes:      v.GetInt64("upload.max_bytes"),
		LoginRateLimit:      v.GetInt("login.rate_limit"),
		LoginRateWindow:     rateWindow,
		CORSAllowOrigins:    v.GetString("cors.allow_origins"),
		SeedEnabled:         v.GetBool("seed.enabled"),
		SeedToken:           v.GetString("seed.token"),
	}

	if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
		return Config{}, fmt.Errorf("jwt secrets must be provided")
	}

	if cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
		return Config{}, fmt.Errorf("access and refresh secrets must differ")
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 5 * 1024 * 1024
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
