package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Admin     AdminConfig
	MinIO     MinIOConfig
	RabbitMQ  RabbitMQConfig
	Razorpay  RazorpayConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type AppConfig struct {
	Port             string
	Env              string
	Timezone         string
	LogLevel         string
	DefaultAvatarURL string
	MaxUploadBytes   int64
}

type DBConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	SSLMode       string
	MigrateOnBoot bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// JWTConfig holds per-role token lifetimes. Admin sessions are short lived.
type JWTConfig struct {
	Secret        string
	PatientExpiry time.Duration
	DoctorExpiry  time.Duration
	AdminExpiry   time.Duration
}

// AdminConfig is the single administrator identity. There is no admin row in the database.
type AdminConfig struct {
	Email    string
	Password string
}

type MinIOConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	Currency  string
}

type RateLimitConfig struct {
	LoginRequests int
	LoginWindow   time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	viper.AutomaticEnv()
	setDefaults()

	config := &Config{
		App: AppConfig{
			Port:             viper.GetString("APP_PORT"),
			Env:              viper.GetString("APP_ENV"),
			Timezone:         viper.GetString("APP_TIMEZONE"),
			LogLevel:         viper.GetString("LOG_LEVEL"),
			DefaultAvatarURL: viper.GetString("APP_DEFAULT_AVATAR_URL"),
			MaxUploadBytes:   viper.GetInt64("APP_MAX_UPLOAD_BYTES"),
		},
		DB: DBConfig{
			Host:          viper.GetString("DB_HOST"),
			Port:          viper.GetString("DB_PORT"),
			User:          viper.GetString("DB_USER"),
			Password:      viper.GetString("DB_PASSWORD"),
			Name:          viper.GetString("DB_NAME"),
			SSLMode:       viper.GetString("DB_SSLMODE"),
			MigrateOnBoot: viper.GetBool("DB_MIGRATE_ON_BOOT"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			PatientExpiry: parseDuration("JWT_PATIENT_EXPIRY", 7*24*time.Hour),
			DoctorExpiry:  parseDuration("JWT_DOCTOR_EXPIRY", 7*24*time.Hour),
			AdminExpiry:   parseDuration("JWT_ADMIN_EXPIRY", time.Hour),
		},
		Admin: AdminConfig{
			Email:    viper.GetString("ADMIN_EMAIL"),
			Password: viper.GetString("ADMIN_PASSWORD"),
		},
		MinIO: MinIOConfig{
			Endpoint:      viper.GetString("MINIO_ENDPOINT"),
			AccessKey:     viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey:     viper.GetString("MINIO_SECRET_KEY"),
			Bucket:        viper.GetString("MINIO_BUCKET"),
			UseSSL:        viper.GetBool("MINIO_USE_SSL"),
			PublicBaseURL: viper.GetString("MINIO_PUBLIC_BASE_URL"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      viper.GetString("RABBITMQ_URL"),
			Exchange: viper.GetString("RABBITMQ_EXCHANGE"),
		},
		Razorpay: RazorpayConfig{
			KeyID:     viper.GetString("RAZORPAY_KEY_ID"),
			KeySecret: viper.GetString("RAZORPAY_KEY_SECRET"),
			Currency:  viper.GetString("CURRENCY"),
		},
		RateLimit: RateLimitConfig{
			LoginRequests: viper.GetInt("RATE_LIMIT_LOGIN_REQUESTS"),
			LoginWindow:   parseDuration("RATE_LIMIT_LOGIN_WINDOW", time.Minute),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("APP_DEFAULT_AVATAR_URL", "")
	viper.SetDefault("APP_MAX_UPLOAD_BYTES", 5<<20)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MIGRATE_ON_BOOT", true)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("MINIO_BUCKET", "doctor-appointment")
	viper.SetDefault("RABBITMQ_EXCHANGE", "appointments")
	viper.SetDefault("CURRENCY", "INR")
	viper.SetDefault("RATE_LIMIT_LOGIN_REQUESTS", 10)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
