package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AdminToken        string `mapstructure:"ADMIN_TOKEN"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB       int    `mapstructure:"REDIS_SESSION_DB"`
	RedisSlotLockDB      int    `mapstructure:"REDIS_SLOT_LOCK_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Google AI / Cloud.
	GeminiAPIKey             string `mapstructure:"GEMINI_API_KEY"`
	GoogleServiceAccountFile string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_FILE"`

	// Cloudinary (payment proof storage).
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`

	// Stripe (card payment intents).
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Outbound webhook the transport listens on for async messages (reminders).
	TransportWebhookURL string `mapstructure:"TRANSPORT_WEBHOOK_URL"`

	// Report output directory.
	ReportsDir string `mapstructure:"REPORTS_DIR"`

	// Clinic identity rendered in prompts.
	ClinicName    string `mapstructure:"CLINIC_NAME"`
	ClinicAddress string `mapstructure:"CLINIC_ADDRESS"`
	ClinicMapURL  string `mapstructure:"CLINIC_MAP_URL"`
	BotName       string `mapstructure:"BOT_NAME"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_SLOT_LOCK_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "clinicbot")
	viper.SetDefault("REPORTS_DIR", "./reportes")
	viper.SetDefault("CLINIC_NAME", "Consultorio Ana María López Fisioterapia Especializada")
	viper.SetDefault("CLINIC_ADDRESS", "Cra 7 # 10N - 16, barrio Prados del Norte, Popayán, Colombia")
	viper.SetDefault("CLINIC_MAP_URL", "https://maps.app.goo.gl/XqJX1Xb177k7Dqk36")
	viper.SetDefault("BOT_NAME", "Gon")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
