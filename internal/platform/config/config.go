package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	Port     string `envconfig:"PORT" default:"8080"`
	Env      string `envconfig:"ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	AppName  string `envconfig:"APP_NAME" default:"pet-services"`

	// Storage: memory | mongo | postgres
	StoreDriver string `envconfig:"STORE_DRIVER" default:"memory"`
	MongoURI    string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDB     string `envconfig:"MONGO_DB" default:"petservices"`
	DBDSN       string `envconfig:"DB_DSN"`

	// Cache (vacío = sin cache)
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"10m"`

	// Auth. JWT_SECRET vacío = modo dev (headers X-Debug-*).
	JWTSecret   string        `envconfig:"JWT_SECRET"`
	JWTTTL      time.Duration `envconfig:"JWT_TTL" default:"12h"`
	OTPRequired bool          `envconfig:"OTP_REQUIRED" default:"false"`
	OTPTTL      time.Duration `envconfig:"OTP_TTL" default:"5m"`

	// Eventos. RABBIT_URL vacío = dispatch in-process.
	RabbitURL      string `envconfig:"RABBIT_URL"`
	RabbitExchange string `envconfig:"RABBIT_EXCHANGE" default:"petservices.events"`
	RabbitQueue    string `envconfig:"RABBIT_QUEUE" default:"petservices.notifications"`

	// Mail: log | smtp | relay
	MailDriver       string `envconfig:"MAIL_DRIVER" default:"log"`
	SMTPHost         string `envconfig:"SMTP_HOST"`
	SMTPPort         int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser         string `envconfig:"SMTP_USER"`
	SMTPPassword     string `envconfig:"SMTP_PASSWORD"`
	MailFrom         string `envconfig:"MAIL_FROM" default:"no-reply@petservices.local"`
	MailRelayURL     string `envconfig:"MAIL_RELAY_URL"`
	MailRelayKey     string `envconfig:"MAIL_RELAY_KEY"`
	AdminNotifyEmail string `envconfig:"ADMIN_NOTIFY_EMAIL"`

	PublicBaseURL   string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
	JobsEnabled     bool   `envconfig:"JOBS_ENABLED" default:"true"`
	SlotHorizonDays int    `envconfig:"SLOT_HORIZON_DAYS" default:"14"`
}

// Load lee .env (si existe) y luego las variables de entorno.
func Load() (App, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	var c App
	err := envconfig.Process("", &c)
	return c, err
}

// DevAuth indica que no hay verificación de tokens.
func (c App) DevAuth() bool {
	return c.JWTSecret == ""
}
