package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Gemini   Gemini
	JWT      JWT
	Redis    Redis
	Upload   Upload
}

type Server struct {
	Port             string
	GinMode          string
	CORSAllowOrigins []string
}

type Database struct {
	Driver       string // "postgres" or "sqlite"
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	DSN          string // sqlite file path, or full postgres DSN override
	MaxOpenConns int
	QueryTimeout time.Duration
}

type Gemini struct {
	ApiKey        string
	Model         string
	QuestionCount int
}

type JWT struct {
	Secret        string
	ExpireMinutes int
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	QuizTTL  time.Duration
}

type Upload struct {
	MaxBytes int64
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.GinMode = viper.GetString("GIN_MODE")
	config.Server.CORSAllowOrigins = splitList(viper.GetString("CORS_ALLOW_ORIGINS"))

	config.Database.Driver = strings.ToLower(viper.GetString("DATABASE_DRIVER"))
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")
	config.Database.DSN = viper.GetString("DATABASE_DSN")
	config.Database.MaxOpenConns = viper.GetInt("DATABASE_MAX_OPEN_CONNS")
	config.Database.QueryTimeout = viper.GetDuration("DATABASE_QUERY_TIMEOUT")

	config.Gemini.ApiKey = viper.GetString("GEMINI_API_KEY")
	config.Gemini.Model = viper.GetString("GEMINI_MODEL")
	config.Gemini.QuestionCount = viper.GetInt("GEMINI_QUESTION_COUNT")

	config.JWT.Secret = viper.GetString("JWT_SECRET")
	config.JWT.ExpireMinutes = viper.GetInt("JWT_EXPIRE_MINUTES")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")
	config.Redis.QuizTTL = viper.GetDuration("QUIZ_CACHE_TTL")

	config.Upload.MaxBytes = viper.GetInt64("UPLOAD_MAX_BYTES")

	log.Info().Interface("config", config.Redacted()).Msg("Config loaded")
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8000")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("CORS_ALLOW_ORIGINS", "*")
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_HOST", "localhost")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DATABASE_QUERY_TIMEOUT", "10s")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-pro")
	viper.SetDefault("GEMINI_QUESTION_COUNT", 5)
	viper.SetDefault("JWT_EXPIRE_MINUTES", 60*24)
	viper.SetDefault("QUIZ_CACHE_TTL", "10m")
	viper.SetDefault("UPLOAD_MAX_BYTES", 10<<20)
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.Database.Password != "" {
		c.Database.Password = "***"
	}
	if c.Gemini.ApiKey != "" {
		c.Gemini.ApiKey = "***"
	}
	if c.JWT.Secret != "" {
		c.JWT.Secret = "***"
	}
	if c.Redis.Password != "" {
		c.Redis.Password = "***"
	}
	return c
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
