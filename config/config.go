package config

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Log      Log
	Database Database
	KV       KV
	Auth     Auth
	Attempts Attempts
	Checkout Checkout
	Gemini   Gemini
}

type Server struct {
	Port         string
	Mode         string
	AllowOrigins []string
}

type Log struct {
	Level  string
	Pretty bool
}

type Database struct {
	Driver   string // postgres | sqlite
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	DSN      string // sqlite file path
}

type KV struct {
	Backend       string // redis | database | memory
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type Auth struct {
	JWTSecret string
}

type Attempts struct {
	// DefaultCeiling applies to every category that does not set its own ceiling.
	DefaultCeiling int
}

type Checkout struct {
	BaseURL  string
	KeyID    string
	Currency string
}

type Gemini struct {
	APIKey string
	Model  string
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
	config.Server.Mode = viper.GetString("GIN_MODE")
	config.Server.AllowOrigins = splitList(viper.GetString("CORS_ALLOW_ORIGINS"))

	config.Log.Level = viper.GetString("LOG_LEVEL")
	config.Log.Pretty = viper.GetBool("LOG_PRETTY")

	config.Database.Driver = strings.ToLower(viper.GetString("DATABASE_DRIVER"))
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.DSN = viper.GetString("DATABASE_DSN")

	config.KV.Backend = strings.ToLower(viper.GetString("KV_BACKEND"))
	config.KV.RedisAddr = viper.GetString("REDIS_ADDR")
	config.KV.RedisPassword = viper.GetString("REDIS_PASSWORD")
	config.KV.RedisDB = viper.GetInt("REDIS_DB")

	config.Auth.JWTSecret = viper.GetString("JWT_SECRET")

	config.Attempts.DefaultCeiling = viper.GetInt("ATTEMPT_CEILING_DEFAULT")
	if config.Attempts.DefaultCeiling <= 0 {
		log.Warn().Int("ceiling", config.Attempts.DefaultCeiling).Msg("ATTEMPT_CEILING_DEFAULT must be positive, falling back to 3")
		config.Attempts.DefaultCeiling = 3
	}

	config.Checkout.BaseURL = viper.GetString("CHECKOUT_BASE_URL")
	config.Checkout.KeyID = viper.GetString("CHECKOUT_KEY_ID")
	config.Checkout.Currency = viper.GetString("CHECKOUT_CURRENCY")

	config.Gemini.APIKey = viper.GetString("GEMINI_API_KEY")
	config.Gemini.Model = viper.GetString("GEMINI_MODEL")

	log.Info().
		Str("port", config.Server.Port).
		Str("db_driver", config.Database.Driver).
		Str("kv_backend", config.KV.Backend).
		Int("attempt_ceiling", config.Attempts.DefaultCeiling).
		Bool("gemini_enabled", config.Gemini.APIKey != "").
		Msg("Config loaded")
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("CORS_ALLOW_ORIGINS", "*")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_DSN", "examprep.db")
	viper.SetDefault("KV_BACKEND", "database")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("ATTEMPT_CEILING_DEFAULT", 3)
	viper.SetDefault("CHECKOUT_BASE_URL", "https://checkout.example.com/pay")
	viper.SetDefault("CHECKOUT_CURRENCY", "INR")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
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
