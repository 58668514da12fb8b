package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	App struct {
		Env         string `env:"APP_ENV"      envDefault:"development"`
		Port        string `env:"PORT"         envDefault:"8088"`
		FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	}
	DB struct {
		Host     string `env:"DB_HOST"     envDefault:"localhost"`
		Port     string `env:"DB_PORT"     envDefault:"5432"`
		User     string `env:"DB_USER"     envDefault:"postgres"`
		Password string `env:"DB_PASSWORD" envDefault:"password"`
		Name     string `env:"DB_NAME"     envDefault:"cricksim_db"`
		SSLMode  string `env:"DB_SSLMODE"  envDefault:"disable"`
	}
	JWT struct {
		AccessTokenSecret        string `env:"JWT_ACCESS_TOKEN_SECRET"         envDefault:"supersecret"`
		AccessTokenExpiryMinutes int    `env:"JWT_ACCESS_TOKEN_EXPIRY_MINUTES" envDefault:"60"`
	}
	Operator struct {
		Username     string `env:"OPERATOR_USERNAME"      envDefault:"operator"`
		PasswordHash string `env:"OPERATOR_PASSWORD_HASH"`
	}
	Cache struct {
		Driver        string        `env:"CACHE_DRIVER"         envDefault:"memory"` // memory or redis
		RedisAddr     string        `env:"REDIS_ADDR"           envDefault:"localhost:6379"`
		RedisPassword string        `env:"REDIS_PASSWORD"`
		RedisDB       int           `env:"REDIS_DB"             envDefault:"0"`
		LiveTTL       time.Duration `env:"CACHE_LIVE_TTL"       envDefault:"10s"`
		ScoreboardTTL time.Duration `env:"CACHE_SCOREBOARD_TTL" envDefault:"30s"`
	}
	Broadcast struct {
		AMQPURL          string `env:"BROADCAST_AMQP_URL"`
		Exchange         string `env:"BROADCAST_AMQP_EXCHANGE" envDefault:"cricksim.live"`
		WebsocketEnabled bool   `env:"BROADCAST_WEBSOCKET"     envDefault:"true"`
	}
	AI struct {
		URL            string        `env:"AI_COMMENTARY_URL"        envDefault:"https://api.openai.com/v1/chat/completions"`
		APIKey         string        `env:"AI_COMMENTARY_API_KEY"`
		Model          string        `env:"AI_COMMENTARY_MODEL"      envDefault:"gpt-4o-mini"`
		DailyLimit     int           `env:"AI_COMMENTARY_DAILY_LIMIT" envDefault:"500"`
		PerMinuteLimit int           `env:"AI_COMMENTARY_RPM_LIMIT"  envDefault:"20"`
		Timeout        time.Duration `env:"AI_COMMENTARY_TIMEOUT"    envDefault:"5s"`
	}
	Simulation struct {
		Seed             int64  `env:"SIMULATION_SEED"          envDefault:"0"` // 0 draws a crypto seed
		DefaultDelaySecs int    `env:"SIMULATION_DEFAULT_DELAY" envDefault:"3"`
		OutcomeTablePath string `env:"SIMULATION_OUTCOME_TABLE"`
	}
	Telemetry struct {
		OTLPEndpoint string `env:"OTEL_EXPORTER_ENDPOINT"`
	}
	Log struct {
		Level string `env:"LOG_LEVEL" envDefault:"info"`
	}
}

// Global DB instance, accessible after ConnectDB() is called via Initialize.
var DB *gorm.DB

var appConfig *Config
var once sync.Once

// LoadConfig loads configuration from the environment (and an optional .env file).
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on system environment variables.")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.JWT.AccessTokenSecret == "supersecret" {
		log.Println("WARNING: Using default JWT secret. Please set JWT_ACCESS_TOKEN_SECRET for production.")
	}
	if cfg.DB.Password == "password" && cfg.App.Env == "production" {
		log.Println("WARNING: Using default DB password in production. Please set DB_PASSWORD environment variable.")
	}
	if cfg.Simulation.DefaultDelaySecs < 0 {
		return nil, fmt.Errorf("invalid SIMULATION_DEFAULT_DELAY: %d", cfg.Simulation.DefaultDelaySecs)
	}

	appConfig = cfg
	return cfg, nil
}

// ConnectDB establishes a connection to the database using the provided configuration.
// It sets the global DB variable.
func ConnectDB(dbCfg Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		dbCfg.DB.Host,
		dbCfg.DB.User,
		dbCfg.DB.Password,
		dbCfg.DB.Name,
		dbCfg.DB.Port,
		dbCfg.DB.SSLMode,
	)

	gormConfig := &gorm.Config{}
	if dbCfg.App.Env == "development" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = gormDB
	log.Println("Successfully connected to database!")
	return gormDB, nil
}

// Initialize loads all configurations and connects to the database.
// This should be called once at the start of the application.
func Initialize() error {
	var loadErr error
	once.Do(func() {
		loadedCfg, err := LoadConfig()
		if err != nil {
			loadErr = fmt.Errorf("failed to load configuration: %w", err)
			return
		}
		appConfig = loadedCfg

		if _, err = ConnectDB(*appConfig); err != nil {
			loadErr = fmt.Errorf("failed to connect to database during initialization: %w", err)
			return
		}
	})
	return loadErr
}

// GetConfig returns the loaded application configuration.
func GetConfig() *Config {
	if appConfig == nil {
		log.Fatal("Configuration not loaded. Call config.Initialize() first.")
	}
	return appConfig
}

// AutoDelay is the configured pause between auto-simulated balls.
func (c *Config) AutoDelay() time.Duration {
	return time.Duration(c.Simulation.DefaultDelaySecs) * time.Second
}
