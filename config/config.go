package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	App struct {
		Env         string `env:"APP_ENV"      envDefault:"development"`
		Port        string `env:"PORT"         envDefault:"8088"`
		FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
		LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"`
	}
	DB struct {
		Driver   string `env:"DB_DRIVER"   envDefault:"postgres"`
		Host     string `env:"DB_HOST"     envDefault:"localhost"`
		Port     string `env:"DB_PORT"     envDefault:"5432"`
		User     string `env:"DB_USER"     envDefault:"postgres"`
		Password string `env:"DB_PASSWORD" envDefault:"password"`
		Name     string `env:"DB_NAME"     envDefault:"rally"`
		SSLMode  string `env:"DB_SSLMODE"  envDefault:"disable"`
		TimeZone string `env:"DB_TIMEZONE" envDefault:"UTC"`
	}
	JWT struct {
		AccessTokenSecret string `env:"JWT_ACCESS_TOKEN_SECRET" envDefault:"supersecret"`
	}
	Redis struct {
		Addr          string `env:"REDIS_ADDR"`
		Password      string `env:"REDIS_PASSWORD"`
		DB            int    `env:"REDIS_DB"             envDefault:"0"`
		ChannelPrefix string `env:"REDIS_CHANNEL_PREFIX" envDefault:"rally"`
	}
	Rating struct {
		WaitlistOfferTTL     time.Duration  `env:"WAITLIST_OFFER_TTL"     envDefault:"24h"`
		SweepInterval        time.Duration  `env:"SWEEP_INTERVAL"         envDefault:"1m"`
		DefaultEventCapacity int            `env:"DEFAULT_EVENT_CAPACITY" envDefault:"16"`
		EventCapacities      map[string]int `env:"EVENT_CAPACITIES" envKeyValSeparator:"="`
	}
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("could not load .env, relying on system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.JWT.AccessTokenSecret == "supersecret" {
		logrus.Warn("using the default JWT secret; set JWT_ACCESS_TOKEN_SECRET for production")
	}
	if cfg.DB.Password == "password" && cfg.IsProduction() {
		logrus.Warn("using the default DB password in production; set DB_PASSWORD")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, c.DB.Driver)
	}
	if c.Rating.WaitlistOfferTTL <= 0 {
		return fmt.Errorf("WAITLIST_OFFER_TTL must be positive")
	}
	if c.Rating.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive")
	}
	if c.Rating.DefaultEventCapacity < 0 {
		return fmt.Errorf("DEFAULT_EVENT_CAPACITY cannot be negative")
	}
	return nil
}

// NewLogger builds the root logger: JSON in production, text elsewhere.
func NewLogger(cfg *Config) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(strings.ToLower(cfg.App.LogLevel))
	if err != nil {
		level = logrus.InfoLevel
		log.WithField("log_level", cfg.App.LogLevel).Warn("unknown LOG_LEVEL, using info")
	}
	log.SetLevel(level)
	return logrus.NewEntry(log).WithField("service", "rally")
}

// DSN is the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DB.Host,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.Port,
		c.DB.SSLMode,
		c.DB.TimeZone,
	)
}

// ConnectDB opens the postgres connection.
func ConnectDB(cfg *Config, log *logrus.Entry) (*gorm.DB, error) {
	gormConfig := &gorm.Config{}
	if cfg.App.Env == "development" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.WithFields(logrus.Fields{"host": cfg.DB.Host, "db": cfg.DB.Name}).Info("connected to database")
	return db, nil
}
