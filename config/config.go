package config

import (
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config defines the app configuration. Boolean switches carry no env-default
// because cleanenv would apply it over an explicit false read from the YAML file.
type Config struct {
	Server struct {
		Port int    `yaml:"port" env:"PORT" env-default:"4000"`
		Env  string `yaml:"env" env:"ENV" env-default:"development" env-description:"development|test|production"`
	} `yaml:"server"`
	Database struct {
		Driver       string `yaml:"driver" env:"DBDRIVER" env-default:"postgres" env-description:"postgres|pgx"`
		DSN          string `yaml:"dsn" env:"DSN"`
		TestDSN      string `yaml:"test_dsn" env:"TESTDSN"`
		MaxOpenConns int    `yaml:"max_open_conns" env:"MAXOPENCONNS" env-default:"25"`
		MaxIdleConns int    `yaml:"max_idle_conns" env:"MAXIDLECONNS" env-default:"25"`
		MaxIdleTime  string `yaml:"max_idle_time" env:"MAXIDLETIME" env-default:"15m"`
		Migrate      bool   `yaml:"migrate" env:"MIGRATE"`
	} `yaml:"database"`
	Limiter struct {
		RPS     float64 `yaml:"rps" env:"RPS" env-default:"4"`
		Burst   int     `yaml:"burst" env:"BURST" env-default:"8"`
		Enabled bool    `yaml:"enabled" env:"LENABLED"`
	} `yaml:"limiter"`
	Cors struct {
		TrustedOrigins []string `yaml:"trusted_origins" env:"TRUSTEDORIGINS" env-separator:" "`
	} `yaml:"cors"`
	Metrics struct {
		Enabled bool `yaml:"enabled" env:"MENABLED"`
	} `yaml:"metrics"`
	BasicAuth struct {
		Username string `yaml:"username" env:"BASIC_AUTH_USERNAME"`
		Password string `yaml:"password" env:"BASIC_AUTH_PASSWORD"`
	} `yaml:"basic_auth"`
	Log struct {
		Level string `yaml:"level" env:"LOGLEVEL" env-default:"info"`
	} `yaml:"log"`
}

// Decode reads the configuration from the YAML file named by CONFIG_PATH, if set,
// and from the environment. Environment variables take precedence over the file.
func Decode() (Config, error) {
	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		err := cleanenv.ReadConfig(path, &cfg)
		return cfg, err
	}
	err := cleanenv.ReadEnv(&cfg)
	return cfg, err
}

// DatabaseDSN returns the connection string for the current environment.
// The test environment uses a separate database so test runs never touch real data.
func (c Config) DatabaseDSN() string {
	if c.IsTest() {
		return c.Database.TestDSN
	}
	return c.Database.DSN
}

// IsTest reports whether the app runs in test mode.
func (c Config) IsTest() bool {
	return c.Server.Env == "test"
}
