package config

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config собирается один раз при старте и передается явно тем компонентам,
// которым он нужен. Секрет подписи и курс не читаются из глобального состояния.
type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`
	JWTUserSecret string `env:"JWT_SECRET"`
	// USDRate - фиксированный курс USD->UZS для чекаута. Публичная настройка
	// usd_rate на него не влияет.
	USDRate string `env:"USD_RATE"`
	// ReturnURL - адрес, на который шлюз вернет покупателя после оплаты.
	ReturnURL string `env:"PAYMENT_RETURN_URL"`
}

const defaultUSDRate = "12800"

func LoadConfig() (*Config, error) {
	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	loadFlags(&flagsConfig)

	conf := mergeConfig(&envConfig, &flagsConfig)
	if conf.DatabaseDSN == "" {
		return nil, errors.New("database DSN is not set")
	}
	if conf.JWTUserSecret == "" {
		return nil, errors.New("JWT secret is not set")
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func loadFlags(flagConfig *Config) {
	flag.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	flag.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flag.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	flag.StringVar(&flagConfig.JWTUserSecret, "j", "", "JWT signing secret")
	flag.StringVar(&flagConfig.USDRate, "r", defaultUSDRate, "Fixed USD to UZS exchange rate")
	flag.StringVar(&flagConfig.ReturnURL, "u", "", "Return URL after gateway payment")

	flag.Parse()
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		RunAddress:    defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:   defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir: defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		JWTUserSecret: defaultIfBlank(envConfig.JWTUserSecret, flagsConfig.JWTUserSecret),
		USDRate:       defaultIfBlank(envConfig.USDRate, flagsConfig.USDRate),
		ReturnURL:     defaultIfBlank(envConfig.ReturnURL, flagsConfig.ReturnURL),
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
