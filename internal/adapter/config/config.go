package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Database *Database
	HTTP     *HTTP
	Gateway  *Gateway
	App      *App
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string
}

type Database struct {
	DSN string `env:"DATABASE_URI"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
	// PublicURL is the externally reachable base URL, used to build payment
	// return links and the gateway callback address.
	PublicURL string `env:"PUBLIC_URL"`
}

// Gateway configures the Neero payment gateway client. All four options are
// required for gateway calls to succeed; missing values fail at call time,
// not at startup.
type Gateway struct {
	APIKey        string `env:"NEERO_API_KEY"`
	MerchantID    string `env:"NEERO_MERCHANT_ID"`
	BaseURL       string `env:"NEERO_BASE_URL" envDefault:"https://api.neero.com"`
	WebhookSecret string `env:"NEERO_WEBHOOK_SECRET"`
}

func NewConfig() (*Config, error) {
	var db Database
	var http HTTP
	var gateway Gateway
	var app App

	flag.StringVar(&db.DSN, "d", "", "Database string")
	flag.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&http.PublicURL, "p", `http://localhost:8080`, "Public base URL")
	flag.StringVar(&app.LogLevel, "l", `error`, "Log level")
	flag.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	flag.Parse()

	err := env.Parse(&db)
	if err != nil {
		return nil, fmt.Errorf("error parsing env database config: %w", err)
	}
	err = env.Parse(&http)
	if err != nil {
		return nil, fmt.Errorf("error parsing http config: %w", err)
	}
	err = env.Parse(&app)
	if err != nil {
		return nil, fmt.Errorf("error parsing app config: %w", err)
	}
	err = env.Parse(&gateway)
	if err != nil {
		return nil, fmt.Errorf("error parsing gateway config: %w", err)
	}

	config := Config{
		Database: &db,
		HTTP:     &http,
		Gateway:  &gateway,
		App:      &app,
	}

	return &config, nil
}
