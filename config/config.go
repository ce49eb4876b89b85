package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the process reads from the environment.
// Secrets (bot token, service-account file) are never defaulted.
type Config struct {
	BotToken          string
	SpreadsheetID     string
	GoogleCredentials string
	ServerPort        string
	Teams             []string
	Timezone          string
	StoreTimeout      time.Duration
	SendRatePerSecond float64
}

// NewConfig reads the configuration from environment variables.
// BOT_TOKEN and SPREADSHEET_ID are required.
func NewConfig() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.BotToken = os.Getenv("BOT_TOKEN")
	if cfg.BotToken == "" {
		missing = append(missing, "BOT_TOKEN")
	}

	cfg.SpreadsheetID = os.Getenv("SPREADSHEET_ID")
	if cfg.SpreadsheetID == "" {
		missing = append(missing, "SPREADSHEET_ID")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.GoogleCredentials = getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json")
	cfg.ServerPort = getEnv("SERVER_PORT", "6066")
	cfg.Timezone = getEnv("TIMEZONE", "America/Sao_Paulo")
	cfg.StoreTimeout = getEnvDuration("STORE_TIMEOUT", 15*time.Second)
	cfg.SendRatePerSecond = getEnvFloat("SEND_RATE_PER_SECOND", 25)

	teams := getEnv("TEAMS", "Equipe 1,Equipe 2,Equipe 3")
	for _, t := range strings.Split(teams, ",") {
		if t = strings.TrimSpace(t); t != "" {
			cfg.Teams = append(cfg.Teams, t)
		}
	}
	if len(cfg.Teams) == 0 {
		return nil, fmt.Errorf("TEAMS must name at least one team")
	}

	return cfg, nil
}

// Location parses the configured timezone. Working dates and shift clock
// times are computed in it, not in UTC, because the ledger stores naive
// HH:MM strings.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseFloat(value, 64); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}
