package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Rewards  RewardsConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// RewardsConfig holds the coin amounts seeded into system settings on first
// boot. Admins can change them later through the settings endpoint; these are
// only the defaults for a fresh install.
type RewardsConfig struct {
	SignupBonusCoins   int64
	ReferralBonusCoins int64
	HistoryPageSize    int
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DB_DSN", "dukani:dukani@tcp(localhost:3306)/dukani?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "dukani",
		},
		Rewards: RewardsConfig{
			SignupBonusCoins:   getEnvInt64("SIGNUP_BONUS_COINS", 50),
			ReferralBonusCoins: getEnvInt64("REFERRAL_BONUS_COINS", 100),
			HistoryPageSize:    50,
		},
	}
}

// Validate catches reward misconfiguration at startup rather than per-request.
func (c *Config) Validate() error {
	if c.Rewards.SignupBonusCoins < 0 {
		return fmt.Errorf("SIGNUP_BONUS_COINS must not be negative, got %d", c.Rewards.SignupBonusCoins)
	}
	if c.Rewards.ReferralBonusCoins <= 0 {
		return fmt.Errorf("REFERRAL_BONUS_COINS must be positive, got %d", c.Rewards.ReferralBonusCoins)
	}
	if c.Rewards.HistoryPageSize <= 0 {
		return fmt.Errorf("history page size must be positive, got %d", c.Rewards.HistoryPageSize)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
