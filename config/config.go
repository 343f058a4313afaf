package config

import (
    "fmt"

    "github.com/spf13/viper"
)

// Config holds all runtime settings. Values come from environment
// variables with defaults suitable for local development.
type Config struct {
    Port             string
    DBHost           string
    DBPort           string
    DBUser           string
    DBPassword       string
    DBName           string
    DBSSLMode        string
    JWTAccessSecret  string
    JWTRefreshSecret string
}

var Cfg Config

// Load reads configuration from the environment into Cfg.
func Load() Config {
    v := viper.New()
    v.AutomaticEnv()

    v.SetDefault("PORT", "8080")
    v.SetDefault("DB_HOST", "localhost")
    v.SetDefault("DB_PORT", "5432")
    v.SetDefault("DB_USER", "postgres")
    v.SetDefault("DB_PASSWORD", "postgres")
    v.SetDefault("DB_NAME", "schedulify")
    v.SetDefault("DB_SSLMODE", "disable")
    v.SetDefault("JWT_ACCESS_SECRET", "")
    v.SetDefault("JWT_REFRESH_SECRET", "")

    Cfg = Config{
        Port:             v.GetString("PORT"),
        DBHost:           v.GetString("DB_HOST"),
        DBPort:           v.GetString("DB_PORT"),
        DBUser:           v.GetString("DB_USER"),
        DBPassword:       v.GetString("DB_PASSWORD"),
        DBName:           v.GetString("DB_NAME"),
        DBSSLMode:        v.GetString("DB_SSLMODE"),
        JWTAccessSecret:  v.GetString("JWT_ACCESS_SECRET"),
        JWTRefreshSecret: v.GetString("JWT_REFRESH_SECRET"),
    }
    return Cfg
}

// DSN builds the Postgres connection string.
func (c Config) DSN() string {
    return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
        c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
