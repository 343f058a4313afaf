package config

import (
    "database/sql"
    "time"

    _ "github.com/lib/pq"
    "github.com/rs/zerolog/log"
)

var DB *sql.DB

// ConnectDB opens the Postgres pool and verifies connectivity.
func ConnectDB() {
    db, err := sql.Open("postgres", Cfg.DSN())
    if err != nil {
        log.Fatal().Err(err).Msg("DB connection error")
    }

    // Configure connection pool
    db.SetMaxOpenConns(25)
    db.SetMaxIdleConns(5)
    db.SetConnMaxLifetime(5 * time.Minute)

    if err := db.Ping(); err != nil {
        log.Fatal().Err(err).Msg("DB ping error")
    }

    DB = db
    log.Info().Str("host", Cfg.DBHost).Str("database", Cfg.DBName).
        Msg("Connected to Postgres with connection pooling")
}
