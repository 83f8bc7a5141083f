package database

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver

	"attendance.service/internal/config"
)

// NewConnection creates and verifies a plain database connection pool.
// Workers use this; the API uses the instrumented variant.
func NewConnection(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Ping to verify the connection is alive before handing it out.
	return db, db.Ping()
}

func dsn(cfg config.Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
}
