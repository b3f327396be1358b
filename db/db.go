package db

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/VigneshSivaKspm/royal-photography-billing/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// Open connects to PostgreSQL and verifies the connection.
func Open(connStr string) (*sqlx.DB, error) {
	logger.Log.Info("[db] Attempting to open database connection...")

	finalConnStr, err := normalizeDSN(connStr)
	if err != nil {
		return nil, err
	}

	conn, err := sqlx.Open("postgres", finalConnStr)
	if err != nil {
		logger.Log.Error(fmt.Sprintf("[db] Error opening database: %v", err))
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)

	logger.Log.Info("[db] Pinging database to verify connection...")
	if err := conn.Ping(); err != nil {
		logger.Log.Error(fmt.Sprintf("[db] Failed to ping database: %v", err))
		conn.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	logger.Log.Info("[db] Successfully connected to PostgreSQL!")
	return conn, nil
}

// normalizeDSN disables binary parameters on URL style DSNs. key=value DSNs
// are passed through untouched.
func normalizeDSN(connStr string) (string, error) {
	if !strings.HasPrefix(connStr, "postgres://") && !strings.HasPrefix(connStr, "postgresql://") {
		return connStr, nil
	}
	u, err := url.Parse(connStr)
	if err != nil {
		return "", fmt.Errorf("invalid DB connection string: %w", err)
	}
	q := u.Query()
	q.Set("binary_parameters", "no")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
