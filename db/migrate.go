// db/migrate.go
package db

import (
	"fmt"

	"github.com/VigneshSivaKspm/royal-photography-billing/logger"

	"github.com/jmoiron/sqlx"
)

const createDocumentsTableSQL = `
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    doc_id TEXT NOT NULL,
    data JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
    PRIMARY KEY (collection, doc_id)
);`

const createDocumentsCreatedAtIndexSQL = `
CREATE INDEX IF NOT EXISTS documents_collection_created_at_idx
    ON documents (collection, created_at DESC);`

// RunMigrations creates the documents table backing the postgres store.
func RunMigrations(conn *sqlx.DB) error {
	if conn == nil {
		return fmt.Errorf("database connection is nil, call Open first")
	}

	if _, err := conn.Exec(createDocumentsTableSQL); err != nil {
		return fmt.Errorf("error running documents table migration: %w", err)
	}

	if _, err := conn.Exec(createDocumentsCreatedAtIndexSQL); err != nil {
		return fmt.Errorf("error running documents index migration: %w", err)
	}

	logger.Log.Info("[db] Migrations completed successfully.")
	return nil
}
