package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresStore keeps every collection in the JSONB documents table created
// by db.RunMigrations. createdAt lives in its own column so ordering by it
// does not depend on JSON string formatting.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type documentRow struct {
	ID        string    `db:"doc_id"`
	Data      []byte    `db:"data"`
	CreatedAt time.Time `db:"created_at"`
}

func (r documentRow) document() (Document, error) {
	doc := Document{}
	if len(r.Data) > 0 {
		if err := json.Unmarshal(r.Data, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document %s: %w", r.ID, err)
		}
	}
	doc[CreatedAtField] = r.CreatedAt.UTC()
	return doc, nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Document, error) {
	const selectSQL = `
		SELECT doc_id, data, created_at
		FROM documents
		WHERE collection = $1 AND doc_id = $2`

	var row documentRow
	if err := s.db.GetContext(ctx, &row, selectSQL, collection, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		return nil, fmt.Errorf("database query error: %w", err)
	}
	return row.document()
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, data Document, merge bool) error {
	const mergeSQL = `
		INSERT INTO documents (collection, doc_id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, doc_id) DO UPDATE
		SET data = documents.data || EXCLUDED.data`

	const replaceSQL = `
		INSERT INTO documents (collection, doc_id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, doc_id) DO UPDATE
		SET data = EXCLUDED.data`

	payload, err := json.Marshal(withoutCreatedAt(data))
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	stmt := replaceSQL
	if merge {
		stmt = mergeSQL
	}
	if _, err := s.db.ExecContext(ctx, stmt, collection, id, payload); err != nil {
		return fmt.Errorf("database upsert error: %w", err)
	}
	return nil
}

func (s *PostgresStore) Add(ctx context.Context, collection string, data Document) (string, error) {
	const insertSQL = `
		INSERT INTO documents (collection, doc_id, data, created_at)
		VALUES ($1, $2, $3, now())`

	payload, err := json.Marshal(withoutCreatedAt(data))
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx, insertSQL, collection, id, payload); err != nil {
		return "", fmt.Errorf("database insert error: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) Query(ctx context.Context, collection string, q Query) ([]Snapshot, error) {
	query, err := buildSelectSQL(q)
	if err != nil {
		return nil, err
	}

	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, query, collection); err != nil {
		return nil, fmt.Errorf("database query error: %w", err)
	}

	out := make([]Snapshot, 0, len(rows))
	for _, row := range rows {
		doc, err := row.document()
		if err != nil {
			return nil, err
		}
		out = append(out, Snapshot{ID: row.ID, Data: doc})
	}
	return out, nil
}

func (s *PostgresStore) Close(context.Context) error {
	return s.db.Close()
}

func buildSelectSQL(q Query) (string, error) {
	dir := "ASC"
	if q.Descending {
		dir = "DESC"
	}

	order := "created_at " + dir
	switch {
	case q.OrderBy == "" || q.OrderBy == CreatedAtField:
	case ValidField(q.OrderBy):
		order = fmt.Sprintf("data->%s %s, created_at %s", pq.QuoteLiteral(q.OrderBy), dir, dir)
	default:
		return "", fmt.Errorf("%q: %w", q.OrderBy, ErrInvalidField)
	}

	query := `SELECT doc_id, data, created_at FROM documents WHERE collection = $1 ORDER BY ` + order
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}
	return query, nil
}

func withoutCreatedAt(data Document) Document {
	if _, ok := data[CreatedAtField]; !ok {
		return data
	}
	out := data.clone()
	delete(out, CreatedAtField)
	return out
}
