package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrStorage wraps every persistence failure of the store.
var ErrStorage = errors.New("history storage error")

// Record is one logged search query.
type Record struct {
	ID        int64
	Timestamp int64
	Query     string
}

// Store is the append-only log of issued search queries. It is safe for
// concurrent use; every operation runs in its own transaction.
type Store struct {
	db *sql.DB
}

// NewStore returns a store over db. The schema must already exist (db.InitSchema).
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append records query with a generated id and the current time. Repeated
// queries are stored again.
func (s *Store) Append(ctx context.Context, query string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO search_history (query) VALUES (?)`, query); err != nil {
			return fmt.Errorf("insert query: %w", err)
		}
		return nil
	})
}

// Find returns the distinct queries containing substr, oldest first. The match
// is a case-sensitive byte substring; an empty substr matches everything.
func (s *Store) Find(ctx context.Context, substr string) ([]string, error) {
	out := []string{}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT query FROM search_history
			WHERE instr(query, ?) > 0
			GROUP BY query
			ORDER BY MIN(timestamp), MIN(id)`,
			substr,
		)
		if err != nil {
			return fmt.Errorf("select queries: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var q string
			if err := rows.Scan(&q); err != nil {
				return fmt.Errorf("scan query: %w", err)
			}
			out = append(out, q)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []Record
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT id, timestamp, query FROM search_history ORDER BY timestamp DESC, id DESC LIMIT ?`,
			limit,
		)
		if err != nil {
			return fmt.Errorf("select records: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var r Record
			if err := rows.Scan(&r.ID, &r.Timestamp, &r.Query); err != nil {
				return fmt.Errorf("scan record: %w", err)
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// withTx commits when fn succeeds and rolls back on error or panic.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrStorage, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = fmt.Errorf("%w (rollback: %v)", err, rbErr)
			}
			if !errors.Is(err, ErrStorage) {
				err = fmt.Errorf("%w: %w", ErrStorage, err)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("%w: commit: %w", ErrStorage, cErr)
		}
	}()
	return fn(tx)
}
