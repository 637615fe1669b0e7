package registry

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/deepneed/chatcore/domain"
)

// SQLiteConfigStore implements ConfigStore using SQLite.
type SQLiteConfigStore struct {
	db *sql.DB
}

// NewSQLiteConfigStore opens (and migrates) the provider-config database.
func NewSQLiteConfigStore(dsn string) (*SQLiteConfigStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteConfigStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *SQLiteConfigStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS providers (
		provider_id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		enabled INTEGER NOT NULL,
		priority INTEGER NOT NULL,
		credential TEXT NOT NULL DEFAULT '',
		endpoint TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		timeout_ms INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteConfigStore) Close() error {
	return s.db.Close()
}

// Load returns every persisted provider config.
func (s *SQLiteConfigStore) Load(ctx context.Context) ([]domain.ProviderConfig, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT provider_id, display_name, enabled, priority, credential, endpoint, model, timeout_ms, description
		 FROM providers ORDER BY provider_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query providers: %w", err)
	}
	defer rows.Close()

	var out []domain.ProviderConfig
	for rows.Next() {
		var p domain.ProviderConfig
		var enabled int
		var timeoutMs int64
		if err := rows.Scan(&p.ProviderID, &p.DisplayName, &enabled, &p.Priority,
			&p.Credential, &p.Endpoint, &p.Model, &timeoutMs, &p.Description); err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}
		p.Enabled = enabled != 0
		p.Timeout = time.Duration(timeoutMs) * time.Millisecond
		out = append(out, p)
	}
	return out, rows.Err()
}

// Save upserts the full provider set in one transaction.
func (s *SQLiteConfigStore) Save(ctx context.Context, providers []domain.ProviderConfig) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range providers {
		enabled := 0
		if p.Enabled {
			enabled = 1
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO providers (provider_id, display_name, enabled, priority, credential, endpoint, model, timeout_ms, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(provider_id) DO UPDATE SET
				display_name = excluded.display_name,
				enabled = excluded.enabled,
				priority = excluded.priority,
				credential = excluded.credential,
				endpoint = excluded.endpoint,
				model = excluded.model,
				timeout_ms = excluded.timeout_ms,
				description = excluded.description`,
			p.ProviderID, p.DisplayName, enabled, p.Priority,
			p.Credential, p.Endpoint, p.Model, p.Timeout.Milliseconds(), p.Description)
		if err != nil {
			return fmt.Errorf("failed to upsert provider %s: %w", p.ProviderID, err)
		}
	}

	return tx.Commit()
}
