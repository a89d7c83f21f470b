// Package sqlite provides an opt-in SQLite checkpoint store for the
// templater tool: mined templates are persisted under a run ID, and Load
// returns a run's saved summaries. The templater tool writes checkpoints
// under a fresh run ID on every invocation and does not read them back.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/fidde/logtemplater/internal/templater"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS checkpoint_templates (
	run_id        TEXT    NOT NULL,
	template      TEXT    NOT NULL,
	matches       INTEGER NOT NULL,
	params_json   TEXT    NOT NULL,
	exceeded_json TEXT    NOT NULL DEFAULT '[]',
	PRIMARY KEY (run_id, template)
);
`

// Config holds checkpoint store configuration.
type Config struct {
	DBPath string
}

// Store is a SQLite-backed checkpoint store.
type Store struct {
	db *sql.DB
}

// New opens (creating if necessary) the checkpoint database at cfg.DBPath
// and applies its schema.
func New(cfg Config) (*Store, error) {
	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening checkpoint database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=30000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying checkpoint schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists the given template summaries under runID, replacing any
// prior checkpoint for the same (runID, template) pair.
func (s *Store) Save(ctx context.Context, runID string, summaries []templater.TemplateSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin checkpoint transaction: %w", err)
	}
	defer tx.Rollback()

	for _, summary := range summaries {
		paramsJSON, err := json.Marshal(summary.Params)
		if err != nil {
			return fmt.Errorf("encoding params for template %q: %w", summary.Template, err)
		}
		exceededJSON, err := json.Marshal(summary.ExceededPositions)
		if err != nil {
			return fmt.Errorf("encoding exceeded positions for template %q: %w", summary.Template, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO checkpoint_templates (run_id, template, matches, params_json, exceeded_json)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(run_id, template) DO UPDATE SET
				matches = excluded.matches,
				params_json = excluded.params_json,
				exceeded_json = excluded.exceeded_json
		`, runID, summary.Template, summary.Matches, string(paramsJSON), string(exceededJSON))
		if err != nil {
			return fmt.Errorf("upserting template %q: %w", summary.Template, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit checkpoint transaction: %w", err)
	}
	return nil
}

// Load retrieves every template summary checkpointed under runID.
func (s *Store) Load(ctx context.Context, runID string) ([]templater.TemplateSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT template, matches, params_json, exceeded_json
		FROM checkpoint_templates
		WHERE run_id = ?
		ORDER BY template
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying checkpoint: %w", err)
	}
	defer rows.Close()

	var out []templater.TemplateSummary
	for rows.Next() {
		var summary templater.TemplateSummary
		var paramsJSON, exceededJSON string
		if err := rows.Scan(&summary.Template, &summary.Matches, &paramsJSON, &exceededJSON); err != nil {
			return nil, fmt.Errorf("scanning checkpoint row: %w", err)
		}
		if err := json.Unmarshal([]byte(paramsJSON), &summary.Params); err != nil {
			return nil, fmt.Errorf("decoding params for template %q: %w", summary.Template, err)
		}
		if err := json.Unmarshal([]byte(exceededJSON), &summary.ExceededPositions); err != nil {
			return nil, fmt.Errorf("decoding exceeded positions for template %q: %w", summary.Template, err)
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

// Clear removes every checkpointed row for runID.
func (s *Store) Clear(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM checkpoint_templates WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("clearing checkpoint: %w", err)
	}
	return nil
}
