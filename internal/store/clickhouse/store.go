// Package clickhouse provides an opt-in batch export sink for mined
// templates. After a templater run completes, every emitted
// template/parameter summary is inserted as a row into a ClickHouse table so
// external dashboards can query template frequency and parameter churn
// across runs.
package clickhouse

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/fidde/logtemplater/internal/templater"
)

const (
	defaultMaxOpenConns = 10
	defaultMaxIdleConns = 5
	defaultDialTimeout  = 10 * time.Second
	defaultMaxRetries   = 3
	defaultRetryDelay   = 1 * time.Second
)

// Config holds ClickHouse connection parameters for the export sink.
type Config struct {
	Addr         string
	Database     string
	Username     string
	Password     string
	MaxOpenConns int
	MaxIdleConns int
	DialTimeout  time.Duration
	MaxRetries   int
	TLS          *tls.Config
}

// DefaultConfig returns a Config with sensible defaults for a single export
// connection, addressed to addr.
func DefaultConfig(addr string) Config {
	return Config{
		Addr:         addr,
		Database:     "default",
		Username:     "default",
		MaxOpenConns: defaultMaxOpenConns,
		MaxIdleConns: defaultMaxIdleConns,
		DialTimeout:  defaultDialTimeout,
		MaxRetries:   defaultMaxRetries,
	}
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS templates (
    run_id      String,
    template    String,
    matches     UInt64,
    params_json String,
    exported_at DateTime64(3) DEFAULT now64(3)
) ENGINE = MergeTree()
ORDER BY (run_id, template)
`

// Sink exports mined template summaries to ClickHouse.
type Sink struct {
	conn driver.Conn
}

// New connects to ClickHouse with retry and ensures the templates table
// exists.
func New(ctx context.Context, cfg Config) (*Sink, error) {
	conn, err := connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to ClickHouse: %w", err)
	}
	if err := conn.Exec(ctx, schemaDDL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating templates table: %w", err)
	}
	return &Sink{conn: conn}, nil
}

func connect(ctx context.Context, cfg Config) (driver.Conn, error) {
	opts := &clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout:      cfg.DialTimeout,
		MaxOpenConns:     cfg.MaxOpenConns,
		MaxIdleConns:     cfg.MaxIdleConns,
		ConnMaxLifetime:  time.Hour,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
		TLS:              cfg.TLS,
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var conn driver.Conn
	var err error
	retryDelay := defaultRetryDelay

	for attempt := 1; attempt <= maxRetries; attempt++ {
		conn, err = clickhouse.Open(opts)
		if err == nil {
			if err = conn.Ping(ctx); err == nil {
				return conn, nil
			}
		}

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
				retryDelay *= 2
			}
		}
	}

	return nil, fmt.Errorf("failed to connect to ClickHouse after %d attempts: %w", maxRetries, err)
}

// Close releases the underlying connection.
func (s *Sink) Close() error {
	return s.conn.Close()
}

// Export inserts one row per template summary under runID in a single
// batch. Unlike the continuous OTLP ingest path this sink is modeled on, a
// templater run produces its full summary set once at the end, so there is
// no benefit to buffering writes across calls — one PrepareBatch/Send pair
// per Export is enough.
func (s *Sink) Export(ctx context.Context, runID string, summaries []templater.TemplateSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO templates (run_id, template, matches, params_json)")
	if err != nil {
		return fmt.Errorf("preparing batch: %w", err)
	}

	for _, summary := range summaries {
		paramsJSON, err := json.Marshal(summary.Params)
		if err != nil {
			return fmt.Errorf("encoding params for template %q: %w", summary.Template, err)
		}
		if err := batch.Append(runID, summary.Template, uint64(summary.Matches), string(paramsJSON)); err != nil {
			return fmt.Errorf("appending row for template %q: %w", summary.Template, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("sending batch: %w", err)
	}
	return nil
}
