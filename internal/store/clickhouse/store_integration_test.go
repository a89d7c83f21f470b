// +build integration

package clickhouse

import (
	"context"
	"testing"

	"github.com/fidde/logtemplater/internal/templater"
)

// TestExportIntegration requires a reachable ClickHouse instance.
// Run with: go test -tags=integration ./internal/store/clickhouse -v
func TestExportIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	cfg := DefaultConfig("localhost:9000")

	sink, err := New(ctx, cfg)
	if err != nil {
		t.Skipf("ClickHouse not available: %v", err)
	}
	defer sink.Close()

	summaries := []templater.TemplateSummary{
		{Template: "user <*> logged in", Matches: 3, Params: map[int][]string{1: {"root", "admin"}}},
	}
	if err := sink.Export(ctx, "integration-run", summaries); err != nil {
		t.Fatalf("Export: %v", err)
	}
}
