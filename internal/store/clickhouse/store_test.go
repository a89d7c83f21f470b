package clickhouse

import "testing"

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig("chhost:9000")
	if cfg.Addr != "chhost:9000" {
		t.Fatalf("Addr = %q, want chhost:9000", cfg.Addr)
	}
	if cfg.Database != "default" || cfg.Username != "default" {
		t.Fatalf("unexpected default auth: %+v", cfg)
	}
	if cfg.MaxRetries != defaultMaxRetries {
		t.Fatalf("MaxRetries = %d, want %d", cfg.MaxRetries, defaultMaxRetries)
	}
	if cfg.DialTimeout != defaultDialTimeout {
		t.Fatalf("DialTimeout = %v, want %v", cfg.DialTimeout, defaultDialTimeout)
	}
}
