package db

import (
	"context"
	"testing"
)

func TestConnectRequiresDSN(t *testing.T) {
	if _, err := Connect(context.Background(), "  ", PoolConfig{}); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func TestCloseNilHandle(t *testing.T) {
	var p *Postgres
	if err := p.Close(); err != nil {
		t.Fatalf("close nil: %v", err)
	}
}
