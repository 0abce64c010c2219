package kvstore

import (
	"context"
	"os"
	"testing"
)

func TestRedis_RoundTrip(t *testing.T) {
	url := os.Getenv("PREFCENTER_TEST_REDIS_URL")
	if url == "" {
		t.Skip("PREFCENTER_TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	r, err := OpenRedis(ctx, url, "kvstore-test")
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	defer r.Close()
	defer r.Clear(ctx)

	if got, err := r.String(ctx, "missing", "def"); err != nil || got != "def" {
		t.Fatalf("String missing = %q, %v; want def, nil", got, err)
	}
	if err := r.Edit().PutBool("on", true).PutString("name", "x").Apply(ctx); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	on, err := r.Bool(ctx, "on", false)
	if err != nil || !on {
		t.Fatalf("Bool = %v, %v; want true, nil", on, err)
	}
	name, err := r.String(ctx, "name", "")
	if err != nil || name != "x" {
		t.Fatalf("String = %q, %v; want x, nil", name, err)
	}
}

func TestOpenRedis_BadURL(t *testing.T) {
	if _, err := OpenRedis(context.Background(), "not a url", "ns"); err == nil {
		t.Fatalf("OpenRedis returned nil error for bad url")
	}
}
