package testutil

import (
	"context"
	"testing"
)

func TestStubHonoursEqualityPredicate(t *testing.T) {
	db, conn := NewStubDB()
	ctx := context.Background()
	for _, k := range []string{"a", "b"} {
		if _, err := db.ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload`, k, []byte(k)); err != nil {
			t.Fatalf("insert %s: %v", k, err)
		}
	}
	var payload []byte
	if err := db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = $1`, "b").Scan(&payload); err != nil {
		t.Fatalf("select: %v", err)
	}
	if string(payload) != "b" {
		t.Fatalf("expected filtered row, got %q", payload)
	}
	res, err := db.ExecContext(ctx, `DELETE FROM state WHERE bucket = $1`, "missing")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n, _ := res.RowsAffected(); n != 0 {
		t.Fatalf("expected zero rows affected, got %d", n)
	}
	if len(conn.Rows("state")) != 2 {
		t.Fatalf("unexpected rows %v", conn.Rows("state"))
	}
}

func TestStubParseErrors(t *testing.T) {
	if _, _, err := parseInsert("INSERT state"); err == nil {
		t.Fatalf("expected insert parse error")
	}
	if _, _, err := parseDelete("DELETE FROM state"); err == nil {
		t.Fatalf("expected delete parse error")
	}
	if _, _, _, err := parseSelect("SELECT bucket"); err == nil {
		t.Fatalf("expected select parse error")
	}
}
