package db

import (
	"path/filepath"
	"testing"
)

func TestOpen_EmptyPath(t *testing.T) {
	d, err := Open("")
	if err == nil {
		if d != nil {
			d.Close()
		}
		t.Fatal("Open with empty path should return error")
	}
	if d != nil {
		t.Error("Open should return nil db when error occurs")
	}
}

func TestOpen_CreatesFileAndDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	var result int
	if err := d.QueryRow("SELECT 1").Scan(&result); err != nil {
		t.Fatalf("query: %v", err)
	}
	if result != 1 {
		t.Errorf("query result = %d, want 1", result)
	}
}

func TestOpen_ReopensExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := d.Exec(`CREATE TABLE t (v TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := d.Exec(`INSERT INTO t (v) VALUES ('x')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	d.Close()

	d2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer d2.Close()

	var v string
	if err := d2.QueryRow(`SELECT v FROM t`).Scan(&v); err != nil {
		t.Fatalf("query after reopen: %v", err)
	}
	if v != "x" {
		t.Errorf("v = %q, want %q", v, "x")
	}
}
