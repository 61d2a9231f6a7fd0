package database

import (
	"strings"
	"testing"
	"time"
)

// SQLite only maps the bare DATETIME declared type to time.Time, so a
// timestamp written through the shared schema must scan back as time.Time.
func TestTimestampScansIntoTime(t *testing.T) {
	db := NewTestDB(t)

	want := time.Now().UTC()
	if _, err := db.Exec(
		`INSERT INTO groups (id, name, created_at) VALUES (?, ?, ?)`,
		"g1", "Mechatronics", want,
	); err != nil {
		t.Fatalf("inserting group: %v", err)
	}

	var got time.Time
	if err := db.QueryRow(`SELECT created_at FROM groups WHERE id = ?`, "g1").Scan(&got); err != nil {
		t.Fatalf("scanning created_at: %v", err)
	}
	if d := got.Sub(want); d < -time.Second || d > time.Second {
		t.Errorf("round-tripped timestamp drifted: got %v, want %v", got, want)
	}
}

func TestSchemaUsesBareDatetime(t *testing.T) {
	for i, stmt := range schemaStatements {
		if strings.Contains(stmt, "DATETIME(") {
			t.Errorf("statement %d declares DATETIME with precision, which SQLite cannot scan as time.Time", i)
		}
	}
}

func TestWithTimestampPrecision(t *testing.T) {
	for i, stmt := range schemaStatements {
		upgraded := withTimestampPrecision(stmt)
		if strings.Count(upgraded, "DATETIME(6)") != strings.Count(stmt, "DATETIME") {
			t.Errorf("statement %d: not every DATETIME column got microsecond precision", i)
		}
	}
}
