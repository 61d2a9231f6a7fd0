package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// schemaStatements is the full database schema, one statement per table so
// the same DDL runs against MySQL in production and SQLite in tests.
// All ids are UUID strings. Timestamp columns use the bare DATETIME keyword:
// SQLite maps only that exact declared type to time.Time, and the MySQL
// sub-second precision suffix is added in EnsureSchema.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS groups (
		id         VARCHAR(36) PRIMARY KEY,
		name       VARCHAR(100) NOT NULL,
		parent_id  VARCHAR(36),
		created_at DATETIME NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id             VARCHAR(36) PRIMARY KEY,
		name           VARCHAR(100) NOT NULL,
		email          VARCHAR(100) NOT NULL UNIQUE,
		password_hash  VARCHAR(100) NOT NULL,
		email_verified BOOLEAN NOT NULL DEFAULT FALSE,
		group_id       VARCHAR(36) REFERENCES groups(id),
		created_at     DATETIME NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS locations (
		id         VARCHAR(36) PRIMARY KEY,
		name       VARCHAR(100) NOT NULL,
		parent_id  VARCHAR(36),
		created_at DATETIME NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tag_groups (
		id         VARCHAR(36) PRIMARY KEY,
		name       VARCHAR(100) NOT NULL,
		parent_id  VARCHAR(36),
		created_at DATETIME NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tags (
		id           VARCHAR(36) PRIMARY KEY,
		name         VARCHAR(50) NOT NULL,
		type         VARCHAR(30) NOT NULL,
		colour       VARCHAR(7) NOT NULL DEFAULT '#000000',
		tag_group_id VARCHAR(36) REFERENCES tag_groups(id)
	)`,

	`CREATE TABLE IF NOT EXISTS items (
		id          VARCHAR(36) PRIMARY KEY,
		serial      VARCHAR(100) NOT NULL UNIQUE,
		name        VARCHAR(200) NOT NULL,
		location_id VARCHAR(36) NOT NULL REFERENCES locations(id),
		stored      BOOLEAN NOT NULL DEFAULT TRUE,
		cost        INTEGER NOT NULL DEFAULT 0,
		deleted     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  DATETIME NOT NULL,
		updated_at  DATETIME NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS item_tags (
		item_id VARCHAR(36) NOT NULL REFERENCES items(id),
		tag_id  VARCHAR(36) NOT NULL REFERENCES tags(id),
		PRIMARY KEY (item_id, tag_id)
	)`,

	`CREATE TABLE IF NOT EXISTS consumables (
		item_id   VARCHAR(36) PRIMARY KEY REFERENCES items(id),
		available INTEGER NOT NULL CHECK (available >= 0),
		total     INTEGER NOT NULL CHECK (total >= 0)
	)`,

	`CREATE TABLE IF NOT EXISTS item_records (
		id                VARCHAR(36) PRIMARY KEY,
		item_id           VARCHAR(36) NOT NULL REFERENCES items(id),
		action_by_user_id VARCHAR(36) NOT NULL REFERENCES users(id),
		loaned            BOOLEAN NOT NULL,
		quantity          INTEGER NOT NULL CHECK (quantity >= 1),
		notes             VARCHAR(500) NOT NULL DEFAULT '',
		created_at        DATETIME NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS printers (
		id                 VARCHAR(36) PRIMARY KEY,
		name               VARCHAR(100) NOT NULL,
		type               VARCHAR(20) NOT NULL,
		ip_address         VARCHAR(45) NOT NULL UNIQUE,
		auth_token         VARCHAR(200),
		serial_number      VARCHAR(100),
		created_by_user_id VARCHAR(36) NOT NULL REFERENCES users(id),
		created_at         DATETIME NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS gcode_print_jobs (
		id                VARCHAR(36) PRIMARY KEY,
		user_id           VARCHAR(36) NOT NULL REFERENCES users(id),
		printer_id        VARCHAR(36) NOT NULL REFERENCES printers(id),
		original_filename VARCHAR(255) NOT NULL,
		stored_filename   VARCHAR(255) NOT NULL,
		file_hash_sha256  VARCHAR(64) NOT NULL,
		file_size_bytes   BIGINT NOT NULL,
		status            VARCHAR(20) NOT NULL,
		dispatch_response TEXT,
		dispatch_error    TEXT,
		created_at        DATETIME NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS ai_chat_history (
		id           VARCHAR(36) PRIMARY KEY,
		user_id      VARCHAR(36) NOT NULL REFERENCES users(id),
		user_message TEXT NOT NULL,
		ai_response  TEXT NOT NULL,
		tokens_used  INTEGER NOT NULL DEFAULT 0,
		created_at   DATETIME NOT NULL
	)`,
}

// EnsureSchema creates all tables if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, isMySQL := db.Driver().(*mysql.MySQLDriver)
	for _, stmt := range schemaStatements {
		if isMySQL {
			stmt = withTimestampPrecision(stmt)
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// withTimestampPrecision upgrades DATETIME columns to microseconds. MySQL
// truncates bare DATETIME to whole seconds, which would break ordering of
// item records created in the same second.
func withTimestampPrecision(stmt string) string {
	return strings.ReplaceAll(stmt, "DATETIME", "DATETIME(6)")
}
