// Package cache keeps a local snapshot of the last successfully fetched
// students and attendance so the dashboard and list commands can still show
// something when the API is unreachable. It is a read-through convenience,
// never a source of truth: every good fetch overwrites the snapshot whole.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/model"
)

// Cache wraps the SQLite snapshot database
type Cache struct {
	db *sql.DB
}

// DefaultPath returns the default cache location (~/.facesense/cache.db)
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".facesense", "cache.db"), nil
}

// Open opens or creates the snapshot database
func Open(path string) (*Cache, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to cache: %w", err)
	}

	c := &Cache{db: db}
	if err := c.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run cache migrations: %w", err)
	}
	return c, nil
}

// OpenDefault opens the cache at the default path
func OpenDefault() (*Cache, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Close closes the underlying database
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS students (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			roll TEXT NOT NULL,
			class_name TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS attendance (
			id TEXT PRIMARY KEY,
			student_name TEXT NOT NULL,
			student_roll TEXT NOT NULL,
			status TEXT NOT NULL,
			timestamp TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			name TEXT PRIMARY KEY,
			fetched_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := c.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cache) markFetched(tx *sql.Tx, name string) error {
	_, err := tx.Exec(
		`INSERT INTO snapshots (name, fetched_at) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET fetched_at = excluded.fetched_at`,
		name, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (c *Cache) fetchedAt(name string) time.Time {
	var raw string
	if err := c.db.QueryRow(`SELECT fetched_at FROM snapshots WHERE name = ?`, name).Scan(&raw); err != nil {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339, raw)
	return t
}

// SaveStudents replaces the student snapshot
func (c *Cache) SaveStudents(ctx context.Context, students []model.Student) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM students`); err != nil {
		return err
	}
	for _, s := range students {
		_, err := tx.Exec(
			`INSERT INTO students (id, name, roll, class_name, created_at) VALUES (?, ?, ?, ?, ?)`,
			s.ID, s.Name, s.Roll, s.ClassName, s.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return err
		}
	}
	if err := c.markFetched(tx, "students"); err != nil {
		return err
	}
	return tx.Commit()
}

// Students returns the snapshot and when it was taken
func (c *Cache) Students(ctx context.Context) ([]model.Student, time.Time, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, name, roll, class_name, created_at FROM students ORDER BY name`)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		var created string
		if err := rows.Scan(&s.ID, &s.Name, &s.Roll, &s.ClassName, &created); err != nil {
			return nil, time.Time{}, err
		}
		s.CreatedAt, _ = time.Parse(time.RFC3339, created)
		students = append(students, s)
	}
	return students, c.fetchedAt("students"), rows.Err()
}

// SaveAttendance replaces the attendance snapshot
func (c *Cache) SaveAttendance(ctx context.Context, records []model.AttendanceRecord) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM attendance`); err != nil {
		return err
	}
	for _, r := range records {
		_, err := tx.Exec(
			`INSERT INTO attendance (id, student_name, student_roll, status, timestamp) VALUES (?, ?, ?, ?, ?)`,
			r.ID, r.StudentName, r.StudentRoll, r.Status, r.Timestamp.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return err
		}
	}
	if err := c.markFetched(tx, "attendance"); err != nil {
		return err
	}
	return tx.Commit()
}

// Attendance returns the snapshot and when it was taken
func (c *Cache) Attendance(ctx context.Context) ([]model.AttendanceRecord, time.Time, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, student_name, student_roll, status, timestamp FROM attendance ORDER BY timestamp`)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		var r model.AttendanceRecord
		var ts string
		if err := rows.Scan(&r.ID, &r.StudentName, &r.StudentRoll, &r.Status, &ts); err != nil {
			return nil, time.Time{}, err
		}
		r.Timestamp, _ = time.Parse(time.RFC3339, ts)
		records = append(records, r)
	}
	return records, c.fetchedAt("attendance"), rows.Err()
}
