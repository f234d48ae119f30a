package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/model"
)

func openTemp(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestStudentSnapshotRoundTrip(t *testing.T) {
	c := openTemp(t)
	ctx := context.Background()

	in := []model.Student{
		{ID: "1", Name: "Alice", Roll: "R1", ClassName: "CSE-A", CreatedAt: time.Now()},
		{ID: "2", Name: "Bob", Roll: "R2", ClassName: "CSE-B", CreatedAt: time.Now()},
	}
	if err := c.SaveStudents(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, fetched, err := c.Students(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 || out[0].Name != "Alice" || out[1].Roll != "R2" {
		t.Errorf("unexpected snapshot: %+v", out)
	}
	if fetched.IsZero() {
		t.Error("fetched_at not recorded")
	}
}

func TestSaveReplacesSnapshot(t *testing.T) {
	c := openTemp(t)
	ctx := context.Background()

	if err := c.SaveStudents(ctx, []model.Student{{ID: "1", Name: "Old", Roll: "R1"}}); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveStudents(ctx, []model.Student{{ID: "2", Name: "New", Roll: "R2"}}); err != nil {
		t.Fatal(err)
	}

	out, _, err := c.Students(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Name != "New" {
		t.Errorf("old snapshot survived: %+v", out)
	}
}

func TestAttendanceSnapshot(t *testing.T) {
	c := openTemp(t)
	ctx := context.Background()

	ts := time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)
	in := []model.AttendanceRecord{
		{ID: "a1", StudentName: "Alice", StudentRoll: "R1", Status: "Present", Timestamp: ts},
	}
	if err := c.SaveAttendance(ctx, in); err != nil {
		t.Fatal(err)
	}

	out, fetched, err := c.Attendance(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Status != "Present" || !out[0].Timestamp.Equal(ts) {
		t.Errorf("unexpected snapshot: %+v", out)
	}
	if fetched.IsZero() {
		t.Error("fetched_at not recorded")
	}
}

func TestEmptySnapshot(t *testing.T) {
	c := openTemp(t)
	out, fetched, err := c.Students(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 || !fetched.IsZero() {
		t.Errorf("expected empty snapshot, got %d rows fetched at %v", len(out), fetched)
	}
}
