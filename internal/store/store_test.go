package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/easelhq/easel/internal/session"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "easel.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndTotals(t *testing.T) {
	s := newTestStore(t)

	totals, err := s.GetTotals()
	if err != nil {
		t.Fatalf("GetTotals failed: %v", err)
	}
	if totals.Sessions != 0 || totals.OpsCommitted != 0 {
		t.Errorf("Fresh store should be empty, got %+v", totals)
	}

	opened := time.Now().UTC().Add(-time.Minute)
	if err := s.RecordSession(session.Summary{
		RoomID: "r1", OpenedAt: opened, PeakParticipants: 3, OpsCommitted: 12,
	}); err != nil {
		t.Fatalf("RecordSession failed: %v", err)
	}
	if err := s.RecordSession(session.Summary{
		RoomID: "r2", OpenedAt: opened, PeakParticipants: 1, OpsCommitted: 5,
	}); err != nil {
		t.Fatalf("RecordSession failed: %v", err)
	}

	totals, err = s.GetTotals()
	if err != nil {
		t.Fatalf("GetTotals failed: %v", err)
	}
	if totals.Sessions != 2 {
		t.Errorf("Expected 2 sessions, got %d", totals.Sessions)
	}
	if totals.OpsCommitted != 17 {
		t.Errorf("Expected 17 ops, got %d", totals.OpsCommitted)
	}
}

func TestListRecent(t *testing.T) {
	s := newTestStore(t)

	for i, room := range []string{"a", "b", "c"} {
		err := s.RecordSession(session.Summary{
			RoomID:           room,
			OpenedAt:         time.Now().UTC(),
			PeakParticipants: i + 1,
			OpsCommitted:     int64(i),
		})
		if err != nil {
			t.Fatalf("RecordSession failed: %v", err)
		}
	}

	records, err := s.ListRecent(2)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].RoomID != "c" {
		t.Errorf("Newest session should come first, got %q", records[0].RoomID)
	}

	// The same room can close many times; each closure is its own row.
	if err := s.RecordSession(session.Summary{RoomID: "a", OpenedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("RecordSession failed: %v", err)
	}
	records, _ = s.ListRecent(10)
	if len(records) != 4 {
		t.Errorf("Expected 4 records, got %d", len(records))
	}
}
