package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
	if s.Dialect() != "sqlite3" {
		t.Errorf("dialect = %q, want sqlite3", s.Dialect())
	}
}

func TestOpenDriver_Unsupported(t *testing.T) {
	if _, err := OpenDriver("mysql", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is covered by the file-based test.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileDatabaseUsesWAL(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "studyzone.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{tableSequence, tableQuiz, tableAnswer, tableDiagnosis, tableLLMRequest, tableSnapshot} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestTablesFollowEntSchema(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	rows, err := db.Query("SELECT name FROM pragma_table_info(?)", tableAnswer)
	if err != nil {
		t.Fatalf("table_info: %v", err)
	}
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		cols = append(cols, name)
	}
	want := []string{"id", "sequence", "timestamp", "session_id", "student_id", "record_id",
		"topic", "category", "chosen", "correct_text", "outcome", "correct"}
	if strings.Join(cols, ",") != strings.Join(want, ",") {
		t.Errorf("answer columns = %v, want %v", cols, want)
	}

	for _, idx := range []string{"answer_events_student_id_category", "quiz_events_student_id", "quiz_events_timestamp"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&name)
		if err != nil {
			t.Errorf("index %s: %v", idx, err)
		}
	}
}

func TestReopenKeepsSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seq.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := s.seq.Next(ctx); err != nil {
			t.Fatalf("next: %v", err)
		}
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	seq, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatalf("next after reopen: %v", err)
	}
	if seq != 4 {
		t.Errorf("seq after reopen = %d, want 4", seq)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestSnapshotSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	// No snapshot yet.
	snap, err := repo.Latest(ctx, "s1", "bank.csv")
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot when none exist")
	}

	now := time.Now().UTC().Truncate(time.Second)
	err = repo.Save(ctx, &Snapshot{
		Sequence:  42,
		Timestamp: now,
		StudentID: "s1",
		Bank:      "bank.csv",
		Data: ProgressData{
			Version:  1,
			Selector: "Grammar",
			Index:    2,
			Answers:  map[string]string{"q1": "am"},
		},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err = repo.Latest(ctx, "s1", "bank.csv")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap == nil {
		t.Fatal("expected non-nil snapshot")
	}
	if snap.Sequence != 42 {
		t.Errorf("sequence = %d, want 42", snap.Sequence)
	}
	if snap.Data.Selector != "Grammar" || snap.Data.Index != 2 || snap.Data.Answers["q1"] != "am" {
		t.Errorf("data = %+v", snap.Data)
	}

	other, err := repo.Latest(ctx, "s2", "bank.csv")
	if err != nil {
		t.Fatalf("latest other student: %v", err)
	}
	if other != nil {
		t.Error("snapshots must be scoped to the student")
	}
}

func TestSnapshotLatestReturnsNewest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := repo.Save(ctx, &Snapshot{
			StudentID: "s1",
			Bank:      "b",
			Data:      ProgressData{Version: 1, Index: i},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	snap, err := repo.Latest(ctx, "s1", "b")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Data.Index != 2 {
		t.Errorf("index = %d, want 2", snap.Data.Index)
	}
}

func countSnapshots(t *testing.T, s *Store) int {
	t.Helper()
	var n int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM " + tableSnapshot).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestSnapshotPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		if err := repo.Save(ctx, &Snapshot{StudentID: "s1", Bank: "b", Data: ProgressData{Index: i}}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	if err := repo.Save(ctx, &Snapshot{StudentID: "s2", Bank: "b"}); err != nil {
		t.Fatalf("save other: %v", err)
	}

	if err := repo.Prune(ctx, "s1", 5); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n := countSnapshots(t, s); n != 6 {
		t.Errorf("remaining snapshots = %d, want 6", n)
	}

	snap, err := repo.Latest(ctx, "s1", "b")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Data.Index != 6 {
		t.Errorf("latest index = %d, want 6", snap.Data.Index)
	}
}

func TestSnapshotPruneWithFewerThanKeep(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := repo.Save(ctx, &Snapshot{StudentID: "s1", Bank: "b"}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	if err := repo.Prune(ctx, "s1", 5); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n := countSnapshots(t, s); n != 2 {
		t.Errorf("remaining snapshots = %d, want 2", n)
	}
}

func TestSnapshotClear(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for _, b := range []string{"a", "a", "b"} {
		if err := repo.Save(ctx, &Snapshot{StudentID: "s1", Bank: b}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if err := repo.Clear(ctx, "s1", "a"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n := countSnapshots(t, s); n != 1 {
		t.Errorf("remaining snapshots = %d, want 1", n)
	}
}
