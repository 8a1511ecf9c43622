package storage

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func openMemory(t *testing.T) *Storage {
	t.Helper()
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleAnalysis(fen string) *Analysis {
	return &Analysis{
		FEN:        fen,
		Depth:      4,
		Score:      35,
		BestMove:   "e2e4",
		PV:         []string{"e2e4", "e7e5", "g1f3", "b8c6"},
		Nodes:      12345,
		Elapsed:    250 * time.Millisecond,
		RecordedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStorage(t *testing.T) {
	s := openMemory(t)

	t.Run("Missing", func(t *testing.T) {
		_, err := s.LoadAnalysis(startFEN)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("LoadAnalysis on empty journal: got %v, want ErrNotFound", err)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		want := sampleAnalysis(startFEN)
		if err := s.RecordAnalysis(want); err != nil {
			t.Fatalf("RecordAnalysis: %v", err)
		}
		got, err := s.LoadAnalysis(startFEN)
		if err != nil {
			t.Fatalf("LoadAnalysis: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("LoadAnalysis mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Replace", func(t *testing.T) {
		a := sampleAnalysis(startFEN)
		a.Depth = 6
		a.BestMove = "d2d4"
		if err := s.RecordAnalysis(a); err != nil {
			t.Fatalf("RecordAnalysis: %v", err)
		}
		got, err := s.LoadAnalysis(startFEN)
		if err != nil {
			t.Fatalf("LoadAnalysis: %v", err)
		}
		if got.Depth != 6 || got.BestMove != "d2d4" {
			t.Errorf("expected newer analysis, got depth %d move %s", got.Depth, got.BestMove)
		}
	})

	t.Run("RecordedAtDefaultsToNow", func(t *testing.T) {
		a := sampleAnalysis("8/8/8/8/8/8/8/K6k w - - 0 1")
		a.RecordedAt = time.Time{}
		before := time.Now()
		if err := s.RecordAnalysis(a); err != nil {
			t.Fatalf("RecordAnalysis: %v", err)
		}
		if a.RecordedAt.Before(before) {
			t.Errorf("RecordedAt = %v, want at or after %v", a.RecordedAt, before)
		}
	})

	t.Run("Forget", func(t *testing.T) {
		fen := "8/8/8/8/8/8/8/K6k w - - 0 1"
		if err := s.Forget(fen); err != nil {
			t.Fatalf("Forget: %v", err)
		}
		if _, err := s.LoadAnalysis(fen); !errors.Is(err, ErrNotFound) {
			t.Errorf("LoadAnalysis after Forget: got %v, want ErrNotFound", err)
		}
		if err := s.Forget(fen); err != nil {
			t.Errorf("Forget of missing entry: %v", err)
		}
	})
}

func TestAnalysesListsAllEntries(t *testing.T) {
	s := openMemory(t)

	fens := []string{
		startFEN,
		"4k3/8/8/8/8/8/8/4K2R w K - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 3 20",
	}
	for _, fen := range fens {
		if err := s.RecordAnalysis(sampleAnalysis(fen)); err != nil {
			t.Fatalf("RecordAnalysis(%q): %v", fen, err)
		}
	}

	all, err := s.Analyses()
	if err != nil {
		t.Fatalf("Analyses: %v", err)
	}
	var got []string
	for _, a := range all {
		got = append(got, a.FEN)
	}
	// Keys iterate in byte order.
	want := []string{fens[1], fens[2], fens[0]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Analyses order mismatch (-want +got):\n%s", diff)
	}
}

func TestJournalPersists(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	want := sampleAnalysis(startFEN)
	if err := s.RecordAnalysis(want); err != nil {
		t.Fatalf("RecordAnalysis: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.LoadAnalysis(startFEN)
	if err != nil {
		t.Fatalf("LoadAnalysis after reopen: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("persisted analysis mismatch (-want +got):\n%s", diff)
	}
}

func TestDataPaths(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("data directory ignores XDG_DATA_HOME on darwin")
	}
	home := t.TempDir()
	t.Setenv("XDG_DATA_HOME", home)
	t.Setenv("APPDATA", home)

	dataDir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir: %v", err)
	}
	if want := filepath.Join(home, "chesscore"); dataDir != want {
		t.Errorf("DataDir() = %s, want %s", dataDir, want)
	}
	if _, err := os.Stat(dataDir); err != nil {
		t.Errorf("data directory was not created: %v", err)
	}

	journalDir, err := JournalDir()
	if err != nil {
		t.Fatalf("JournalDir: %v", err)
	}
	if want := filepath.Join(dataDir, "journal"); journalDir != want {
		t.Errorf("JournalDir() = %s, want %s", journalDir, want)
	}
	if _, err := os.Stat(journalDir); err != nil {
		t.Errorf("journal directory was not created: %v", err)
	}
}
