package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStorage(t *testing.T) {
	dir := t.TempDir()

	t.Run("DefaultOptions", func(t *testing.T) {
		opts := DefaultOptions()
		if opts.Threads != 1 {
			t.Errorf("Expected 1 thread, got %d", opts.Threads)
		}
		if opts.MoveTime != 5*time.Second {
			t.Errorf("Expected 5s move time, got %v", opts.MoveTime)
		}
		if !opts.OwnBook {
			t.Errorf("Expected book enabled by default")
		}
	})

	t.Run("LoadWithoutSave", func(t *testing.T) {
		s, err := Open(dir)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		defer s.Close()

		opts, err := s.LoadOptions()
		if err != nil {
			t.Fatalf("LoadOptions: %v", err)
		}
		if *opts != *DefaultOptions() {
			t.Errorf("Expected defaults, got %+v", opts)
		}
	})

	t.Run("SaveAndReopen", func(t *testing.T) {
		s, err := Open(dir)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		want := &Options{HashMB: 128, Threads: 4, MoveTime: 1500 * time.Millisecond, OwnBook: false}
		if err := s.SaveOptions(want); err != nil {
			t.Fatalf("SaveOptions: %v", err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}

		s, err = Open(dir)
		if err != nil {
			t.Fatalf("reopen: %v", err)
		}
		defer s.Close()

		got, err := s.LoadOptions()
		if err != nil {
			t.Fatalf("LoadOptions: %v", err)
		}
		if got.HashMB != 128 || got.Threads != 4 || got.MoveTime != 1500*time.Millisecond || got.OwnBook {
			t.Errorf("Loaded %+v, want %+v", got, want)
		}
		if got.SavedAt.IsZero() {
			t.Errorf("Expected save time to be recorded")
		}

		if err := s.ClearOptions(); err != nil {
			t.Fatalf("ClearOptions: %v", err)
		}
		got, err = s.LoadOptions()
		if err != nil {
			t.Fatalf("LoadOptions after clear: %v", err)
		}
		if got.HashMB != DefaultOptions().HashMB {
			t.Errorf("Expected defaults after clear, got %+v", got)
		}
	})
}

func TestGetDataDir(t *testing.T) {
	t.Setenv(DataDirEnv, "")
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("APPDATA", t.TempDir())

	dir, err := GetDatabaseDir()
	if err != nil {
		t.Fatalf("GetDatabaseDir: %v", err)
	}
	if dir == "" {
		t.Error("Expected a database directory")
	}
}

func TestDataDirOverride(t *testing.T) {
	want := filepath.Join(t.TempDir(), "custom")
	t.Setenv(DataDirEnv, want)

	dir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir: %v", err)
	}
	if dir != want {
		t.Errorf("GetDataDir = %s, want %s", dir, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("data directory not created: %v", err)
	}
}
