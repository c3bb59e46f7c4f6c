package memory

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"studysmart/internal/store"
	"studysmart/internal/store/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return New()
	})
}

func TestNewFromFilesSeedsSubjects(t *testing.T) {
	dir := t.TempDir()

	// No file -> empty store
	s := NewFromFiles(dir, nil)
	subs, _ := s.ListSubjects(context.Background())
	if len(subs) != 0 {
		t.Fatalf("expected no subjects without a seed file, got %v", subs)
	}

	content := "# seed\nMath, 10\n\nPhysics,4.5\n,3\nChemistry,lots\n"
	if err := os.WriteFile(filepath.Join(dir, "seed_subjects.txt"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	s = NewFromFiles(dir, slog.New(slog.NewTextHandler(&logs, nil)))
	subs, err := s.ListSubjects(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// the blank name and the bad goal are skipped
	if len(subs) != 2 || subs[0].Name != "Math" || subs[1].GoalHours != 4.5 {
		t.Fatalf("unexpected seeded subjects: %+v", subs)
	}

	out := logs.String()
	if got := strings.Count(out, "Skipping"); got != 2 {
		t.Errorf("logged %d skipped lines, want 2:\n%s", got, out)
	}
	if !strings.Contains(out, "Chemistry,lots") {
		t.Errorf("skipped line should be logged:\n%s", out)
	}
}
