package history

import (
	"context"
	"fmt"
	"testing"

	"github.com/earlysigns/backend/internal/models"
)

func entry(n int) models.HistoryEntry {
	return models.HistoryEntry{
		Reference:      fmt.Sprintf("ref-%d", n),
		ChildAge:       5,
		TotalScore:     n,
		RiskPercentage: float64(n),
		RiskLevel:      "Low",
	}
}

func TestMemoryStorePushAndRecent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(10)

	for i := 1; i <= 3; i++ {
		if err := store.Push(ctx, 7, entry(i)); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}

	got, err := store.Recent(ctx, 7)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	// Newest first.
	for i, want := range []string{"ref-3", "ref-2", "ref-1"} {
		if got[i].Reference != want {
			t.Errorf("entry %d = %s, want %s", i, got[i].Reference, want)
		}
	}
}

func TestMemoryStoreCap(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(10)

	for i := 1; i <= 14; i++ {
		if err := store.Push(ctx, 1, entry(i)); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}

	got, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("got %d entries, want cap of 10", len(got))
	}
	if got[0].Reference != "ref-14" || got[9].Reference != "ref-5" {
		t.Errorf("cap kept wrong window: first=%s last=%s", got[0].Reference, got[9].Reference)
	}
}

func TestMemoryStoreIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(10)

	store.Push(ctx, 1, entry(1))
	store.Push(ctx, 2, entry(2))

	got, _ := store.Recent(ctx, 1)
	if len(got) != 1 || got[0].Reference != "ref-1" {
		t.Errorf("user 1 sees wrong history: %+v", got)
	}

	empty, err := store.Recent(ctx, 99)
	if err != nil {
		t.Fatalf("Recent for unknown user: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("unknown user should have no history, got %d entries", len(empty))
	}
}

func TestMemoryStoreReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(10)
	store.Push(ctx, 1, entry(1))

	got, _ := store.Recent(ctx, 1)
	got[0].Reference = "scribbled"

	again, _ := store.Recent(ctx, 1)
	if again[0].Reference != "ref-1" {
		t.Error("Recent exposes the underlying slice")
	}
}
