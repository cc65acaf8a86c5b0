package repository

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/okian/pixelarena/internal/domain/hero"
	"github.com/okian/pixelarena/internal/domain/model"
)

func ratedPlayer(id string, seq int64, rating int) *model.Player {
	return &model.Player{
		ID:          id,
		Username:    "user_" + id,
		JoinSeq:     seq,
		Level:       1,
		ArenaRating: rating,
		Hero:        model.Hero{Class: hero.ClassWanderer},
	}
}

func TestRatingIndex_BasicOperations(t *testing.T) {
	ctx := context.Background()
	idx := NewRatingIndex(ctx)
	defer idx.Close()

	// Empty index
	if count := idx.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}
	if _, err := idx.Rank(ctx, "p1"); err != ErrPlayerNotFound {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}

	// First entry
	if err := idx.Update(ctx, ratedPlayer("p1", 1, 1000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := idx.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	entry, err := idx.Rank(ctx, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 1 {
		t.Errorf("expected rank 1, got %d", entry.Rank)
	}
	if entry.ArenaRating != 1000 {
		t.Errorf("expected rating 1000, got %d", entry.ArenaRating)
	}
	if entry.Username != "user_p1" {
		t.Errorf("expected username user_p1, got %s", entry.Username)
	}

	entries, err := idx.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].PlayerID != "p1" {
		t.Errorf("expected p1, got %s", entries[0].PlayerID)
	}
}

func TestRatingIndex_Ordering(t *testing.T) {
	ctx := context.Background()
	idx := NewRatingIndex(ctx)
	defer idx.Close()

	for _, p := range []*model.Player{
		ratedPlayer("low", 1, 900),
		ratedPlayer("high", 2, 2000),
		ratedPlayer("mid", 3, 1500),
	} {
		if err := idx.Update(ctx, p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := idx.TopN(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"high", "mid", "low"}
	for i, id := range want {
		if entries[i].PlayerID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, entries[i].PlayerID)
		}
		if entries[i].Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, entries[i].Rank)
		}
	}
}

func TestRatingIndex_TieBreakByRegistration(t *testing.T) {
	ctx := context.Background()
	idx := NewRatingIndex(ctx)
	defer idx.Close()

	// Same rating; the earlier registration ranks first.
	if err := idx.Update(ctx, ratedPlayer("second", 2, 1500)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := idx.Update(ctx, ratedPlayer("first", 1, 1500)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := idx.TopN(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries[0].PlayerID != "first" || entries[1].PlayerID != "second" {
		t.Errorf("expected [first second], got [%s %s]", entries[0].PlayerID, entries[1].PlayerID)
	}
	if entries[0].Rank != 1 || entries[1].Rank != 2 {
		t.Errorf("expected distinct ranks 1 and 2, got %d and %d", entries[0].Rank, entries[1].Rank)
	}
}

func TestRatingIndex_RatingUpdates(t *testing.T) {
	ctx := context.Background()
	idx := NewRatingIndex(ctx)
	defer idx.Close()

	if err := idx.Update(ctx, ratedPlayer("p1", 1, 1000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := idx.Update(ctx, ratedPlayer("p2", 2, 1200)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Rating moves down as well as up; the index tracks the current value.
	if err := idx.Update(ctx, ratedPlayer("p2", 2, 900)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry, err := idx.Rank(ctx, "p2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 2 {
		t.Errorf("expected rank 2 after drop, got %d", entry.Rank)
	}
	if entry.ArenaRating != 900 {
		t.Errorf("expected rating 900, got %d", entry.ArenaRating)
	}
	if count := idx.Count(ctx); count != 2 {
		t.Errorf("expected count 2 after re-update, got %d", count)
	}
}

func TestRatingIndex_TopNLimits(t *testing.T) {
	ctx := context.Background()
	idx := NewRatingIndex(ctx)
	defer idx.Close()

	for i := 0; i < 20; i++ {
		p := ratedPlayer(fmt.Sprintf("p%02d", i), int64(i+1), 1000+i*10)
		if err := idx.Update(ctx, p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if _, err := idx.TopN(ctx, 0); err != ErrInvalidLimit {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}

	entries, err := idx.TopN(ctx, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 5 {
		t.Errorf("expected 5 entries, got %d", len(entries))
	}
	if entries[0].PlayerID != "p19" {
		t.Errorf("expected p19 first, got %s", entries[0].PlayerID)
	}

	// Limit beyond population returns everything.
	entries, err = idx.TopN(ctx, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 20 {
		t.Errorf("expected 20 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].ArenaRating > entries[i-1].ArenaRating {
			t.Errorf("entries out of order at %d", i)
		}
	}
}

func TestRatingIndex_RankConsistency(t *testing.T) {
	ctx := context.Background()
	idx := NewRatingIndex(ctx)
	defer idx.Close()

	rng := rand.New(rand.NewSource(42))
	const n = 200
	for i := 0; i < n; i++ {
		p := ratedPlayer(fmt.Sprintf("p%03d", i), int64(i+1), 500+rng.Intn(2000))
		if err := idx.Update(ctx, p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := idx.TopN(ctx, n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, e := range entries {
		single, err := idx.Rank(ctx, e.PlayerID)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", e.PlayerID, err)
		}
		if single.Rank != e.Rank {
			t.Errorf("%s: Rank() says %d, TopN says %d", e.PlayerID, single.Rank, e.Rank)
		}
	}
}

func TestRatingIndex_Snapshot(t *testing.T) {
	ctx := context.Background()
	idx := NewRatingIndex(ctx, WithSnapshotInterval(10*time.Millisecond), WithTopCacheSize(2))
	defer idx.Close()

	for i := 0; i < 5; i++ {
		p := ratedPlayer(fmt.Sprintf("p%d", i), int64(i+1), 1000+i*100)
		if err := idx.Update(ctx, p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	var snap *Snapshot
	for time.Now().Before(deadline) {
		if snap = idx.CurrentSnapshot(); snap != nil && len(snap.RankByPlayer) == 5 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if snap == nil {
		t.Fatal("snapshot never published")
	}
	if len(snap.TopCache) != 2 {
		t.Errorf("expected top cache of 2, got %d", len(snap.TopCache))
	}
	if snap.TopCache[0].PlayerID != "p4" {
		t.Errorf("expected p4 on top, got %s", snap.TopCache[0].PlayerID)
	}
	if snap.RankByPlayer["p0"] != 5 {
		t.Errorf("expected p0 at rank 5, got %d", snap.RankByPlayer["p0"])
	}
}

func TestRatingIndex_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	idx := NewRatingIndex(ctx)
	defer idx.Close()

	var wg sync.WaitGroup
	const writers = 8
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				p := ratedPlayer(fmt.Sprintf("w%d_p%d", w, i), int64(w*1000+i), 1000+i)
				if err := idx.Update(ctx, p); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if _, err := idx.TopN(ctx, 10); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		}(w)
	}
	wg.Wait()

	if count := idx.Count(ctx); count != writers*50 {
		t.Errorf("expected %d players, got %d", writers*50, count)
	}
}
