package smoke

import (
	"context"
	"fmt"

	"github.com/okian/pixelarena/pkg/logger"
)

// verifyLeaderboard fetches the top entries and checks the ordering and
// per-player rank consistency.
func verifyLeaderboard(ctx context.Context, client *HTTPClient, config *Config, players []Player, stats *Stats) error {
	logger.Get().Info(ctx, "verifying leaderboard", logger.Int("topN", config.TopN))

	var entries []Entry
	url := fmt.Sprintf("%s/api/leaderboard?limit=%d", config.BaseURL, config.TopN)
	if err := client.getJSON(ctx, url, &entries); err != nil {
		return fmt.Errorf("leaderboard fetch failed: %w", err)
	}
	stats.TopEntries = len(entries)

	// Ordering: rating descending, ranks strictly increasing from 1.
	for i, e := range entries {
		if e.Rank != i+1 {
			return fmt.Errorf("rank gap at position %d: got rank %d", i, e.Rank)
		}
		if i > 0 && entries[i-1].ArenaRating < e.ArenaRating {
			return fmt.Errorf("ordering violation at rank %d: %d < %d",
				e.Rank, entries[i-1].ArenaRating, e.ArenaRating)
		}
		if e.Level < 1 {
			return fmt.Errorf("player %s has level %d below 1", e.PlayerID, e.Level)
		}
	}

	// Spot-check individual rank lookups against the board.
	checked := 0
	for _, e := range entries {
		var single Entry
		if err := client.getJSON(ctx, config.BaseURL+"/api/rank/"+e.PlayerID, &single); err != nil {
			return fmt.Errorf("rank fetch for %s failed: %w", e.PlayerID, err)
		}
		if single.Rank != e.Rank || single.ArenaRating != e.ArenaRating {
			return fmt.Errorf("rank mismatch for %s: board says %d/%d, lookup says %d/%d",
				e.PlayerID, e.Rank, e.ArenaRating, single.Rank, single.ArenaRating)
		}
		checked++
		if checked >= 10 {
			break
		}
	}

	// Levels never regress below what the run observed.
	for i := range players {
		var p Player
		if err := client.getJSON(ctx, config.BaseURL+"/api/player/"+players[i].ID, &p); err != nil {
			return fmt.Errorf("player fetch for %s failed: %w", players[i].ID, err)
		}
		if p.Level < players[i].Level {
			return fmt.Errorf("level regression for %s: %d -> %d",
				p.ID, players[i].Level, p.Level)
		}
	}

	logger.Get().Info(ctx, "leaderboard verified",
		logger.Int("entries", len(entries)),
		logger.Int("ranksChecked", checked))
	return nil
}
