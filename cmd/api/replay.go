package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/DaviDemarqui/workwise-v1/internal/config"
	"github.com/DaviDemarqui/workwise-v1/internal/database"
	"github.com/DaviDemarqui/workwise-v1/internal/eventlog"
	"github.com/DaviDemarqui/workwise-v1/internal/executor"
	"github.com/DaviDemarqui/workwise-v1/internal/payout"
)

// replaySummary is printed by the replay command
type replaySummary struct {
	executor.Stats
	QuorumThreshold uint64 `json:"quorum_threshold"`
}

func replayRun(ctx context.Context, cfg *config.Config, log *slog.Logger, out io.Writer) error {
	db, err := database.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	journal := executor.NewRepository(db, eventlog.NewRepository(db), payout.NewRepository(db))
	exec, err := executor.NewService(cfg.Genesis, journal, executor.WithLogger(log))
	if err != nil {
		return err
	}
	// Replay only: the founder bootstrap would write to the journal
	if err := exec.Replay(ctx); err != nil {
		return err
	}

	_, threshold := exec.Quorum()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(replaySummary{Stats: exec.Stats(), QuorumThreshold: threshold}); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
