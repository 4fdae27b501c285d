package payout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Transferer moves value to a payout recipient
type Transferer interface {
	// Transfer performs the transfer and returns a reference for it
	Transfer(ctx context.Context, p *Payout) (string, error)
}

// LogTransferer records transfers in the log without moving value. It stands
// in for the hosting environment's transfer mechanism.
type LogTransferer struct {
	Logger *slog.Logger
}

// Transfer logs the payout and returns a generated reference
func (t LogTransferer) Transfer(ctx context.Context, p *Payout) (string, error) {
	ref := uuid.NewString()
	t.Logger.InfoContext(ctx, "transfer",
		slog.Int64("payout_id", p.ID),
		slog.String("recipient", string(p.Recipient)),
		slog.Uint64("amount", uint64(p.Amount)),
		slog.String("reason", string(p.Reason)),
		slog.String("ref", ref),
	)
	return ref, nil
}

// MetricsRecorder receives payout metrics
type MetricsRecorder interface {
	RecordPayout(status string)
}

// DispatcherConfig holds dispatcher settings
type DispatcherConfig struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

// Dispatcher delivers pending payouts. It runs on a ticker and can be woken
// early with Notify after new payouts are committed.
type Dispatcher struct {
	store      Store
	transferer Transferer
	logger     *slog.Logger
	metrics    MetricsRecorder
	config     DispatcherConfig
	wake       chan struct{}
}

// NewDispatcher creates a dispatcher. metrics may be nil.
func NewDispatcher(store Store, transferer Transferer, logger *slog.Logger, metrics MetricsRecorder, config DispatcherConfig) *Dispatcher {
	if config.Interval <= 0 {
		config.Interval = 30 * time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 5
	}
	return &Dispatcher{
		store:      store,
		transferer: transferer,
		logger:     logger,
		metrics:    metrics,
		config:     config,
		wake:       make(chan struct{}, 1),
	}
}

// Notify wakes the dispatcher. It never blocks.
func (d *Dispatcher) Notify() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Start runs the dispatcher until ctx is cancelled
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.config.Interval)
	defer ticker.Stop()

	d.logger.Info("payout dispatcher started",
		slog.Duration("interval", d.config.Interval),
		slog.Int("batch_size", d.config.BatchSize),
	)

	for {
		if err := d.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Error("payout cycle failed", slog.String("error", err.Error()))
		}

		select {
		case <-ctx.Done():
			d.logger.Info("payout dispatcher stopped")
			return
		case <-ticker.C:
		case <-d.wake:
		}
	}
}

// RunOnce delivers one batch of pending payouts
func (d *Dispatcher) RunOnce(ctx context.Context) error {
	pending, err := d.store.ListPending(ctx, d.config.BatchSize)
	if err != nil {
		return err
	}

	for _, p := range pending {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		d.deliver(ctx, p)
	}
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, p *Payout) {
	ref, err := d.transferer.Transfer(ctx, p)
	if err != nil {
		final := p.Attempts+1 >= d.config.MaxAttempts
		if markErr := d.store.MarkAttemptFailed(ctx, p.ID, err.Error(), d.config.MaxAttempts); markErr != nil {
			d.logger.Error("failed to record payout failure",
				slog.Int64("payout_id", p.ID),
				slog.String("error", markErr.Error()),
			)
			return
		}
		d.logger.Warn("payout transfer failed",
			slog.Int64("payout_id", p.ID),
			slog.Int("attempt", p.Attempts+1),
			slog.Bool("final", final),
			slog.String("error", err.Error()),
		)
		if final {
			d.record(StatusFailed)
		}
		return
	}

	if err := d.store.MarkSent(ctx, p.ID, ref); err != nil {
		d.logger.Error("failed to record payout delivery",
			slog.Int64("payout_id", p.ID),
			slog.String("ref", ref),
			slog.String("error", err.Error()),
		)
		return
	}
	d.record(StatusSent)
}

func (d *Dispatcher) record(s Status) {
	if d.metrics != nil {
		d.metrics.RecordPayout(string(s))
	}
}
