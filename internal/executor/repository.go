package executor

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/DaviDemarqui/workwise-v1/internal/governance"
)

// EventWriter writes governance events inside a journal transaction
type EventWriter interface {
	InsertTx(ctx context.Context, tx *sql.Tx, seq int64, at time.Time, events []governance.Event) error
}

// PayoutWriter writes refunds inside a journal transaction
type PayoutWriter interface {
	InsertTx(ctx context.Context, tx *sql.Tx, seq int64, at time.Time, refunds []governance.Refund) error
}

// Repository is the PostgreSQL journal
type Repository struct {
	db      *sql.DB
	events  EventWriter
	payouts PayoutWriter
}

// NewRepository creates a new journal repository
func NewRepository(db *sql.DB, events EventWriter, payouts PayoutWriter) *Repository {
	return &Repository{db: db, events: events, payouts: payouts}
}

// Commit writes the invocation, its events and its payouts in one transaction
func (r *Repository) Commit(ctx context.Context, e *Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	inv := e.Invocation
	query := `
		INSERT INTO invocations (seq, operation, caller, value, args, invoked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.ExecContext(ctx, query,
		inv.Seq,
		string(inv.Operation),
		string(inv.Caller),
		strconv.FormatUint(uint64(inv.Value), 10),
		nullableJSON(inv.Args),
		inv.At,
	); err != nil {
		return fmt.Errorf("failed to insert invocation: %w", err)
	}

	if err := r.events.InsertTx(ctx, tx, inv.Seq, inv.At, e.Events); err != nil {
		return err
	}
	if err := r.payouts.InsertTx(ctx, tx, inv.Seq, inv.At, e.Refunds); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Load retrieves every invocation ordered by seq
func (r *Repository) Load(ctx context.Context) ([]*Invocation, error) {
	query := `
		SELECT seq, operation, caller, value, args, invoked_at
		FROM invocations
		ORDER BY seq
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load invocations: %w", err)
	}
	defer rows.Close()

	var invocations []*Invocation
	for rows.Next() {
		inv := &Invocation{}
		var (
			value string
			args  []byte
		)
		if err := rows.Scan(
			&inv.Seq,
			&inv.Operation,
			&inv.Caller,
			&value,
			&args,
			&inv.At,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invocation: %w", err)
		}

		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q at seq %d: %w", value, inv.Seq, err)
		}
		inv.Value = governance.Amount(v)
		inv.Args = args
		inv.At = inv.At.UTC()
		invocations = append(invocations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load invocations: %w", err)
	}

	return invocations, nil
}

// LoadGenesis retrieves the recorded genesis, or nil when none was recorded
func (r *Repository) LoadGenesis(ctx context.Context) (*governance.Genesis, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `SELECT config FROM genesis WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load genesis: %w", err)
	}

	var g governance.Genesis
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("failed to decode genesis: %w", err)
	}
	return &g, nil
}

// SaveGenesis records g. An existing genesis is kept.
func (r *Repository) SaveGenesis(ctx context.Context, g governance.Genesis) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to encode genesis: %w", err)
	}

	query := `
		INSERT INTO genesis (id, config)
		VALUES (1, $1)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, string(raw)); err != nil {
		return fmt.Errorf("failed to save genesis: %w", err)
	}
	return nil
}

// nullableJSON sends JSON as text so lib/pq does not encode it as bytea
func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
