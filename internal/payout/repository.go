package payout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/DaviDemarqui/workwise-v1/internal/governance"
)

// Repository handles payout persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new payout repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const payoutColumns = `id, seq, recipient, amount, reason, proposal_id, status, attempts, last_error, tx_ref, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayout(row rowScanner) (*Payout, error) {
	p := &Payout{}
	var amount string
	if err := row.Scan(
		&p.ID,
		&p.Seq,
		&p.Recipient,
		&amount,
		&p.Reason,
		&p.ProposalID,
		&p.Status,
		&p.Attempts,
		&p.LastError,
		&p.TxRef,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	v, err := strconv.ParseUint(amount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid payout amount %q: %w", amount, err)
	}
	p.Amount = governance.Amount(v)
	return p, nil
}

// InsertTx writes the refunds produced by invocation seq inside tx
func (r *Repository) InsertTx(ctx context.Context, tx *sql.Tx, seq int64, at time.Time, refunds []governance.Refund) error {
	query := `
		INSERT INTO payouts (seq, recipient, amount, reason, proposal_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`

	for _, rf := range refunds {
		var proposalID *int64
		if rf.ProposalID != nil {
			id := int64(*rf.ProposalID)
			proposalID = &id
		}

		// Amounts can exceed int64 and are stored as NUMERIC
		if _, err := tx.ExecContext(ctx, query,
			seq,
			string(rf.Recipient),
			strconv.FormatUint(uint64(rf.Amount), 10),
			string(rf.Reason),
			proposalID,
			string(StatusPending),
			at,
		); err != nil {
			return fmt.Errorf("failed to insert payout: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a payout by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE id = $1`

	p, err := scanPayout(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payout: %w", err)
	}
	return p, nil
}

// ListByRecipient retrieves payouts owed to recipient, newest first
func (r *Repository) ListByRecipient(ctx context.Context, recipient governance.Identity, limit, offset int) ([]*Payout, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM payouts WHERE recipient = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, string(recipient)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payouts: %w", err)
	}

	query := `SELECT ` + payoutColumns + `
		FROM payouts
		WHERE recipient = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3
	`
	payouts, err := r.list(ctx, query, string(recipient), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return payouts, total, nil
}

// ListPending retrieves up to limit pending payouts, oldest first
func (r *Repository) ListPending(ctx context.Context, limit int) ([]*Payout, error) {
	query := `SELECT ` + payoutColumns + `
		FROM payouts
		WHERE status = $1
		ORDER BY id
		LIMIT $2
	`
	return r.list(ctx, query, string(StatusPending), limit)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Payout, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}
	defer rows.Close()

	var payouts []*Payout
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payout: %w", err)
		}
		payouts = append(payouts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}
	return payouts, nil
}

// MarkSent records a delivered payout
func (r *Repository) MarkSent(ctx context.Context, id int64, txRef string) error {
	query := `
		UPDATE payouts
		SET status = $2, tx_ref = $3, attempts = attempts + 1, last_error = NULL, updated_at = NOW()
		WHERE id = $1 AND status = $4
	`
	return r.transition(ctx, query, id, string(StatusSent), txRef, string(StatusPending))
}

// MarkAttemptFailed records a failed delivery. The payout stays PENDING
// until maxAttempts is reached, then becomes FAILED.
func (r *Repository) MarkAttemptFailed(ctx context.Context, id int64, reason string, maxAttempts int) error {
	query := `
		UPDATE payouts
		SET attempts = attempts + 1,
		    last_error = $2,
		    status = CASE WHEN attempts + 1 >= $3 THEN $4 ELSE status END,
		    updated_at = NOW()
		WHERE id = $1 AND status = $5
	`
	return r.transition(ctx, query, id, reason, maxAttempts, string(StatusFailed), string(StatusPending))
}

// Requeue moves a FAILED payout back to PENDING with a fresh attempt budget
func (r *Repository) Requeue(ctx context.Context, id int64) (*Payout, error) {
	query := `
		UPDATE payouts
		SET status = $2, attempts = 0, updated_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING ` + payoutColumns

	p, err := scanPayout(r.db.QueryRowContext(ctx, query, id, string(StatusPending), string(StatusFailed)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidStatusChange
		}
		return nil, fmt.Errorf("failed to requeue payout: %w", err)
	}
	return p, nil
}

func (r *Repository) transition(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update payout: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update payout: %w", err)
	}
	if n == 0 {
		return ErrInvalidStatusChange
	}
	return nil
}
