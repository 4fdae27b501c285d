package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DaviDemarqui/workwise-v1/internal/governance"
)

// Repository handles event persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new event repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertTx writes the events emitted by invocation seq inside tx
func (r *Repository) InsertTx(ctx context.Context, tx *sql.Tx, seq int64, at time.Time, events []governance.Event) error {
	query := `
		INSERT INTO events (id, seq, idx, kind, identity, proposal_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for i, e := range events {
		detail, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}

		var proposalID *int64
		if e.ProposalID != nil {
			id := int64(*e.ProposalID)
			proposalID = &id
		}

		if _, err := tx.ExecContext(ctx, query,
			uuid.New(),
			seq,
			i,
			string(e.Kind),
			string(e.Identity),
			proposalID,
			string(detail),
			at,
		); err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}

	return nil
}

// List retrieves events matching f, newest first
func (r *Repository) List(ctx context.Context, f Filter, limit, offset int) ([]*Event, int, error) {
	var (
		conds []string
		args  []any
	)
	if f.Identity != "" {
		args = append(args, string(f.Identity))
		conds = append(conds, fmt.Sprintf("identity = $%d", len(args)))
	}
	if f.Kind != "" {
		args = append(args, string(f.Kind))
		conds = append(conds, fmt.Sprintf("kind = $%d", len(args)))
	}
	if f.ProposalID != nil {
		args = append(args, *f.ProposalID)
		conds = append(conds, fmt.Sprintf("proposal_id = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	// Get total count
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	query := `
		SELECT id, seq, idx, kind, identity, proposal_id, detail, created_at
		FROM events` + where +
		fmt.Sprintf(` ORDER BY seq DESC, idx DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		var detail []byte
		if err := rows.Scan(
			&e.ID,
			&e.Seq,
			&e.Index,
			&e.Kind,
			&e.Identity,
			&e.ProposalID,
			&detail,
			&e.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Detail = detail
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}

	return events, total, nil
}
