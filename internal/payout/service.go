package payout

import (
	"context"
	"errors"

	"github.com/DaviDemarqui/workwise-v1/internal/governance"
	"github.com/DaviDemarqui/workwise-v1/pkg/pagination"
)

// Common errors
var (
	ErrPayoutNotFound      = errors.New("payout not found")
	ErrNotRecipient        = errors.New("not the recipient of this payout")
	ErrInvalidStatusChange = errors.New("invalid status change")
)

// Store is the persistence used by the service and the dispatcher
type Store interface {
	GetByID(ctx context.Context, id int64) (*Payout, error)
	ListByRecipient(ctx context.Context, recipient governance.Identity, limit, offset int) ([]*Payout, int, error)
	ListPending(ctx context.Context, limit int) ([]*Payout, error)
	MarkSent(ctx context.Context, id int64, txRef string) error
	MarkAttemptFailed(ctx context.Context, id int64, reason string, maxAttempts int) error
	Requeue(ctx context.Context, id int64) (*Payout, error)
}

// Service handles payout queries and retries
type Service struct {
	store  Store
	notify func()
}

// NewService creates a new payout service. notify, if set, is called after a
// payout is requeued.
func NewService(store Store, notify func()) *Service {
	return &Service{store: store, notify: notify}
}

// GetByID retrieves a payout visible to caller
func (s *Service) GetByID(ctx context.Context, id int64, caller governance.Identity) (*Payout, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPayoutNotFound
	}
	if p.Recipient != caller {
		return nil, ErrNotRecipient
	}
	return p, nil
}

// ListByRecipient retrieves the caller's payouts
func (s *Service) ListByRecipient(ctx context.Context, recipient governance.Identity, page, perPage int) ([]*Payout, int, error) {
	page, perPage = pagination.Normalize(page, perPage)
	return s.store.ListByRecipient(ctx, recipient, perPage, pagination.Offset(page, perPage))
}

// Retry lets the recipient requeue a FAILED payout
func (s *Service) Retry(ctx context.Context, id int64, caller governance.Identity) (*Payout, error) {
	p, err := s.GetByID(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	// Only FAILED payouts can be retried
	if p.Status != StatusFailed {
		return nil, ErrInvalidStatusChange
	}

	p, err = s.store.Requeue(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify()
	}
	return p, nil
}
