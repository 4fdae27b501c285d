package eventlog

import (
	"context"
	"errors"

	"github.com/DaviDemarqui/workwise-v1/pkg/pagination"
)

// Common errors
var (
	ErrInvalidKind = errors.New("unknown event kind")
)

// Store is the read side of the event log
type Store interface {
	List(ctx context.Context, f Filter, limit, offset int) ([]*Event, int, error)
}

// Service handles event log queries
type Service struct {
	store Store
}

// NewService creates a new event log service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List retrieves a page of events matching f
func (s *Service) List(ctx context.Context, f Filter, page, perPage int) ([]*Event, int, error) {
	if f.Kind != "" && !ValidKind(f.Kind) {
		return nil, 0, ErrInvalidKind
	}
	page, perPage = pagination.Normalize(page, perPage)
	return s.store.List(ctx, f, perPage, pagination.Offset(page, perPage))
}
