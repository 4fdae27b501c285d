// Package membership exposes joining, leaving and the member registry.
package membership

import (
	"context"
	"errors"

	"github.com/DaviDemarqui/workwise-v1/internal/executor"
	"github.com/DaviDemarqui/workwise-v1/internal/governance"
	"github.com/DaviDemarqui/workwise-v1/pkg/pagination"
)

// Common errors
var (
	ErrMemberNotFound = errors.New("member not found")
)

// Executor is the subset of the governance executor used by memberships
type Executor interface {
	Join(ctx context.Context, caller governance.Identity, value governance.Amount) (*executor.Result, error)
	Leave(ctx context.Context, caller governance.Identity) (*executor.Result, error)
	Member(id governance.Identity) *governance.Member
	Members(activeOnly bool) []*governance.Member
}

// Service handles membership business logic
type Service struct {
	exec Executor
}

// NewService creates a new membership service
func NewService(exec Executor) *Service {
	return &Service{exec: exec}
}

// Join makes caller a member and returns the new record
func (s *Service) Join(ctx context.Context, caller governance.Identity, req *JoinRequest) (*governance.Member, int64, error) {
	res, err := s.exec.Join(ctx, caller, governance.Amount(*req.Value))
	if err != nil {
		return nil, 0, err
	}
	return s.exec.Member(caller), res.Seq, nil
}

// Leave deactivates caller and returns the refund owed
func (s *Service) Leave(ctx context.Context, caller governance.Identity) (*governance.Refund, int64, error) {
	res, err := s.exec.Leave(ctx, caller)
	if err != nil {
		return nil, 0, err
	}
	if len(res.Receipt.Refunds) == 0 {
		return nil, res.Seq, nil
	}
	refund := res.Receipt.Refunds[0]
	return &refund, res.Seq, nil
}

// GetByIdentity retrieves a membership record
func (s *Service) GetByIdentity(id governance.Identity) (*governance.Member, error) {
	m := s.exec.Member(id)
	if m == nil {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

// List retrieves a page of membership records in first-join order
func (s *Service) List(activeOnly bool, page, perPage int) ([]*governance.Member, int) {
	members := s.exec.Members(activeOnly)
	total := len(members)

	start, end := pagination.Bounds(page, perPage, total)
	if start == end {
		return []*governance.Member{}, total
	}
	return members[start:end], total
}
