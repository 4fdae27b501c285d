package membership

import "github.com/DaviDemarqui/workwise-v1/internal/governance"

// JoinRequest represents the request to join governance. Value is the
// amount attached to the call, in wei.
type JoinRequest struct {
	Value *uint64 `json:"value" validate:"required"`
}

// MemberResponse represents the response for a membership record
type MemberResponse struct {
	Identity       string  `json:"identity"`
	DepositedValue uint64  `json:"deposited_value"`
	IsActive       bool    `json:"is_active"`
	JoinedAt       string  `json:"joined_at"`
	LeftAt         *string `json:"left_at,omitempty"`
}

// RefundResponse represents a refund owed to a departing member
type RefundResponse struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
	Reason    string `json:"reason"`
}

// JoinResponse is returned by POST /members/join
type JoinResponse struct {
	Seq    int64           `json:"seq"`
	Member *MemberResponse `json:"member"`
}

// LeaveResponse is returned by POST /members/leave
type LeaveResponse struct {
	Seq    int64           `json:"seq"`
	Refund *RefundResponse `json:"refund"`
}

const timeLayout = "2006-01-02T15:04:05Z"

// ToMemberResponse converts a governance member to a MemberResponse DTO
func ToMemberResponse(m *governance.Member) *MemberResponse {
	resp := &MemberResponse{
		Identity:       string(m.Identity),
		DepositedValue: uint64(m.DepositedValue),
		IsActive:       m.IsActive,
		JoinedAt:       m.JoinedAt.UTC().Format(timeLayout),
	}
	if m.LeftAt != nil {
		left := m.LeftAt.UTC().Format(timeLayout)
		resp.LeftAt = &left
	}
	return resp
}

// ToRefundResponse converts a governance refund to a RefundResponse DTO
func ToRefundResponse(r governance.Refund) *RefundResponse {
	return &RefundResponse{
		Recipient: string(r.Recipient),
		Amount:    uint64(r.Amount),
		Reason:    string(r.Reason),
	}
}
