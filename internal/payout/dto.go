package payout

// PayoutResponse represents the response for a payout
type PayoutResponse struct {
	ID         int64   `json:"id"`
	Recipient  string  `json:"recipient"`
	Amount     uint64  `json:"amount"`
	Reason     string  `json:"reason"`
	ProposalID *int64  `json:"proposal_id,omitempty"`
	Status     Status  `json:"status"`
	Attempts   int     `json:"attempts"`
	LastError  *string `json:"last_error,omitempty"`
	TxRef      *string `json:"tx_ref,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// ToResponse converts a Payout model to a PayoutResponse DTO
func (p *Payout) ToResponse() *PayoutResponse {
	return &PayoutResponse{
		ID:         p.ID,
		Recipient:  string(p.Recipient),
		Amount:     uint64(p.Amount),
		Reason:     string(p.Reason),
		ProposalID: p.ProposalID,
		Status:     p.Status,
		Attempts:   p.Attempts,
		LastError:  p.LastError,
		TxRef:      p.TxRef,
		CreatedAt:  p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:  p.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
