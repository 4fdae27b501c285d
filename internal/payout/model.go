package payout

import (
	"time"

	"github.com/DaviDemarqui/workwise-v1/internal/governance"
)

// Status represents the delivery status of a payout
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSent    Status = "SENT"
	StatusFailed  Status = "FAILED"
)

// Payout is a refund owed to a former member. It is written in the same
// transaction as the invocation that released the deposit and delivered
// afterwards by the Dispatcher.
type Payout struct {
	ID         int64                   `json:"id"`
	Seq        int64                   `json:"seq"` // Invocation that produced the refund
	Recipient  governance.Identity     `json:"recipient"`
	Amount     governance.Amount       `json:"amount"`
	Reason     governance.RefundReason `json:"reason"`
	ProposalID *int64                  `json:"proposal_id,omitempty"`
	Status     Status                  `json:"status"`
	Attempts   int                     `json:"attempts"`
	LastError  *string                 `json:"last_error,omitempty"`
	TxRef      *string                 `json:"tx_ref,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}
