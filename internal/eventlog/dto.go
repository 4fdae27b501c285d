package eventlog

import "encoding/json"

// EventResponse represents the response for a governance event
type EventResponse struct {
	ID         string          `json:"id"`
	Seq        int64           `json:"seq"`
	Index      int             `json:"index"`
	Kind       string          `json:"kind"`
	Identity   string          `json:"identity,omitempty"`
	ProposalID *int64          `json:"proposal_id,omitempty"`
	Detail     json.RawMessage `json:"detail" swaggertype:"object"`
	CreatedAt  string          `json:"created_at"`
}

// ToResponse converts an Event model to an EventResponse DTO
func (e *Event) ToResponse() *EventResponse {
	return &EventResponse{
		ID:         e.ID.String(),
		Seq:        e.Seq,
		Index:      e.Index,
		Kind:       string(e.Kind),
		Identity:   string(e.Identity),
		ProposalID: e.ProposalID,
		Detail:     e.Detail,
		CreatedAt:  e.CreatedAt.UTC().Format("2006-01-02T15:04:05.000000Z"),
	}
}
