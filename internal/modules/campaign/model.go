package campaign

import (
	"time"

	"github.com/google/uuid"
)

// Status is the campaign lifecycle state.
type Status string

const (
	StatusDraft Status = "DRAFT"
	StatusSent  Status = "SENT"
)

// Campaign is a one-off email blast targeted at a customer segment.
// RecipientCount is snapshotted at send time.
type Campaign struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Segment        string     `json:"segment"`
	Subject        string     `json:"subject"`
	Body           string     `json:"body"`
	PromoCode      string     `json:"promo_code,omitempty"`
	RecipientCount int        `json:"recipient_count"`
	Status         Status     `json:"status"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Input is the create/update payload for a campaign.
type Input struct {
	Name      string `json:"name"`
	Segment   string `json:"segment"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	PromoCode string `json:"promo_code"`
}
