package automation

import (
	"time"

	"github.com/google/uuid"
)

// TriggerType names the lifecycle event that fires a template.
type TriggerType string

const (
	TriggerOrderPlaced    TriggerType = "ORDER_PLACED"
	TriggerOrderDelivered TriggerType = "ORDER_DELIVERED"
	TriggerWinBack        TriggerType = "WIN_BACK"
)

func (t TriggerType) Valid() bool {
	switch t {
	case TriggerOrderPlaced, TriggerOrderDelivered, TriggerWinBack:
		return true
	}
	return false
}

// SendStatus is the delivery state of one scheduled send.
type SendStatus string

const (
	SendPending SendStatus = "PENDING"
	SendSent    SendStatus = "SENT"
	SendSkipped SendStatus = "SKIPPED"
)

// Template is an email automation rule: when its trigger fires, a send
// is scheduled delay_hours later.
type Template struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	TriggerType     TriggerType `json:"trigger_type"`
	DelayHours      int         `json:"delay_hours"`
	Subject         string      `json:"subject"`
	Body            string      `json:"body"`
	Active          bool        `json:"active"`
	UpsellProductID *uuid.UUID  `json:"upsell_product_id,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Send is one scheduled delivery of a template to a customer.
type Send struct {
	ID            uuid.UUID  `json:"id"`
	TemplateID    uuid.UUID  `json:"template_id"`
	OrderID       *uuid.UUID `json:"order_id,omitempty"`
	CustomerID    *uuid.UUID `json:"customer_id,omitempty"`
	CustomerEmail string     `json:"customer_email"`
	Status        SendStatus `json:"status"`
	ScheduledFor  time.Time  `json:"scheduled_for"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TemplateInput is the create/update payload for a template.
type TemplateInput struct {
	Name            string  `json:"name"`
	TriggerType     string  `json:"trigger_type"`
	DelayHours      *int    `json:"delay_hours"`
	Subject         string  `json:"subject"`
	Body            string  `json:"body"`
	Active          *bool   `json:"active"`
	UpsellProductID *string `json:"upsell_product_id"`
}
