package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one append-only record of an admin mutation. Entries are
// never updated or deleted by normal operation.
type Entry struct {
	ID          uuid.UUID `json:"id"`
	EntityType  string    `json:"entity_type"`
	EntityID    string    `json:"entity_id"`
	Action      string    `json:"action"`
	AuthorName  string    `json:"author_name"`
	BeforeData  string    `json:"before_data,omitempty"`
	AfterData   string    `json:"after_data,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListFilter narrows an audit query.
type ListFilter struct {
	EntityType string
	EntityID   string
	Limit      int
}
