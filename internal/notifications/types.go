// Package notifications loads the platform notification feed page by page.
package notifications

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLimit is the page size used when a query leaves Limit unset.
const DefaultLimit = 10

// Status of a notification.
type Status string

const (
	StatusNew      Status = "new"
	StatusSeen     Status = "seen"
	StatusArchived Status = "archived"
)

// Priority of a notification.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityWarning  Priority = "Warning"
	PriorityInfo     Priority = "Info"
)

// DefaultStatuses is the status filter applied when a query sets none.
var DefaultStatuses = []Status{StatusNew, StatusSeen}

// Notification is one record of the feed.
type Notification struct {
	ID         uuid.UUID `json:"id"`
	InsertedAt time.Time `json:"inserted_at"`
	Name       string    `json:"name"`
	Status     Status    `json:"status"`
	Priority   Priority  `json:"priority"`
	Data       Data      `json:"data"`
}

// Data is the open-ended payload. Message is markdown.
type Data struct {
	Title      string   `json:"title"`
	Message    string   `json:"message"`
	OrgSlug    string   `json:"org_slug,omitempty"`
	ProjectRef string   `json:"project_ref,omitempty"`
	Actions    []Action `json:"actions"`
}

// Action is a link or client-side action attached to a notification.
type Action struct {
	Label      string `json:"label"`
	URL        string `json:"url,omitempty"`
	ActionType string `json:"action_type,omitempty"`
}

// Query selects one page of the feed.
type Query struct {
	Page     int
	Limit    int
	Status   []Status
	Priority []Priority
}

func (q Query) limit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}

func (q Query) statuses() []Status {
	if len(q.Status) == 0 {
		return DefaultStatuses
	}
	return q.Status
}
