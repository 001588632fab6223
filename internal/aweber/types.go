package aweber

import (
	"fmt"
)

// Broadcast statuses understood by the API.
const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusSent      = "sent"
)

// Statuses lists every broadcast status in fetch order.
var Statuses = []string{StatusDraft, StatusScheduled, StatusSent}

// Account represents an AWeber account entry.
type Account struct {
	ID                  int64  `json:"id"`
	ListsCollectionLink string `json:"lists_collection_link"`
	SelfLink            string `json:"self_link"`
}

// List represents a subscriber list within an account.
type List struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Broadcast represents a broadcast message. Collection entries carry the
// identifying fields; BodyHTML is only populated on the detail resource.
type Broadcast struct {
	BroadcastID  int64  `json:"broadcast_id"`
	Subject      string `json:"subject"`
	Status       string `json:"status"`
	BodyHTML     string `json:"body_html"`
	SentAt       string `json:"sent_at"`
	ScheduledFor string `json:"scheduled_for"`
	CreatedAt    string `json:"created_at"`
	SelfLink     string `json:"self_link"`
}

// Date returns the most relevant timestamp for the broadcast: the send
// time, the scheduled time, or the creation time, whichever exists first.
func (b *Broadcast) Date() string {
	switch {
	case b.SentAt != "":
		return b.SentAt
	case b.ScheduledFor != "":
		return b.ScheduledFor
	default:
		return b.CreatedAt
	}
}

// page is the envelope AWeber wraps around every collection response.
type page[T any] struct {
	Entries            []T    `json:"entries"`
	NextCollectionLink string `json:"next_collection_link"`
	TotalSize          int    `json:"total_size"`
}

// APIError is returned for any non-success API response. The status code
// and response body are preserved for diagnostics.
type APIError struct {
	StatusCode int
	Body       string
	URL        string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("aweber: GET %s returned %d: %s", e.URL, e.StatusCode, body)
}
