package idempotency

import "time"

// Status values for idempotency entries
const (
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
	StatusFailed     = "FAILED"
)

// IdempotencyRecord tracks one status-change message through the stats worker.
type IdempotencyRecord struct {
	IdempotencyKey string    `dynamodbav:"idempotency_key"` // PK
	Status         string    `dynamodbav:"status"`
	OrderID        string    `dynamodbav:"order_id,omitempty"`
	OrderStatus    string    `dynamodbav:"order_status,omitempty"`
	Result         string    `dynamodbav:"result,omitempty"` // short summary of the published figures
	CreatedAt      time.Time `dynamodbav:"created_at"`
	UpdatedAt      time.Time `dynamodbav:"updated_at"`
	LeaseUntil     int64     `dynamodbav:"lease_until"` // epoch seconds; an IN_PROGRESS claim past this may be retaken
	ExpiresAt      int64     `dynamodbav:"expires_at"`  // TTL epoch seconds
	Note           string    `dynamodbav:"note,omitempty"`
}
