package orders

// StatusChangedMessage is enqueued by the admin API after a status
// transition and consumed by the stats worker.
type StatusChangedMessage struct {
	OrderID        string `json:"order_id"`
	Status         Status `json:"status"`
	IdempotencyKey string `json:"idempotency_key"`
	CorrelationID  string `json:"correlation_id,omitempty"`
}
