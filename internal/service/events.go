package service

import "context"

// Broadcast actions pushed to realtime subscribers after a commit.
const (
	ActionSaleCreated     = "sale_created"
	ActionInvoiceCreated  = "invoice_created"
	ActionOverrideUpdated = "override_updated"
)

// Publisher fans committed changes out to realtime subscribers. It must not block.
type Publisher interface {
	Publish(action string, data interface{}, message string)
}

// IdempotencyStore remembers which sale a client-supplied Idempotency-Key produced.
type IdempotencyStore interface {
	// Claim reserves key. When the key is already taken it returns the stored
	// sale id, or 0 while the first request is still in flight.
	Claim(ctx context.Context, key string) (claimed bool, saleID uint, err error)
	Complete(ctx context.Context, key string, saleID uint) error
	Release(ctx context.Context, key string) error
}

func publish(p Publisher, action string, data interface{}, message string) {
	if p == nil {
		return
	}
	p.Publish(action, data, message)
}
