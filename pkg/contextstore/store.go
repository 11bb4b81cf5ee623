// Package contextstore persists the conversation context handle the bot
// backend hands out. One durable string slot, read at controller construction
// and overwritten whenever an exchange returns a fresh id. Last write wins;
// concurrent widget instances sharing a slot are expected to race.
package contextstore

import "context"

// Store is the durable single-slot context id store.
type Store interface {
	// Get reads the slot. A missing slot yields "" and no error.
	Get(ctx context.Context) (string, error)
	// Save overwrites the slot. Saving an empty id is a no-op, so a backend
	// response without a context id never clears an existing session.
	Save(ctx context.Context, id string) error
}
