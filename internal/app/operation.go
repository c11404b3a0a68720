package app

import (
	"time"

	"github.com/google/uuid"

	"phonestore/internal/inventory"
)

// Operation tracks one CLI invocation (e.g. "serve", "phones.add").
// Its Label tags every log line the invocation writes.
type Operation struct {
	ID        string
	Name      string
	StartedAt time.Time
	Status    string // "success" or "error"
}

// NewOperation starts an operation named name at the clock's current time.
func NewOperation(name string, clock inventory.Clock) *Operation {
	return &Operation{
		ID:        uuid.NewString(),
		Name:      name,
		StartedAt: clock.Now().UTC(),
		Status:    "success",
	}
}

// Label returns the operation name and the first block of its id.
func (op *Operation) Label() string {
	short := op.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return op.Name + "/" + short
}

// Fail marks the operation as failed.
func (op *Operation) Fail() {
	op.Status = "error"
}

// Elapsed returns the time since the operation started.
func (op *Operation) Elapsed(clock inventory.Clock) time.Duration {
	return clock.Now().UTC().Sub(op.StartedAt)
}
