package records

import (
	"context"

	"moneynote/internal/core"
)

// Ports for outbound record stores.
type (
	Lister interface {
		// List returns every record in the store, in store order.
		List(ctx context.Context) ([]core.Record, error)
	}

	Creator interface {
		// Create persists r and returns it with the id assigned by the store.
		Create(ctx context.Context, r core.Record) (core.Record, error)
	}

	Deleter interface {
		Delete(ctx context.Context, id string) error
	}

	Store interface {
		Lister
		Creator
		Deleter
	}
)
