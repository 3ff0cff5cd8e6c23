package service

import (
	"context"
)

// Ledger appends submission records to the external tabular store.
// Append order inside the store is the store's concern; this interface
// issues one row per call.
type Ledger interface {
	// EnsureHeaders writes the header row if the first row of the tab is
	// empty. Existing content is never overwritten.
	EnsureHeaders(ctx context.Context, headers []string) error

	// AppendRow appends one row with insert-rows semantics.
	AppendRow(ctx context.Context, row []string) error
}
