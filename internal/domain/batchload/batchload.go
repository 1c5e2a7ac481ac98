// Package batchload holds the BatchLoad aggregate (spec.md §3, §4.E), its
// state machine, and the narrow Store port used by the orchestrator.
//
// BatchLoad exclusively owns its RowError children (DESIGN.md's "cyclic
// aggregate↔child references" Design Note: children are a plain owned
// slice, with no back-reference to the parent at the type level).
// ValidatedOrder rows are not owned here; their linkage to a BatchLoad is
// conceptual (same transaction), never referential.
package batchload

import (
	"context"
	"time"

	"github.com/CodAressss/orders-batch-service/internal/domain/rowerror"
)

// Status is one of the three BatchLoad lifecycle states.
type Status string

const (
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// BatchLoad is the persisted aggregate identified by an opaque UUID, with
// natural key (IdempotencyKey, FileDigest) enforced unique by the store.
//
// Invariant: SuccessCount + ErrorCount == TotalProcessed. Once COMPLETED
// or FAILED, counters and Errors are immutable; a PROCESSING row with
// zero counters and no Errors is the initial, just-reserved form.
type BatchLoad struct {
	ID             string
	IdempotencyKey string
	FileDigest     string
	Status         Status
	TotalProcessed int
	SuccessCount   int
	ErrorCount     int
	Errors         []rowerror.RowError

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filename, content type, and free-form tags are ambient upload metadata
// (SPEC_FULL.md §3) kept exclusively in the Mongo batch_metadata sidecar
// (internal/adapters/mongodb), never in this aggregate or the relational
// batch_loads row.

// Store is the narrow idempotency port the orchestrator depends on
// (spec.md §4.E). Postgres is its sole source of truth; a Redis
// accelerator in front of it (SPEC_FULL.md §4.O) may short-circuit a
// lookup but never substitutes for the store's own unique constraint.
type Store interface {
	// Lookup returns the BatchLoad for (key, digest), or found=false if
	// none exists yet.
	Lookup(ctx context.Context, idempotencyKey, fileDigest string) (bl BatchLoad, found bool, err error)

	// Reserve atomically creates a PROCESSING row for (key, digest). It
	// must return ErrAlreadyReserved (pkg/constant) on a unique-key race,
	// without other side effects.
	Reserve(ctx context.Context, idempotencyKey, fileDigest string) (BatchLoad, error)

	// Finalize attaches counters and error children and transitions the
	// row to COMPLETED. It is idempotent under retry only when called
	// again with identical arguments.
	Finalize(ctx context.Context, id string, totalProcessed, successCount int, errs []rowerror.RowError) (BatchLoad, error)

	// Fail transitions the row to FAILED without touching counters or
	// children.
	Fail(ctx context.Context, id string) (BatchLoad, error)

	// Get fetches a previously persisted BatchLoad by ID (SPEC_FULL.md §6
	// diagnostic endpoint), found=false if unknown.
	Get(ctx context.Context, id string) (bl BatchLoad, found bool, err error)
}
