// Package command implements the orchestrator (spec.md §4.G): the one
// place that composes the digest, snapshot, validator, and store ports.
// Grounded on DESIGN.md's "ambient transaction via annotations" Design
// Note, each transaction boundary is an explicit
// pkg/dbtx.RunInTransaction call, not a framework annotation.
//
// The reservation (step 2) commits in its own transaction before
// snapshot/validate/insert/finalize (steps 3-6) run in a second one, so
// that a failure in steps 3-5 can durably mark the reservation FAILED
// (step 3-5 failure handling, spec.md §4.G) via a third, independent
// transaction — compensating a committed reservation can never happen
// from inside the transaction that is rolling back because of it.
package command

import (
	"context"
	"errors"

	"github.com/CodAressss/orders-batch-service/internal/domain/batchload"
	"github.com/CodAressss/orders-batch-service/internal/domain/catalog"
	"github.com/CodAressss/orders-batch-service/internal/domain/order"
	"github.com/CodAressss/orders-batch-service/internal/domain/row"
	"github.com/CodAressss/orders-batch-service/internal/domain/rowerror"
	"github.com/CodAressss/orders-batch-service/internal/ingestion/validator"
	"github.com/CodAressss/orders-batch-service/pkg/constant"
	"github.com/CodAressss/orders-batch-service/pkg/dbtx"
	"github.com/CodAressss/orders-batch-service/pkg/mlog"
)

// IdempotencyCache is the narrow port onto the Redis fast-path
// accelerator (SPEC_FULL.md §4.O): a SETNX-shaped claim, consulted
// before the Postgres lookup, and a best-effort forget on a FAILED
// transition so a retry is not blocked by a stale marker.
type IdempotencyCache interface {
	TryMark(ctx context.Context, idempotencyKey, fileDigest string) (ok bool, err error)
	Forget(ctx context.Context, idempotencyKey, fileDigest string) error
}

// LoadOrders is the use case behind POST /api/v1/orders/load
// (spec.md §4.G, §4.H). Side-channel effects (RabbitMQ event publish,
// Mongo metadata write) are invoked by the caller after Execute
// returns, never from inside it: they must never influence the
// transaction outcome or HTTP status (SPEC_FULL.md §4.O-Q Open
// Question). The Redis cache is the one side channel Execute itself
// reads, since it exists specifically to short-circuit step 1.
type LoadOrders struct {
	Store      batchload.Store
	Catalog    catalog.SnapshotReader
	Writer     order.Writer
	Transactor dbtx.Beginner
	Cache      IdempotencyCache
}

// Summary is the result of a successful batch load, returned to the
// HTTP layer for response shaping (spec.md §4.H).
type Summary struct {
	BatchLoadID    string
	TotalProcessed int
	StoredCount    int
	ErrorCount     int
	Errors         []rowerror.RowError
}

// Execute runs the seven-step sequence of spec.md §4.G against rows,
// identified by (idempotencyKey, fileDigest).
func (uc *LoadOrders) Execute(ctx context.Context, idempotencyKey, fileDigest string, rows []row.Row) (Summary, error) {
	logger := mlog.FromContext(ctx)

	// Step 1: pre-reservation lookup. A Redis claim short-circuits the
	// Postgres round-trip entirely; a miss or any cache error falls
	// through to it unchanged, since Postgres is the sole source of
	// truth (SPEC_FULL.md §4.O).
	if uc.Cache != nil {
		ok, err := uc.Cache.TryMark(ctx, idempotencyKey, fileDigest)
		if err != nil {
			logger.Warnf("redis fast-path cache read failed for (%s, %s): %v", idempotencyKey, fileDigest, err)
		} else if !ok {
			return Summary{}, constant.ErrBeingProcessed
		}
	}

	existing, found, err := uc.Store.Lookup(ctx, idempotencyKey, fileDigest)
	if err != nil {
		return Summary{}, err
	}

	if found {
		switch existing.Status {
		case batchload.StatusCompleted:
			return Summary{}, constant.ErrAlreadyProcessed
		case batchload.StatusProcessing:
			return Summary{}, constant.ErrBeingProcessed
		case batchload.StatusFailed:
			// Treated as not-present: a new reservation is allowed exactly
			// once after a failed run.
		}
	}

	// Step 2: reserve, committed on its own so a later compensating fail
	// has something durable to act on.
	var reserved batchload.BatchLoad

	err = dbtx.RunInTransaction(ctx, uc.Transactor, func(txCtx context.Context) error {
		bl, err := uc.Store.Reserve(txCtx, idempotencyKey, fileDigest)
		if err != nil {
			return err
		}

		reserved = bl

		return nil
	})
	if err != nil {
		if errors.Is(err, constant.ErrAlreadyReserved) {
			return Summary{}, constant.ErrAlreadyProcessed
		}

		return Summary{}, err
	}

	// Steps 3-6: snapshot, validate, insert, finalize, one transaction.
	var result Summary

	pipelineErr := dbtx.RunInTransaction(ctx, uc.Transactor, func(txCtx context.Context) error {
		// Step 3: snapshot.
		snapshot, err := uc.Catalog.LoadSnapshot(txCtx)
		if err != nil {
			return err
		}

		// Step 4: validate, accumulating (validOrders, errors) in input order.
		validOrders := make([]order.ValidatedOrder, 0, len(rows))
		rowErrors := make([]rowerror.RowError, 0)

		for _, r := range rows {
			validated, rowErr := validator.Validate(r, snapshot)
			if rowErr != nil {
				rowErrors = append(rowErrors, *rowErr)
				continue
			}

			validOrders = append(validOrders, validated)
		}

		// Step 5: insert.
		if len(validOrders) > 0 {
			if err := uc.Writer.BulkInsert(txCtx, validOrders); err != nil {
				return err
			}
		}

		// Step 6: finalize.
		finalized, err := uc.Store.Finalize(txCtx, reserved.ID, len(rows), len(validOrders), rowErrors)
		if err != nil {
			return err
		}

		result = Summary{
			BatchLoadID:    finalized.ID,
			TotalProcessed: finalized.TotalProcessed,
			StoredCount:    finalized.SuccessCount,
			ErrorCount:     finalized.ErrorCount,
			Errors:         finalized.Errors,
		}

		return nil
	})
	if pipelineErr != nil {
		uc.failReservation(ctx, reserved.ID, idempotencyKey, fileDigest, logger)
		return Summary{}, pipelineErr
	}

	// Step 7: return the summary.
	return result, nil
}

// failReservation runs E.fail(id) in its own transaction, compensating a
// reservation that steps 3-5 could not complete (spec.md §4.G). It never
// overrides the pipeline's own error, which is always what the caller
// sees. On success it also forgets the Redis claim, so a retry with the
// same (idempotencyKey, fileDigest) is not blocked by a stale marker.
func (uc *LoadOrders) failReservation(ctx context.Context, id, idempotencyKey, fileDigest string, logger mlog.Logger) {
	err := dbtx.RunInTransaction(ctx, uc.Transactor, func(txCtx context.Context) error {
		_, err := uc.Store.Fail(txCtx, id)
		return err
	})
	if err != nil {
		logger.Errorf("failed to mark batch load %s as FAILED after an error: %v", id, err)
		return
	}

	if uc.Cache == nil {
		return
	}

	if err := uc.Cache.Forget(ctx, idempotencyKey, fileDigest); err != nil {
		logger.Warnf("redis fast-path cache forget failed for (%s, %s): %v", idempotencyKey, fileDigest, err)
	}
}
