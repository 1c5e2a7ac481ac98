// Package batchload adapts internal/domain/batchload.Store to Postgres,
// grounded on _examples/LerianStudio-midaz's asset.postgresql.go
// (ExecContext/QueryRowContext shape, pgconn.PgError unique-constraint
// mapping), generalized to the reserve/finalize/fail state machine of
// spec.md §4.E.
//
// Errors are persisted as rows in batch_load_errors, not a JSON column
// (spec.md §6), matching DESIGN.md's "cyclic aggregate/child references"
// Design Note: the parent ID is passed to each child at insert time, with
// no back-reference from child to parent at the type level.
package batchload

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/CodAressss/orders-batch-service/internal/domain/batchload"
	"github.com/CodAressss/orders-batch-service/internal/domain/rowerror"
	"github.com/CodAressss/orders-batch-service/pkg/constant"
	"github.com/CodAressss/orders-batch-service/pkg/dbtx"
)

// reservationUniqueConstraint is the name of the unique index on
// (idempotency_key, file_hash) declared in migrations/ (spec.md §6).
const reservationUniqueConstraint = "batch_loads_idempotency_key_file_hash_key"

var batchLoadColumns = []string{
	"id", "idempotency_key", "file_hash", "status", "total_processed",
	"success_count", "error_count", "created_at", "updated_at",
}

// Repository is a Postgres-backed batchload.Store. It resolves its
// executor from ctx on every call via pkg/dbtx.GetExecutor, so it works
// unmodified whether the caller is inside an orchestrator transaction or
// not.
type Repository struct {
	db dbtx.Executor
}

func New(db dbtx.Executor) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Lookup(ctx context.Context, idempotencyKey, fileDigest string) (batchload.BatchLoad, bool, error) {
	exec := dbtx.GetExecutor(ctx, r.db)

	query, args, err := sqrl.Select(batchLoadColumns...).
		From("batch_loads").
		Where(sqrl.Eq{"idempotency_key": idempotencyKey, "file_hash": fileDigest}).
		PlaceholderFormat(sqrl.Dollar).
		ToSql()
	if err != nil {
		return batchload.BatchLoad{}, false, err
	}

	bl, err := scanBatchLoad(exec.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return batchload.BatchLoad{}, false, nil
	}

	if err != nil {
		return batchload.BatchLoad{}, false, err
	}

	if err := r.attachErrors(ctx, exec, &bl); err != nil {
		return batchload.BatchLoad{}, false, err
	}

	return bl, true, nil
}

func (r *Repository) Reserve(ctx context.Context, idempotencyKey, fileDigest string) (batchload.BatchLoad, error) {
	exec := dbtx.GetExecutor(ctx, r.db)

	id := uuid.NewString()

	query, args, err := sqrl.Insert("batch_loads").
		Columns("id", "idempotency_key", "file_hash", "status", "total_processed", "success_count", "error_count").
		Values(id, idempotencyKey, fileDigest, string(batchload.StatusProcessing), 0, 0, 0).
		Suffix("RETURNING " + joinColumns(batchLoadColumns)).
		PlaceholderFormat(sqrl.Dollar).
		ToSql()
	if err != nil {
		return batchload.BatchLoad{}, err
	}

	bl, err := scanBatchLoad(exec.QueryRowContext(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == reservationUniqueConstraint {
			return batchload.BatchLoad{}, constant.ErrAlreadyReserved
		}

		return batchload.BatchLoad{}, err
	}

	return bl, nil
}

func (r *Repository) Finalize(ctx context.Context, id string, totalProcessed, successCount int, errs []rowerror.RowError) (batchload.BatchLoad, error) {
	exec := dbtx.GetExecutor(ctx, r.db)

	query, args, err := sqrl.Update("batch_loads").
		Set("status", string(batchload.StatusCompleted)).
		Set("total_processed", totalProcessed).
		Set("success_count", successCount).
		Set("error_count", len(errs)).
		Set("updated_at", sqrl.Expr("now()")).
		Where(sqrl.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(batchLoadColumns)).
		PlaceholderFormat(sqrl.Dollar).
		ToSql()
	if err != nil {
		return batchload.BatchLoad{}, err
	}

	bl, err := scanBatchLoad(exec.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return batchload.BatchLoad{}, fmt.Errorf("finalize: %w", constant.ErrBatchLoadNotFound)
	}

	if err != nil {
		return batchload.BatchLoad{}, err
	}

	if err := r.insertErrors(ctx, exec, id, errs); err != nil {
		return batchload.BatchLoad{}, err
	}

	bl.Errors = errs

	return bl, nil
}

func (r *Repository) Fail(ctx context.Context, id string) (batchload.BatchLoad, error) {
	exec := dbtx.GetExecutor(ctx, r.db)

	query, args, err := sqrl.Update("batch_loads").
		Set("status", string(batchload.StatusFailed)).
		Set("updated_at", sqrl.Expr("now()")).
		Where(sqrl.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(batchLoadColumns)).
		PlaceholderFormat(sqrl.Dollar).
		ToSql()
	if err != nil {
		return batchload.BatchLoad{}, err
	}

	bl, err := scanBatchLoad(exec.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return batchload.BatchLoad{}, fmt.Errorf("fail: %w", constant.ErrBatchLoadNotFound)
	}

	return bl, err
}

func (r *Repository) Get(ctx context.Context, id string) (batchload.BatchLoad, bool, error) {
	exec := dbtx.GetExecutor(ctx, r.db)

	query, args, err := sqrl.Select(batchLoadColumns...).
		From("batch_loads").
		Where(sqrl.Eq{"id": id}).
		PlaceholderFormat(sqrl.Dollar).
		ToSql()
	if err != nil {
		return batchload.BatchLoad{}, false, err
	}

	bl, err := scanBatchLoad(exec.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return batchload.BatchLoad{}, false, nil
	}

	if err != nil {
		return batchload.BatchLoad{}, false, err
	}

	if err := r.attachErrors(ctx, exec, &bl); err != nil {
		return batchload.BatchLoad{}, false, err
	}

	return bl, true, nil
}

// insertErrors bulk-inserts errs as children of batchLoadID, each row
// carrying the parent ID directly — no back-reference exists at the Go
// type level (rowerror.RowError knows nothing about its parent).
func (r *Repository) insertErrors(ctx context.Context, exec dbtx.Executor, batchLoadID string, errs []rowerror.RowError) error {
	if len(errs) == 0 {
		return nil
	}

	insert := sqrl.Insert("batch_load_errors").
		Columns("id", "batch_load_id", "line_number", "code", "message")

	for _, e := range errs {
		insert = insert.Values(uuid.NewString(), batchLoadID, e.LineNumber, string(e.Code), e.Message)
	}

	query, args, err := insert.PlaceholderFormat(sqrl.Dollar).ToSql()
	if err != nil {
		return err
	}

	_, err = exec.ExecContext(ctx, query, args...)

	return err
}

func (r *Repository) attachErrors(ctx context.Context, exec dbtx.Executor, bl *batchload.BatchLoad) error {
	query, args, err := sqrl.Select("line_number", "code", "message").
		From("batch_load_errors").
		Where(sqrl.Eq{"batch_load_id": bl.ID}).
		OrderBy("line_number").
		PlaceholderFormat(sqrl.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	errs := make([]rowerror.RowError, 0)

	for rows.Next() {
		var (
			e    rowerror.RowError
			code string
		)

		if err := rows.Scan(&e.LineNumber, &code, &e.Message); err != nil {
			return err
		}

		e.Code = rowerror.Code(code)
		errs = append(errs, e)
	}

	if err := rows.Err(); err != nil {
		return err
	}

	bl.Errors = errs

	return nil
}

func joinColumns(columns []string) string {
	out := columns[0]
	for _, c := range columns[1:] {
		out += ", " + c
	}

	return out
}

// rowScanner is satisfied by *sql.Row, letting scanBatchLoad be shared
// across QueryRowContext call sites.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatchLoad(row rowScanner) (batchload.BatchLoad, error) {
	var (
		bl     batchload.BatchLoad
		status string
	)

	if err := row.Scan(
		&bl.ID, &bl.IdempotencyKey, &bl.FileDigest, &status, &bl.TotalProcessed,
		&bl.SuccessCount, &bl.ErrorCount, &bl.CreatedAt, &bl.UpdatedAt,
	); err != nil {
		return batchload.BatchLoad{}, err
	}

	bl.Status = batchload.Status(status)

	return bl, nil
}
