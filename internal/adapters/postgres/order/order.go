// Package order adapts internal/domain/order.Writer to Postgres,
// grounded on _examples/LerianStudio-midaz's multi-row INSERT idiom
// (asset.postgresql.go's positional VALUES), generalized to the
// variadic bulk insert of spec.md §4.F.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	domainorder "github.com/CodAressss/orders-batch-service/internal/domain/order"
	"github.com/CodAressss/orders-batch-service/pkg/constant"
	"github.com/CodAressss/orders-batch-service/pkg/dbtx"
)

// orderNumberUniqueConstraint is the unique index on orders.order_number
// declared in migrations/ (spec.md §6, §7 "rare race").
const orderNumberUniqueConstraint = "orders_order_number_key"

// Repository is a Postgres-backed order.Writer.
type Repository struct {
	db dbtx.Executor
}

func New(db dbtx.Executor) *Repository {
	return &Repository{db: db}
}

// BulkInsert inserts every order in orders in a single statement. If the
// database rejects a colliding order_number (a concurrent batch raced
// between snapshot capture and this insert), the whole call fails and no
// row is visible to the caller's query plan — the caller's transaction
// then rolls back the entire batch (spec.md §7).
func (r *Repository) BulkInsert(ctx context.Context, orders []domainorder.ValidatedOrder) error {
	if len(orders) == 0 {
		return nil
	}

	exec := dbtx.GetExecutor(ctx, r.db)

	insert := sqrl.Insert("orders").
		Columns("id", "order_number", "client_id", "delivery_date", "status", "zone_id",
			"requires_refrigeration", "created_at", "updated_at")

	now := time.Now().UTC()

	for _, o := range orders {
		insert = insert.Values(
			uuid.NewString(), o.OrderNumber, o.ClientID, o.DeliveryDate, string(o.Status),
			o.ZoneID, o.RequiresRefrigeration, now, now,
		)
	}

	query, args, err := insert.PlaceholderFormat(sqrl.Dollar).ToSql()
	if err != nil {
		return fmt.Errorf("building bulk insert: %w", err)
	}

	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == orderNumberUniqueConstraint {
			// This collision happens after the catalog snapshot was already
			// validated against, so it is an infrastructural race invalidating
			// the whole batch (spec.md §7), not a single row's fault — it must
			// not be reported as a per-row ORDER_DUPLICATE.
			return fmt.Errorf("order_number collision after snapshot: %w", constant.ErrInternal)
		}

		return err
	}

	return nil
}
