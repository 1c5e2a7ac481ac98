// Package catalog adapts internal/domain/catalog.SnapshotReader to
// Postgres, grounded on _examples/LerianStudio-midaz's FindAll query
// shape (asset.postgresql.go), generalized to the three-query snapshot
// capture of spec.md §4.C.
package catalog

import (
	"context"

	sqrl "github.com/Masterminds/squirrel"

	domaincatalog "github.com/CodAressss/orders-batch-service/internal/domain/catalog"
	"github.com/CodAressss/orders-batch-service/pkg/dbtx"
)

// Repository is a Postgres-backed catalog.SnapshotReader.
type Repository struct {
	db dbtx.Executor
}

func New(db dbtx.Executor) *Repository {
	return &Repository{db: db}
}

// LoadSnapshot issues the three read-only queries spec.md §4.C requires,
// captured once per batch and never refreshed mid-batch.
func (r *Repository) LoadSnapshot(ctx context.Context) (domaincatalog.Snapshot, error) {
	exec := dbtx.GetExecutor(ctx, r.db)

	activeClients, err := r.loadActiveClients(ctx, exec)
	if err != nil {
		return domaincatalog.Snapshot{}, err
	}

	zones, err := r.loadZones(ctx, exec)
	if err != nil {
		return domaincatalog.Snapshot{}, err
	}

	orderNumbers, err := r.loadExistingOrderNumbers(ctx, exec)
	if err != nil {
		return domaincatalog.Snapshot{}, err
	}

	return domaincatalog.Snapshot{
		ActiveClients:        activeClients,
		Zones:                zones,
		ExistingOrderNumbers: orderNumbers,
	}, nil
}

func (r *Repository) loadActiveClients(ctx context.Context, exec dbtx.Executor) (map[string]struct{}, error) {
	query, args, err := sqrl.Select("id").From("clients").Where(sqrl.Eq{"active": true}).
		PlaceholderFormat(sqrl.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make(map[string]struct{})

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		clients[id] = struct{}{}
	}

	return clients, rows.Err()
}

func (r *Repository) loadZones(ctx context.Context, exec dbtx.Executor) (map[string]bool, error) {
	query, args, err := sqrl.Select("id", "refrigeration_capable").From("zones").
		PlaceholderFormat(sqrl.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	zones := make(map[string]bool)

	for rows.Next() {
		var (
			id                   string
			refrigerationCapable bool
		)

		if err := rows.Scan(&id, &refrigerationCapable); err != nil {
			return nil, err
		}

		zones[id] = refrigerationCapable
	}

	return zones, rows.Err()
}

func (r *Repository) loadExistingOrderNumbers(ctx context.Context, exec dbtx.Executor) (map[string]struct{}, error) {
	query, args, err := sqrl.Select("order_number").From("orders").
		PlaceholderFormat(sqrl.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orderNumbers := make(map[string]struct{})

	for rows.Next() {
		var orderNumber string
		if err := rows.Scan(&orderNumber); err != nil {
			return nil, err
		}

		orderNumbers[orderNumber] = struct{}{}
	}

	return orderNumbers, rows.Err()
}
