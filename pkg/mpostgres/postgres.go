// Package mpostgres wraps primary/replica Postgres connections behind a
// single load-balancing handle and runs schema migrations on connect,
// ported from the teacher's common/mpostgres/postgres.go.
package mpostgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/bxcodec/dbresolver/v2"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Connection is a hub which deals with postgres primary/replica connections.
type Connection struct {
	PrimaryDSN     string
	ReplicaDSN     string
	PrimaryDBName  string
	MigrationsPath string

	db        dbresolver.DB
	connected bool
}

// Connect opens the primary and replica handles, runs pending migrations
// against the primary, and pings the resolver.
func (c *Connection) Connect() error {
	dbPrimary, err := sql.Open("pgx", c.PrimaryDSN)
	if err != nil {
		return fmt.Errorf("open primary: %w", err)
	}

	replicaDSN := c.ReplicaDSN
	if replicaDSN == "" {
		replicaDSN = c.PrimaryDSN
	}

	dbReplica, err := sql.Open("pgx", replicaDSN)
	if err != nil {
		return fmt.Errorf("open replica: %w", err)
	}

	resolved := dbresolver.New(
		dbresolver.WithPrimaryDBs(dbPrimary),
		dbresolver.WithReplicaDBs(dbReplica),
		dbresolver.WithLoadBalancer(dbresolver.RoundRobinLB),
	)

	if c.MigrationsPath != "" {
		driver, err := postgres.WithInstance(dbPrimary, &postgres.Config{
			MultiStatementEnabled: true,
			DatabaseName:          c.PrimaryDBName,
			SchemaName:            "public",
		})
		if err != nil {
			return fmt.Errorf("migration driver: %w", err)
		}

		m, err := migrate.NewWithDatabaseInstance("file://"+c.MigrationsPath, c.PrimaryDBName, driver)
		if err != nil {
			return fmt.Errorf("migration instance: %w", err)
		}

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrate up: %w", err)
		}
	}

	if err := resolved.Ping(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}

	c.db = resolved
	c.connected = true

	return nil
}

// DB returns the primary/replica-balanced handle, connecting lazily. The
// returned dbresolver.DB satisfies dbtx.Beginner and dbtx.Executor, so it
// can be passed directly to dbtx.RunInTransaction / dbtx.GetExecutor.
func (c *Connection) DB() (dbresolver.DB, error) {
	if !c.connected {
		if err := c.Connect(); err != nil {
			return nil, err
		}
	}

	return c.db, nil
}

// Resolver returns the raw dbresolver handle, for replica-targeted reads.
func (c *Connection) Resolver() (dbresolver.DB, error) {
	if !c.connected {
		if err := c.Connect(); err != nil {
			return nil, err
		}
	}

	return c.db, nil
}
