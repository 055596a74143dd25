package application

import (
	"context"
	"database/sql"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

type migrationManager struct {
	pool   *pgxpool.Pool
	fsys   fs.FS
	logger *logrus.Logger
}

// NewMigrationManager runs the goose migrations found at the root of fsys against pool.
func NewMigrationManager(pool *pgxpool.Pool, fsys fs.FS, logger *logrus.Logger) MigrationManager {
	return &migrationManager{pool: pool, fsys: fsys, logger: logger}
}

func (m *migrationManager) provider() (*goose.Provider, *sql.DB, error) {
	db := stdlib.OpenDBFromPool(m.pool)
	p, err := goose.NewProvider(goose.DialectPostgres, db, m.fsys)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return p, db, nil
}

func (m *migrationManager) Run(ctx context.Context) error {
	p, db, err := m.provider()
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := p.Up(ctx)
	for _, r := range results {
		m.logger.WithField("migration", r.Source.Path).WithField("duration", r.Duration).Info("migration applied")
	}
	return err
}

// Rollback reverts every applied migration.
func (m *migrationManager) Rollback(ctx context.Context) error {
	p, db, err := m.provider()
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := p.DownTo(ctx, 0)
	for _, r := range results {
		m.logger.WithField("migration", r.Source.Path).Info("migration reverted")
	}
	return err
}

func (m *migrationManager) Status(ctx context.Context) error {
	p, db, err := m.provider()
	if err != nil {
		return err
	}
	defer db.Close()

	statuses, err := p.Status(ctx)
	if err != nil {
		return err
	}
	for _, s := range statuses {
		m.logger.WithFields(logrus.Fields{
			"migration": s.Source.Path,
			"state":     s.State,
			"applied":   s.AppliedAt,
		}).Info("migration status")
	}
	return nil
}
