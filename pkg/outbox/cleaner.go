package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Cleaner deletes published messages older than Retention and, when
// DeadRetention is set, dead messages older than that.
type Cleaner struct {
	pool       *pgxpool.Pool
	table      pgx.Identifier
	opts       CleanerOptions
	tableLabel string
	m          *metrics
}

func NewCleaner(pool *pgxpool.Pool, table pgx.Identifier, opts CleanerOptions) (*Cleaner, error) {
	if pool == nil {
		return nil, invalidConfig("pool is required")
	}
	if len(table) == 0 {
		return nil, invalidConfig("table is required")
	}
	opts.setDefaults()
	if opts.DeadRetention > 0 && opts.DeadAttemptsThreshold <= 0 {
		return nil, invalidConfig("dead retention requires DeadAttemptsThreshold > 0")
	}
	return &Cleaner{
		pool:       pool,
		table:      table,
		opts:       opts,
		tableLabel: TableLabel(table),
		m:          getMetrics(),
	}, nil
}

func (c *Cleaner) Run(ctx context.Context) error {
	if ctx == nil {
		return invalidConfig("ctx is required")
	}
	if !c.opts.Enabled {
		return nil
	}

	ticker := time.NewTicker(c.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		published, dead, err := c.CleanOnce(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			c.opts.Logger.WithError(err).WithField("table", c.tableLabel).Warn("outbox: cleaner tick failed")
			continue
		}
		if published+dead > 0 {
			c.opts.Logger.WithFields(map[string]any{
				"table":     c.tableLabel,
				"published": published,
				"dead":      dead,
			}).Debug("outbox: cleaner removed messages")
		}
	}
}

// CleanOnce runs one retention pass and returns the number of deleted published and dead rows.
func (c *Cleaner) CleanOnce(ctx context.Context) (published int64, dead int64, err error) {
	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tableName := c.table.Sanitize()
	tag, err := tx.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE published_at IS NOT NULL AND published_at < $1`, tableName),
		time.Now().Add(-c.opts.Retention),
	)
	if err != nil {
		return 0, 0, fmt.Errorf("outbox cleaner delete published: %w", err)
	}
	published = tag.RowsAffected()

	if c.opts.DeadRetention > 0 {
		tag, err = tx.Exec(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE published_at IS NULL AND attempts >= $1 AND created_at < $2`, tableName),
			c.opts.DeadAttemptsThreshold, time.Now().Add(-c.opts.DeadRetention),
		)
		if err != nil {
			return 0, 0, fmt.Errorf("outbox cleaner delete dead: %w", err)
		}
		dead = tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, err
	}
	c.m.observeCleaned(c.tableLabel, published, dead)
	return published, dead, nil
}
