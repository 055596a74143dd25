package outbox

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// Relay polls an outbox table and hands unpublished messages to a Dispatcher.
// Delivery is at-least-once: a message is acked only after Dispatch returns nil.
type Relay struct {
	pool       *pgxpool.Pool
	table      pgx.Identifier
	dispatcher Dispatcher
	opts       RelayOptions

	lockKey int64

	m          *metrics
	tableLabel string
}

func NewRelay(pool *pgxpool.Pool, table pgx.Identifier, dispatcher Dispatcher, opts RelayOptions) (*Relay, error) {
	if pool == nil {
		return nil, invalidConfig("pool is required")
	}
	if len(table) == 0 {
		return nil, invalidConfig("table is required")
	}
	if dispatcher == nil {
		return nil, invalidConfig("dispatcher is required")
	}

	opts.setDefaults()

	label := TableLabel(table)
	return &Relay{
		pool:       pool,
		table:      table,
		dispatcher: dispatcher,
		opts:       opts,
		m:          getMetrics(),
		tableLabel: label,
		lockKey:    advisoryLockKey("outbox:" + label),
	}, nil
}

// Run blocks until ctx is done. With SingleActive only the instance holding the
// table's advisory lock processes messages; the others keep polling for it.
func (r *Relay) Run(ctx context.Context) error {
	if ctx == nil {
		return invalidConfig("ctx is required")
	}
	if !r.opts.SingleActive {
		r.m.setLeader(r.tableLabel, true)
		return r.runLoop(ctx, nil)
	}

	for {
		conn, leader, err := r.electLeader(ctx)
		if err != nil {
			r.opts.Logger.WithError(err).Warn("outbox: leader election failed")
		}
		if leader {
			r.m.setLeader(r.tableLabel, true)
			r.opts.Logger.WithField("table", r.tableLabel).Info("outbox: relay became leader")

			err = r.runLoop(ctx, conn)
			if _, unlockErr := conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1::bigint)`, r.lockKey); unlockErr != nil {
				r.opts.Logger.WithError(unlockErr).Warn("outbox: advisory unlock failed")
			}
			conn.Release()
			r.m.setLeader(r.tableLabel, false)
			return err
		}

		r.m.setLeader(r.tableLabel, false)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.opts.PollInterval):
		}
	}
}

// electLeader returns a held connection when this instance won the lock.
func (r *Relay) electLeader(ctx context.Context) (*pgxpool.Conn, bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, false, err
	}
	var ok bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1::bigint)`, r.lockKey).Scan(&ok); err != nil {
		conn.Release()
		return nil, false, err
	}
	if !ok {
		conn.Release()
		return nil, false, nil
	}
	return conn, true, nil
}

func (r *Relay) runLoop(ctx context.Context, conn *pgxpool.Conn) error {
	ticker := time.NewTicker(r.opts.PollInterval)
	defer ticker.Stop()

	nextDepthAt := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if time.Now().After(nextDepthAt) {
			if err := r.observeQueueDepth(ctx, conn); err != nil {
				r.opts.Logger.WithError(err).Debug("outbox: observe queue depth failed")
			}
			nextDepthAt = time.Now().Add(r.opts.ObserveQueueDepthEvery)
		}

		if _, err := r.processOnce(ctx, conn); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			r.opts.Logger.WithError(err).Warn("outbox: process tick failed")
		}
	}
}

// Drain runs a single claim and dispatch pass and reports how many messages were claimed.
func (r *Relay) Drain(ctx context.Context) (int, error) {
	return r.processOnce(ctx, nil)
}

type claimed struct {
	ID          uuid.UUID
	Topic       string
	AggregateID uuid.UUID
	Payload     []byte
	EventID     uuid.UUID
	Sequence    int64
	Attempts    int
}

func (c claimed) fields(table string) logrus.Fields {
	return logrus.Fields{
		"table":        table,
		"topic":        c.Topic,
		"event_id":     c.EventID.String(),
		"aggregate_id": c.AggregateID.String(),
		"sequence":     c.Sequence,
		"attempts":     c.Attempts,
	}
}

func (r *Relay) processOnce(ctx context.Context, conn *pgxpool.Conn) (int, error) {
	now := time.Now()
	batch, err := r.claim(ctx, conn, now, now.Add(-r.opts.LockTTL))
	if err != nil {
		return 0, err
	}

	for _, c := range batch {
		err := r.dispatch(ctx, c)
		log := r.opts.Logger.WithFields(c.fields(r.tableLabel))

		var settleErr error
		switch {
		case err == nil:
			settleErr = r.settle(ctx, conn, "ack", c.ID,
				`SET published_at = now(), locked_at = NULL, last_error = NULL`)
		case c.Attempts >= r.opts.MaxAttempts:
			r.m.deadLetter.WithLabelValues(r.tableLabel, c.Topic).Inc()
			log.WithError(err).Error("outbox: message exhausted its attempts")
			settleErr = r.settle(ctx, conn, "dead", c.ID,
				`SET locked_at = NULL, last_error = $2, available_at = now()`,
				truncateError(err, r.opts.LastErrorMaxLen))
		default:
			next := time.Now().Add(backoff(c.Attempts, r.opts.MaxBackoff) + jitter(r.opts.Rand, r.opts.JitterMax))
			settleErr = r.settle(ctx, conn, "nack", c.ID,
				`SET locked_at = NULL, last_error = $2, available_at = $3`,
				truncateError(err, r.opts.LastErrorMaxLen), next)
		}
		if settleErr != nil {
			log.WithError(settleErr).Warn("outbox: settle failed")
		}
	}
	return len(batch), nil
}

func (r *Relay) dispatch(ctx context.Context, c claimed) error {
	if r.opts.DispatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.DispatchTimeout)
		defer cancel()
	}

	start := time.Now()
	err := r.dispatcher.Dispatch(ctx, DispatchedMessage{
		Meta: Meta{
			Table:       r.table,
			Topic:       c.Topic,
			EventID:     c.EventID,
			AggregateID: c.AggregateID,
			Sequence:    c.Sequence,
			Attempts:    c.Attempts,
		},
		Payload: c.Payload,
	})

	r.m.observeDispatch(r.tableLabel, c.Topic, err, time.Since(start))
	return err
}

func (r *Relay) claim(ctx context.Context, conn *pgxpool.Conn, now, lockCutoff time.Time) ([]claimed, error) {
	var items []claimed
	err := r.inTx(ctx, conn, func(tx pgx.Tx) error {
		q := fmt.Sprintf(
			`SELECT id, topic, aggregate_id, payload, event_id, sequence, attempts
			   FROM %s
			  WHERE published_at IS NULL
			    AND available_at <= $1
			    AND attempts < $2
			    AND (locked_at IS NULL OR locked_at < $3)
			  ORDER BY available_at, sequence
			  LIMIT $4
			  FOR UPDATE SKIP LOCKED`,
			r.table.Sanitize(),
		)
		rows, err := tx.Query(ctx, q, now, r.opts.MaxAttempts, lockCutoff, r.opts.BatchSize)
		if err != nil {
			return fmt.Errorf("outbox claim select: %w", err)
		}
		defer rows.Close()

		ids := make([]uuid.UUID, 0, r.opts.BatchSize)
		for rows.Next() {
			var c claimed
			if err := rows.Scan(&c.ID, &c.Topic, &c.AggregateID, &c.Payload, &c.EventID, &c.Sequence, &c.Attempts); err != nil {
				return fmt.Errorf("outbox claim scan: %w", err)
			}
			c.Attempts++
			items = append(items, c)
			ids = append(ids, c.ID)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("outbox claim rows: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		update := fmt.Sprintf(`UPDATE %s SET locked_at = $1, attempts = attempts + 1 WHERE id = ANY($2)`, r.table.Sanitize())
		if _, err := tx.Exec(ctx, update, now, pgtype.FlatArray[uuid.UUID](ids)); err != nil {
			return fmt.Errorf("outbox claim update: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// settle applies setClause to a still unpublished message. Extra args start at $2.
func (r *Relay) settle(ctx context.Context, conn *pgxpool.Conn, op string, id uuid.UUID, setClause string, args ...any) error {
	return r.inTx(ctx, conn, func(tx pgx.Tx) error {
		q := fmt.Sprintf(`UPDATE %s %s WHERE id = $1 AND published_at IS NULL`, r.table.Sanitize(), setClause)
		if _, err := tx.Exec(ctx, q, append([]any{id}, args...)...); err != nil {
			return fmt.Errorf("outbox %s: %w", op, err)
		}
		return nil
	})
}

// inTx prefers the leader connection so the advisory lock session does the work.
func (r *Relay) inTx(ctx context.Context, conn *pgxpool.Conn, fn func(tx pgx.Tx) error) error {
	var (
		tx  pgx.Tx
		err error
	)
	if conn != nil {
		tx, err = conn.BeginTx(ctx, pgx.TxOptions{})
	} else {
		tx, err = r.pool.BeginTx(ctx, pgx.TxOptions{})
	}
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Relay) observeQueueDepth(ctx context.Context, conn *pgxpool.Conn) error {
	var row pgx.Row
	q := fmt.Sprintf(
		`SELECT count(*), count(*) FILTER (WHERE locked_at IS NOT NULL) FROM %s WHERE published_at IS NULL`,
		r.table.Sanitize(),
	)
	if conn != nil {
		row = conn.QueryRow(ctx, q)
	} else {
		row = r.pool.QueryRow(ctx, q)
	}

	var pending, locked int64
	if err := row.Scan(&pending, &locked); err != nil {
		return fmt.Errorf("outbox queue depth: %w", err)
	}
	r.m.setBacklog(r.tableLabel, pending, locked)
	return nil
}

func advisoryLockKey(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
