package uow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/iota-uz/recruiting-crm/pkg/composables"
	"github.com/iota-uz/recruiting-crm/pkg/constants"
)

var tracer = otel.Tracer("recruiting-crm/uow")

// UnitOfWork runs fn inside a single transaction. The transaction is bound to
// the context handed to fn; repositories pick it up via composables.UseTx.
// A nil error commits, anything else (including a panic) rolls back.
type UnitOfWork interface {
	Do(ctx context.Context, name string, fn func(txCtx context.Context) error) error
}

type Options struct {
	IsoLevel pgx.TxIsoLevel
	Logger   *logrus.Entry
}

type txBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

type pgUnitOfWork struct {
	db   txBeginner
	opts Options
	m    *metrics
}

func New(pool *pgxpool.Pool, opts Options) UnitOfWork {
	if opts.IsoLevel == "" {
		opts.IsoLevel = pgx.ReadCommitted
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		opts.Logger = logrus.NewEntry(l)
	}
	u := &pgUnitOfWork{opts: opts, m: getMetrics()}
	if pool != nil {
		u.db = pool
	}
	return u
}

func (u *pgUnitOfWork) Do(ctx context.Context, name string, fn func(txCtx context.Context) error) (err error) {
	// Join an enclosing unit of work instead of opening a second transaction.
	if existing, ok := ctx.Value(constants.TxKey).(pgx.Tx); ok && existing != nil {
		return fn(ctx)
	}
	if u.db == nil {
		return composables.ErrNoPool
	}

	ctx, span := tracer.Start(ctx, "uow."+name)
	span.SetAttributes(attribute.String("uow.name", name))
	start := time.Now()
	defer func() {
		result := "commit"
		if err != nil {
			result = "rollback"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		u.m.observe(name, result, time.Since(start))
		span.End()
	}()

	tx, err := u.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: u.opts.IsoLevel})
	if err != nil {
		return fmt.Errorf("uow %s: begin: %w", name, err)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("uow %s: panic: %v", name, r)
			if rErr := tx.Rollback(ctx); rErr != nil {
				u.opts.Logger.WithError(rErr).WithField("uow", name).Error("uow: rollback after panic failed")
			}
			panic(r)
		}
	}()

	if err = fn(composables.WithTx(ctx, tx)); err != nil {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			return errors.Join(err, rErr)
		}
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("uow %s: commit: %w", name, err)
	}
	return nil
}

// Result runs fn inside u and returns its value.
func Result[T any](ctx context.Context, u UnitOfWork, name string, fn func(txCtx context.Context) (T, error)) (T, error) {
	var out T
	err := u.Do(ctx, name, func(txCtx context.Context) error {
		var innerErr error
		out, innerErr = fn(txCtx)
		return innerErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
