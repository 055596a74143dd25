package main

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iota-uz/recruiting-crm/modules"
	"github.com/iota-uz/recruiting-crm/pkg/configuration"
	"github.com/iota-uz/recruiting-crm/pkg/eventbus"
	"github.com/iota-uz/recruiting-crm/pkg/outbox"
	eventbusdispatcher "github.com/iota-uz/recruiting-crm/pkg/outbox/dispatchers/eventbus"
)

func newDispatcher(bus eventbus.EventBusWithError, log *logrus.Entry) *eventbusdispatcher.Dispatcher {
	d := eventbusdispatcher.New(bus, log)
	modules.RegisterOutboxRoutes(d)
	return d
}

func relayOptions(conf *configuration.Configuration, log *logrus.Entry) outbox.RelayOptions {
	return outbox.RelayOptions{
		PollInterval:    conf.Outbox.RelayPollInterval,
		BatchSize:       conf.Outbox.RelayBatchSize,
		LockTTL:         conf.Outbox.RelayLockTTL,
		MaxAttempts:     conf.Outbox.RelayMaxAttempts,
		SingleActive:    conf.Outbox.RelaySingleActive,
		LastErrorMaxLen: conf.Outbox.LastErrorMaxBytes,
		DispatchTimeout: conf.Outbox.RelayDispatchTimeout,
		Logger:          log,
	}
}

func relayTables(conf *configuration.Configuration) ([]pgx.Identifier, error) {
	return outbox.ParseIdentifierList(conf.Outbox.RelayTables)
}

func cleanerTables(conf *configuration.Configuration, relay []pgx.Identifier) ([]pgx.Identifier, error) {
	if conf.Outbox.CleanerTables == "" {
		return relay, nil
	}
	return outbox.ParseIdentifierList(conf.Outbox.CleanerTables)
}

// startOutboxBackground schedules relays and cleaners on g. They stop when ctx is cancelled.
func startOutboxBackground(
	ctx context.Context,
	g *errgroup.Group,
	conf *configuration.Configuration,
	pool *pgxpool.Pool,
	logger *logrus.Logger,
	bus eventbus.EventBusWithError,
) {
	outboxLog := logger.WithField("component", "outbox")

	relay, relayErr := relayTables(conf)
	if relayErr != nil {
		outboxLog.WithError(relayErr).Warn("outbox: invalid OUTBOX_RELAY_TABLES; relay disabled")
		relay = nil
	}
	cleaner, cleanerErr := cleanerTables(conf, relay)
	if cleanerErr != nil {
		outboxLog.WithError(cleanerErr).Warn("outbox: invalid OUTBOX_CLEANER_TABLES; cleaner disabled")
		cleaner = nil
	}

	if conf.Outbox.RelayEnabled {
		if len(relay) == 0 && relayErr == nil {
			outboxLog.Info("outbox: relay enabled but OUTBOX_RELAY_TABLES is empty")
		}
		dispatcher := newDispatcher(bus, outboxLog)
		for _, table := range relay {
			r, err := outbox.NewRelay(pool, table, dispatcher, relayOptions(conf, outboxLog.WithField("table", outbox.TableLabel(table))))
			if err != nil {
				outboxLog.WithError(err).Warn("outbox: failed to create relay")
				continue
			}
			g.Go(func() error {
				return ignoreCancel(r.Run(ctx))
			})
		}
	}

	if !conf.Outbox.CleanerEnabled {
		return
	}
	if len(cleaner) == 0 {
		outboxLog.Info("outbox: cleaner enabled but no tables configured")
		return
	}
	for _, table := range cleaner {
		c, err := outbox.NewCleaner(pool, table, outbox.CleanerOptions{
			Enabled:               true,
			Interval:              conf.Outbox.CleanerInterval,
			Retention:             conf.Outbox.CleanerRetention,
			DeadRetention:         conf.Outbox.CleanerDeadRetention,
			DeadAttemptsThreshold: conf.Outbox.RelayMaxAttempts,
			Logger:                outboxLog.WithField("table", outbox.TableLabel(table)),
		})
		if err != nil {
			outboxLog.WithError(err).Warn("outbox: failed to create cleaner")
			continue
		}
		g.Go(func() error {
			return ignoreCancel(c.Run(ctx))
		})
	}
}
