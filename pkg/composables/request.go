package composables

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/recruiting-crm/pkg/constants"
)

// SystemActor is recorded as the author of changes made without an authenticated caller.
const SystemActor = "system"

// WithActor stores the identity of the caller performing state changes.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, constants.ActorKey, strings.TrimSpace(actorID))
}

// UseActor returns the caller identity or SystemActor when none was set.
func UseActor(ctx context.Context) string {
	actor, _ := ctx.Value(constants.ActorKey).(string)
	if actor == "" {
		return SystemActor
	}
	return actor
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// UseLogger returns the logger from the context, or a discarding entry when none is set.
func UseLogger(ctx context.Context) *logrus.Entry {
	if logger, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry); ok && logger != nil {
		return logger
	}
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}
