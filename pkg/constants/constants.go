package constants

import (
	"github.com/go-playground/validator/v10"
)

type contextKey string

const (
	TxKey     contextKey = "tx"
	PoolKey   contextKey = "pool"
	LoggerKey contextKey = "logger"
	ActorKey  contextKey = "actor"
)

var Validate = validator.New(validator.WithRequiredStructEnabled())
