package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func parseID(name, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, withCode(exitUsage, fmt.Errorf("invalid %s %q: %w", name, s, err))
	}
	return id, nil
}

// parseOptionalID treats an empty string as uuid.Nil.
func parseOptionalID(name, s string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, nil
	}
	return parseID(name, s)
}

// parseAmount treats an empty string as an unset amount.
func parseAmount(name, s string) (decimal.NullDecimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.NullDecimal{}, withCode(exitUsage, fmt.Errorf("invalid %s %q: %w", name, s, err))
	}
	return decimal.NewNullDecimal(d), nil
}
