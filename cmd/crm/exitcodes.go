package main

import (
	"errors"

	"github.com/iota-uz/recruiting-crm/pkg/serrors"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK           = 0
	exitValidation   = 2
	exitUsage        = 3
	exitDB           = 4
	exitNotFound     = 5
	exitInvalidState = 6
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

// fromService picks an exit code from the error kind returned by a service.
func fromService(err error) error {
	if err == nil {
		return nil
	}
	switch serrors.KindOf(err) {
	case serrors.KindValidation:
		return withCode(exitValidation, err)
	case serrors.KindNotFound:
		return withCode(exitNotFound, err)
	case serrors.KindInvalidState:
		return withCode(exitInvalidState, err)
	default:
		return withCode(exitDB, err)
	}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}
