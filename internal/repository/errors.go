package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories translate into sentinel errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgInvalidText         = "22P02"
)

var (
	ErrDuplicate           = errors.New("duplicate entry")
	ErrInvalidReference    = errors.New("invalid reference")
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrInvalidInput means PostgreSQL could not parse a parameter, e.g. a malformed uuid.
	ErrInvalidInput = errors.New("invalid input syntax")
)

// classify maps PostgreSQL integrity and input syntax errors to repository sentinels.
// The constraint name is kept in the message for logs.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrInvalidReference, pgErr.ConstraintName)
	case pgCheckViolation:
		return fmt.Errorf("%w: %s", ErrConstraintViolation, pgErr.ConstraintName)
	case pgInvalidText:
		return fmt.Errorf("%w: %s", ErrInvalidInput, pgErr.Message)
	}
	return err
}

// nullable turns an empty string into SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
