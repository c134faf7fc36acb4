// Package repository implements the domain repository interfaces on
// PostgreSQL via pgx.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"fairdata/internal/domain"
)

// PostgreSQL error codes this layer translates into domain errors.
const (
	pgUniqueViolation       = "23505"
	pgForeignKeyViolation   = "23503"
	pgUndefinedTable        = "42P01"
	pgInsufficientPrivilege = "42501"
)

func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.NotFoundError{Message: "resource not found"}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &domain.ConflictError{Message: "resource already exists"}
		case pgForeignKeyViolation:
			return &domain.ValidationError{Message: "owner must reference an existing principal"}
		case pgUndefinedTable:
			return &domain.UnknownRelationError{Relation: pgErr.TableName}
		case pgInsufficientPrivilege:
			return &domain.AccessDeniedError{Message: "insufficient privileges for this relation"}
		}
	}
	return err
}
