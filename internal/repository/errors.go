package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Domain-level errors every store implementation surfaces instead of driver errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")
)

// MapPgError translates the Postgres error codes the services care about.
// A unique violation on publish_targets is a duplicate profile name; a
// foreign key, check or serialization failure means the write raced a
// concurrent change. Conflicts keep the driver error in the chain so a
// transaction runner can still tell a serialization failure apart.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrAlreadyExists
		case pgerrcode.ForeignKeyViolation, pgerrcode.CheckViolation, pgerrcode.SerializationFailure:
			return fmt.Errorf("%w: %w", ErrConflict, err)
		}
	}
	return err
}
