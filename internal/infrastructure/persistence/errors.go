package persistence

import (
	"errors"

	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgExclusionViolation = "23P01"
	pgNumericOutOfRange  = "22003"
)

// translate maps driver errors onto the domain taxonomy. Unknown failures become
// STORE_FAILURE with the original error kept only as the cause.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists.WithCause(err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgExclusionViolation:
			return shared.ErrOverlappingPeriod.WithCause(err)
		case pgNumericOutOfRange:
			return shared.ErrInvalidInput.WithMessage("value out of range").WithCause(err)
		}
	}
	return shared.StoreFailure(err)
}

// notFound returns a NOT_FOUND error naming the entity when err is a missing row
func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound.WithMessage("%s not found", entity)
	}
	return translate(err)
}
