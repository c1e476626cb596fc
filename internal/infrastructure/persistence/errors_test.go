package persistence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"missing row", gorm.ErrRecordNotFound, shared.ErrNotFound},
		{"duplicate key", gorm.ErrDuplicatedKey, shared.ErrAlreadyExists},
		{"exclusion violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"}), shared.ErrOverlappingPeriod},
		{"numeric out of range", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "22003"}), shared.ErrInvalidInput},
		{"domain error passes through", shared.ErrPeriodLocked, shared.ErrPeriodLocked},
		{"anything else", errors.New("dial tcp: refused"), shared.ErrStoreFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestTranslate_HidesCause(t *testing.T) {
	err := translate(errors.New(`pq: password authentication failed for user "quark"`))
	assert.NotContains(t, err.Error(), "password")
	assert.ErrorContains(t, errors.Unwrap(err), "password")
}

func TestNotFound(t *testing.T) {
	err := notFound(gorm.ErrRecordNotFound, "invoice")
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Contains(t, err.Error(), "invoice not found")
}
