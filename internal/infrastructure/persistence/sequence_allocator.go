package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/bewloop/quark-system/internal/domain/sequence"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"gorm.io/gorm"
)

const (
	incrementCounterSQL = `UPDATE document_counters SET current_no = current_no + 1, updated_at = ? ` +
		`WHERE doc_type = ? AND period_key = ? RETURNING current_no`
	seedCounterSQL = `INSERT INTO document_counters (doc_type, period_key, current_no, updated_at) ` +
		`VALUES (?, ?, 0, ?) ON CONFLICT (doc_type, period_key) DO NOTHING`
)

// GormSequenceAllocator allocates document numbers by atomically incrementing a
// counter row. The row lock taken by the UPDATE is held until the surrounding
// transaction ends, so concurrent allocators queue on it and each observes the
// value committed by the previous one.
type GormSequenceAllocator struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormSequenceAllocator creates a new GormSequenceAllocator
func NewGormSequenceAllocator(db *gorm.DB) *GormSequenceAllocator {
	return &GormSequenceAllocator{db: db, now: time.Now}
}

// Next implements sequence.Allocator
func (a *GormSequenceAllocator) Next(ctx context.Context, docType sequence.DocumentType, periodKey string) (int64, error) {
	if !docType.IsValid() || periodKey == "" {
		return 0, shared.ErrInvalidInput.WithMessage("unknown document series %s/%s", docType, periodKey)
	}
	db := conn(ctx, a.db)

	n, ok, err := a.increment(db, docType, periodKey)
	if err != nil {
		return 0, translate(err)
	}
	if ok {
		return n, nil
	}

	// First document of this period: create the counter row, then increment it.
	if err := db.Exec(seedCounterSQL, string(docType), periodKey, a.now()).Error; err != nil {
		return 0, translate(err)
	}
	n, ok, err = a.increment(db, docType, periodKey)
	if err != nil {
		return 0, translate(err)
	}
	if !ok {
		return 0, shared.StoreFailure(errors.New("document counter row missing after seed"))
	}
	return n, nil
}

func (a *GormSequenceAllocator) increment(db *gorm.DB, docType sequence.DocumentType, periodKey string) (int64, bool, error) {
	var values []int64
	if err := db.Raw(incrementCounterSQL, a.now(), string(docType), periodKey).Scan(&values).Error; err != nil {
		return 0, false, err
	}
	if len(values) == 0 {
		return 0, false, nil
	}
	return values[0], true, nil
}

// Peek implements sequence.Allocator
func (a *GormSequenceAllocator) Peek(ctx context.Context, docType sequence.DocumentType, periodKey string) (int64, error) {
	if !docType.IsValid() || periodKey == "" {
		return 0, shared.ErrInvalidInput.WithMessage("unknown document series %s/%s", docType, periodKey)
	}
	var values []int64
	err := conn(ctx, a.db).
		Raw(`SELECT current_no FROM document_counters WHERE doc_type = ? AND period_key = ?`, string(docType), periodKey).
		Scan(&values).Error
	if err != nil {
		return 0, translate(err)
	}
	if len(values) == 0 {
		return 1, nil
	}
	return values[0] + 1, nil
}

var _ sequence.Allocator = (*GormSequenceAllocator)(nil)
