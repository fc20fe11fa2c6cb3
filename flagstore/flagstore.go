// Package flagstore is the durable table of approved reports, and the
// queries quorum detection and statement rendering run against it.
package flagstore

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&FlagRecord{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// TryInsert inserts the record unless one already exists for the same
// (reporter, report_comment) pair. Returns false on conflict without error,
// so duplicate approvals are a safe no-op for the caller to classify.
func (s *Store) TryInsert(ctx context.Context, rec *FlagRecord) (bool, error) {
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// CountDistinctPendingReporters counts distinct reporters among records not
// yet swept into a statement. Callers must re-run this after every approval;
// the count is never cached.
func (s *Store) CountDistinctPendingReporters(ctx context.Context) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&FlagRecord{}).
		Where("included = ?", false).
		Distinct("reporter").
		Count(&count).Error
	return int(count), err
}

func (s *Store) CountPendingRecords(ctx context.Context) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&FlagRecord{}).
		Where("included = ?", false).
		Count(&count).Error
	return int(count), err
}

// SelectPendingBatch returns every pending record belonging to the first
// `limit` distinct reporters by earliest record creation. This is a distinct
// reporter limit, not a row limit: a reporter inside the window contributes
// all of their pending records.
func (s *Store) SelectPendingBatch(ctx context.Context, limit int) ([]FlagRecord, error) {
	var out []FlagRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reporters []string
		if err := tx.Model(&FlagRecord{}).
			Where("included = ?", false).
			Group("reporter").
			Order("MIN(created_at) ASC").
			Limit(limit).
			Pluck("reporter", &reporters).Error; err != nil {
			return err
		}
		if len(reporters) == 0 {
			return nil
		}
		return tx.
			Where("included = ? AND reporter IN ?", false, reporters).
			Order("created_at ASC").
			Find(&out).Error
	})
	return out, err
}

// MarkIncluded atomically flips included for every pending record whose
// reporter is in the given set, and returns the number of rows flipped.
// Records of reporters outside the set are untouched.
func (s *Store) MarkIncluded(ctx context.Context, reporters []string) (int64, error) {
	if len(reporters) == 0 {
		return 0, nil
	}
	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&FlagRecord{}).
			Where("reporter IN ? AND included = ?", reporters, false).
			Update("included", true)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}

// SumRemovedValueSince totals the removed value of all records (included or
// not) created after the given time. Summation happens client-side to keep
// decimal exactness across both sqlite and postgres.
func (s *Store) SumRemovedValueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var values []decimal.Decimal
	err := s.db.WithContext(ctx).Model(&FlagRecord{}).
		Where("created_at > ?", since).
		Pluck("removed_value", &values).Error
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum, nil
}
