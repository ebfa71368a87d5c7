// Package quota enforces the per-user AI-generation budget. The discipline
// is uniform across all call sites: Check before the costed work, Reserve
// only after it succeeds. There is no row locking, so two overlapping
// requests can both pass Check before either Reserve lands; the counter may
// overrun the limit under concurrency. Quota-store errors are never
// swallowed: billing correctness depends on the store being reachable.
package quota

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/models"
)

// ErrQuotaExceeded maps to the "payment required" response.
var ErrQuotaExceeded = errors.New("quota exceeded")

type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Check returns ErrQuotaExceeded when used+cost would pass the limit. It
// never mutates state.
func (l *Ledger) Check(ctx context.Context, userID uint64, cost int) error {
	var u models.User
	if err := l.db.WithContext(ctx).
		Select("quota_used", "quota_limit").
		First(&u, userID).Error; err != nil {
		return err
	}
	if u.QuotaUsed+cost > u.QuotaLimit {
		return ErrQuotaExceeded
	}
	return nil
}

// Reserve unconditionally adds cost to the user's usage. The increment is a
// single SQL expression, so concurrent reserves never undercount.
func (l *Ledger) Reserve(ctx context.Context, userID uint64, cost int) error {
	return l.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("quota_used", gorm.Expr("quota_used + ?", cost)).Error
}
