package quota

import (
	"context"
	"errors"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// one shared in-memory db per test, isolated by name
	db, err := gorm.Open(gormsqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, limit int) uint64 {
	t.Helper()
	u := &models.User{Email: "u@example.com", Username: "testuser123", PasswordHash: "x", QuotaLimit: limit}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u.ID
}

func TestCheckAndReserve_Accounting(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	uid := seedUser(t, db, 3)

	// three allowed operations fill the budget exactly
	for i := 0; i < 3; i++ {
		if err := ledger.Check(ctx, uid, 1); err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
		if err := ledger.Reserve(ctx, uid, 1); err != nil {
			t.Fatalf("reserve %d: %v", i, err)
		}
	}

	var u models.User
	if err := db.First(&u, uid).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if u.QuotaUsed != 3 {
		t.Fatalf("expected quota_used=3, got %d", u.QuotaUsed)
	}

	// the fourth is rejected without mutating anything
	if err := ledger.Check(ctx, uid, 1); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if err := db.First(&u, uid).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if u.QuotaUsed != 3 {
		t.Fatalf("check must not mutate usage, got %d", u.QuotaUsed)
	}
}

func TestCheck_CostLargerThanRemaining(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	uid := seedUser(t, db, 5)
	if err := ledger.Reserve(ctx, uid, 4); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	if err := ledger.Check(ctx, uid, 2); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded for cost 2, got %v", err)
	}
	if err := ledger.Check(ctx, uid, 1); err != nil {
		t.Fatalf("cost 1 should still fit: %v", err)
	}
}

func TestCheck_UnknownUserFailsHard(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger(db)

	// quota correctness depends on the store: no degrade, the error surfaces
	if err := ledger.Check(context.Background(), 9999, 1); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found, got %v", err)
	}
}

// Check-then-reserve is optimistic: two overlapping requests can both pass
// Check before either Reserve lands, overrunning the limit. This documents
// the race rather than fixing it.
func TestCheckThenReserve_AllowsConcurrentOverrun(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()

	uid := seedUser(t, db, 1)

	// both requests check before either reserves
	if err := ledger.Check(ctx, uid, 1); err != nil {
		t.Fatalf("first check: %v", err)
	}
	if err := ledger.Check(ctx, uid, 1); err != nil {
		t.Fatalf("second check: %v", err)
	}

	if err := ledger.Reserve(ctx, uid, 1); err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	if err := ledger.Reserve(ctx, uid, 1); err != nil {
		t.Fatalf("second reserve: %v", err)
	}

	var u models.User
	if err := db.First(&u, uid).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if u.QuotaUsed != 2 || u.QuotaUsed <= u.QuotaLimit {
		t.Fatalf("expected documented overrun past limit=%d, got used=%d", u.QuotaLimit, u.QuotaUsed)
	}
}
