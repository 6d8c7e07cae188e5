package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ozodbekAI/service/internal/repository"
	"github.com/ozodbekAI/service/internal/testutil"
	"gorm.io/gorm"
)

func TestInventoryReserveAndRelease(t *testing.T) {
	st := newServiceTest(t)
	ctx := context.Background()
	testutil.SeedProduct(t, st.db, "prod-1", "Steel Pipe", 10)

	if err := st.inventory.Reserve(ctx, "prod-1", 4); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if got := st.productQuantity(t, "prod-1"); got != 6 {
		t.Errorf("Expected quantity 6 after reserve, got %d", got)
	}

	if err := st.inventory.Release(ctx, "prod-1", 4); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if got := st.productQuantity(t, "prod-1"); got != 10 {
		t.Errorf("Expected quantity 10 after release, got %d", got)
	}
}

func TestInventoryReserveInsufficientStock(t *testing.T) {
	st := newServiceTest(t)
	ctx := context.Background()
	testutil.SeedProduct(t, st.db, "prod-1", "Steel Pipe", 3)

	err := st.inventory.Reserve(ctx, "prod-1", 5)
	if !errors.Is(err, repository.ErrInsufficientStock) {
		t.Fatalf("Expected ErrInsufficientStock, got %v", err)
	}
	if got := st.productQuantity(t, "prod-1"); got != 3 {
		t.Errorf("Failed reserve must not change stock, got %d", got)
	}
}

func TestInventoryReserveUnknownProduct(t *testing.T) {
	st := newServiceTest(t)

	err := st.inventory.Reserve(context.Background(), "missing", 1)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestInventoryReserveNeverOversells(t *testing.T) {
	st := newServiceTest(t)
	ctx := context.Background()
	testutil.SeedProduct(t, st.db, "prod-1", "Steel Pipe", 5)

	granted := 0
	for i := 0; i < 10; i++ {
		if err := st.inventory.Reserve(ctx, "prod-1", 1); err == nil {
			granted++
		} else if !errors.Is(err, repository.ErrInsufficientStock) {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	if granted != 5 {
		t.Errorf("Expected exactly 5 grants, got %d", granted)
	}
	if got := st.productQuantity(t, "prod-1"); got != 0 {
		t.Errorf("Expected quantity 0, got %d", got)
	}
}

func TestInventoryWithTxRollsBack(t *testing.T) {
	st := newServiceTest(t)
	ctx := context.Background()
	testutil.SeedProduct(t, st.db, "prod-1", "Steel Pipe", 10)

	abort := errors.New("abort")
	err := st.db.Transaction(func(tx *gorm.DB) error {
		if err := st.inventory.WithTx(tx).Reserve(ctx, "prod-1", 4); err != nil {
			return err
		}
		return abort
	})
	if !errors.Is(err, abort) {
		t.Fatalf("Expected transaction to abort, got %v", err)
	}
	if got := st.productQuantity(t, "prod-1"); got != 10 {
		t.Errorf("Rolled-back reserve must not change stock, got %d", got)
	}
}

func TestInventoryReserveRejectsNonPositiveQuantity(t *testing.T) {
	st := newServiceTest(t)
	testutil.SeedProduct(t, st.db, "prod-1", "Steel Pipe", 5)

	if err := st.inventory.Reserve(context.Background(), "prod-1", 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("Expected validation error, got %v", err)
	}
}
