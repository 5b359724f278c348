package service

import (
	"context"
	"errors"
	"testing"

	"stock_orders/internal/domain"
)

func TestDepositCreatesCashAsset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := &domain.Customer{Name: "fresh-" + t.Name()}
	if err := env.store.CreateCustomer(customer); err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}

	asset, err := env.assets.Deposit(ctx, customer.ID, dec("500"))
	if err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	if !asset.Size.Equal(dec("500")) || !asset.UsableSize.Equal(dec("500")) {
		t.Errorf("cash = %s/%s, want 500/500", asset.Size, asset.UsableSize)
	}

	// A second deposit accumulates on the same row.
	asset, err = env.assets.Deposit(ctx, customer.ID, dec("250"))
	if err != nil {
		t.Fatalf("second Deposit failed: %v", err)
	}
	if !asset.Size.Equal(dec("750")) {
		t.Errorf("cash size = %s, want 750", asset.Size)
	}
}

func TestDepositUnknownCustomer(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.assets.Deposit(context.Background(), 999, dec("1"))
	if !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("err = %v, want ErrCustomerNotFound", err)
	}
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedCustomer(t, "100")

	_, err := env.assets.Deposit(context.Background(), customer.ID, dec("0"))
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestWithdrawReducesCash(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedCustomer(t, "1000")

	asset, err := env.assets.Withdraw(context.Background(), customer.ID, dec("400"))
	if err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if !asset.Size.Equal(dec("600")) || !asset.UsableSize.Equal(dec("600")) {
		t.Errorf("cash = %s/%s, want 600/600", asset.Size, asset.UsableSize)
	}
}

func TestWithdrawCannotTouchReservedCash(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedCustomer(t, "1000")
	ctx := context.Background()

	// Reserve 900 via a pending BUY, leaving 100 usable.
	if _, err := env.orders.Create(ctx, buyRequest(customer.ID, "AAPL", "90", "10")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := env.assets.Withdraw(ctx, customer.ID, dec("200"))
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}

	size, usable := env.assetBalance(t, customer.ID, domain.CashSymbol)
	if !size.Equal(dec("1000")) || !usable.Equal(dec("100")) {
		t.Errorf("cash = %s/%s, want 1000/100", size, usable)
	}
}

func TestWithdrawWithoutCashAsset(t *testing.T) {
	env := newTestEnv(t)

	customer := &domain.Customer{Name: "empty-" + t.Name()}
	if err := env.store.CreateCustomer(customer); err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}

	_, err := env.assets.Withdraw(context.Background(), customer.ID, dec("1"))
	if !errors.Is(err, domain.ErrAssetNotFound) {
		t.Fatalf("err = %v, want ErrAssetNotFound", err)
	}
}

func TestListAssetsSortedByName(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedCustomer(t, "10000")
	env.seedAsset(t, customer.ID, "MSFT", "5")
	env.seedAsset(t, customer.ID, "AAPL", "10")

	assets, err := env.assets.List(context.Background(), customer.ID, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(assets) != 3 {
		t.Fatalf("len = %d, want 3", len(assets))
	}
	if assets[0].AssetName != "AAPL" || assets[1].AssetName != "MSFT" || assets[2].AssetName != domain.CashSymbol {
		t.Errorf("unexpected order: %s, %s, %s", assets[0].AssetName, assets[1].AssetName, assets[2].AssetName)
	}
}

func TestListAssetsUnknownCustomer(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.assets.List(context.Background(), 999, "")
	if !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("err = %v, want ErrCustomerNotFound", err)
	}
}
