package service

import (
	"stock_orders/internal/domain"
	"stock_orders/internal/infra/storage"
)

// actionHandler is the strategy for one (action, side) pair. A handler
// applies the ledger effects and the order state transition for its pair;
// the orchestration service persists the order afterwards, inside the same
// transaction.
type actionHandler interface {
	action() domain.OrderAction
	side() domain.OrderSide
	handle(tx *storage.Tx, order *domain.Order) error
}

// createBuyHandler reserves the cash needed to fund the purchase. The cash
// stays owned (total size untouched) but cannot fund another order.
type createBuyHandler struct{}

func (createBuyHandler) action() domain.OrderAction { return domain.ActionCreate }
func (createBuyHandler) side() domain.OrderSide     { return domain.SideBuy }

func (createBuyHandler) handle(tx *storage.Tx, order *domain.Order) error {
	cost, err := order.TotalCost()
	if err != nil {
		return err
	}

	tryAsset, err := tx.LockAsset(order.CustomerID, domain.CashSymbol)
	if err != nil {
		return err
	}
	if err := tryAsset.Reserve(cost); err != nil {
		return err
	}
	return tx.SaveAsset(tryAsset)
}

// createSellHandler reserves the shares being sold.
type createSellHandler struct{}

func (createSellHandler) action() domain.OrderAction { return domain.ActionCreate }
func (createSellHandler) side() domain.OrderSide     { return domain.SideSell }

func (createSellHandler) handle(tx *storage.Tx, order *domain.Order) error {
	asset, err := tx.LockAsset(order.CustomerID, order.AssetName)
	if err != nil {
		return err
	}
	if err := asset.Reserve(order.Size); err != nil {
		return err
	}
	return tx.SaveAsset(asset)
}

// cancelBuyHandler returns the reserved cash of a pending BUY.
type cancelBuyHandler struct{}

func (cancelBuyHandler) action() domain.OrderAction { return domain.ActionCancel }
func (cancelBuyHandler) side() domain.OrderSide     { return domain.SideBuy }

func (cancelBuyHandler) handle(tx *storage.Tx, order *domain.Order) error {
	if err := order.Cancel(); err != nil {
		return err
	}

	cost, err := order.TotalCost()
	if err != nil {
		return err
	}

	tryAsset, err := tx.LockAsset(order.CustomerID, domain.CashSymbol)
	if err != nil {
		return err
	}
	if err := tryAsset.Release(cost); err != nil {
		return err
	}
	return tx.SaveAsset(tryAsset)
}

// cancelSellHandler returns the reserved shares of a pending SELL.
type cancelSellHandler struct{}

func (cancelSellHandler) action() domain.OrderAction { return domain.ActionCancel }
func (cancelSellHandler) side() domain.OrderSide     { return domain.SideSell }

func (cancelSellHandler) handle(tx *storage.Tx, order *domain.Order) error {
	if err := order.Cancel(); err != nil {
		return err
	}

	asset, err := tx.LockAsset(order.CustomerID, order.AssetName)
	if err != nil {
		return err
	}
	if err := asset.Release(order.Size); err != nil {
		return err
	}
	return tx.SaveAsset(asset)
}

// matchBuyHandler settles a pending BUY: the reserved cash leaves the total
// balance and the purchased shares arrive, creating the asset row if the
// customer never held the symbol.
type matchBuyHandler struct{}

func (matchBuyHandler) action() domain.OrderAction { return domain.ActionMatch }
func (matchBuyHandler) side() domain.OrderSide     { return domain.SideBuy }

func (matchBuyHandler) handle(tx *storage.Tx, order *domain.Order) error {
	if err := order.Match(); err != nil {
		return err
	}

	cost, err := order.TotalCost()
	if err != nil {
		return err
	}

	// Cash leg first; every two-leg handler locks in this order.
	tryAsset, err := tx.LockAsset(order.CustomerID, domain.CashSymbol)
	if err != nil {
		return err
	}
	asset, err := tx.FindOrCreateAsset(order.CustomerID, order.AssetName)
	if err != nil {
		return err
	}

	if err := tryAsset.WithdrawFromTotal(cost); err != nil {
		return err
	}
	if err := asset.Credit(order.Size); err != nil {
		return err
	}

	if err := tx.SaveAsset(tryAsset); err != nil {
		return err
	}
	return tx.SaveAsset(asset)
}

// matchSellHandler settles a pending SELL: the reserved shares leave the
// total balance and the proceeds arrive on the cash asset.
type matchSellHandler struct{}

func (matchSellHandler) action() domain.OrderAction { return domain.ActionMatch }
func (matchSellHandler) side() domain.OrderSide     { return domain.SideSell }

func (matchSellHandler) handle(tx *storage.Tx, order *domain.Order) error {
	if err := order.Match(); err != nil {
		return err
	}

	proceeds, err := order.TotalCost()
	if err != nil {
		return err
	}

	tryAsset, err := tx.LockAsset(order.CustomerID, domain.CashSymbol)
	if err != nil {
		return err
	}
	asset, err := tx.LockAsset(order.CustomerID, order.AssetName)
	if err != nil {
		return err
	}

	if err := asset.WithdrawFromTotal(order.Size); err != nil {
		return err
	}
	if err := tryAsset.Credit(proceeds); err != nil {
		return err
	}

	if err := tx.SaveAsset(asset); err != nil {
		return err
	}
	return tx.SaveAsset(tryAsset)
}
