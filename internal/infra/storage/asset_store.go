package storage

import (
	"errors"
	"fmt"

	"stock_orders/internal/domain"

	"gorm.io/gorm"
)

// LockAsset takes the exclusive lock for (customerID, assetName) and reads
// the row. The lock stays held until the transaction ends. Returns
// domain.ErrAssetNotFound if the customer holds no such asset.
func (t *Tx) LockAsset(customerID uint, assetName string) (*domain.Asset, error) {
	if err := t.lockAsset(customerID, assetName); err != nil {
		return nil, err
	}

	var asset domain.Asset
	err := t.db.Where("customer_id = ? AND asset_name = ?", customerID, assetName).
		First(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: customer %d asset %s", domain.ErrAssetNotFound, customerID, assetName)
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// FindOrCreateAsset locks (customerID, assetName) and returns the existing
// row, or a fresh zero-balance row when the customer never held the asset.
// Used for the receiving leg of a BUY match.
func (t *Tx) FindOrCreateAsset(customerID uint, assetName string) (*domain.Asset, error) {
	if err := t.lockAsset(customerID, assetName); err != nil {
		return nil, err
	}

	var asset domain.Asset
	err := t.db.Where("customer_id = ? AND asset_name = ?", customerID, assetName).
		First(&asset).Error
	if err == nil {
		return &asset, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := domain.NewAsset(customerID, assetName)
	if err := t.db.Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}

// SaveAsset persists a mutated asset. Existing rows update through a
// version compare-and-swap: the unique (customer, asset) lock should make
// conflicts impossible, the version column catches it if something slips.
func (t *Tx) SaveAsset(asset *domain.Asset) error {
	if asset.ID == 0 {
		return t.db.Create(asset).Error
	}

	res := t.db.Model(&domain.Asset{}).
		Where("id = ? AND version = ?", asset.ID, asset.Version).
		Updates(map[string]any{
			"size":        asset.Size,
			"usable_size": asset.UsableSize,
			"version":     asset.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: asset %d", domain.ErrVersionConflict, asset.ID)
	}
	asset.Version++
	return nil
}

// GetAsset retrieves one asset row for a customer without locking.
func (s *Storage) GetAsset(customerID uint, assetName string) (*domain.Asset, error) {
	var asset domain.Asset
	err := s.db.Where("customer_id = ? AND asset_name = ?", customerID, assetName).
		First(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: customer %d asset %s", domain.ErrAssetNotFound, customerID, assetName)
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// ListAssets returns a customer's asset rows, optionally filtered by name.
func (s *Storage) ListAssets(customerID uint, assetName string) ([]domain.Asset, error) {
	q := s.db.Where("customer_id = ?", customerID)
	if assetName != "" {
		q = q.Where("asset_name = ?", assetName)
	}

	var assets []domain.Asset
	err := q.Order("asset_name").Find(&assets).Error
	return assets, err
}

// CreateAsset inserts a pre-seeded asset row outside any order flow.
func (s *Storage) CreateAsset(asset *domain.Asset) error {
	return s.db.Create(asset).Error
}
