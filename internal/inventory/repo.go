package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
)

// Repository handles inventory item persistence scoped by owner.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an inventory repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new item.
func (r *Repository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindByID loads one item owned by the user.
func (r *Repository) FindByID(ctx context.Context, userID, itemID uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, itemID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns the user's items, newest first, narrowed by the filter.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]models.InventoryItem, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(part_number) LIKE ? OR LOWER(location) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.LowStock {
		query = query.Where("quantity <= min_stock")
	}

	var items []models.InventoryItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Update persists a full replacement of the item's mutable columns.
func (r *Repository) Update(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes the item when owned by the user. Returns the affected count.
func (r *Repository) Delete(ctx context.Context, userID, itemID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, itemID).
		Delete(&models.InventoryItem{})
	return res.RowsAffected, res.Error
}

// AdjustQuantity decrements the item's quantity if enough stock remains.
// Returns the affected count so callers can detect an overdraft race.
func (r *Repository) AdjustQuantity(ctx context.Context, userID, itemID uuid.UUID, delta int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("user_id = ? AND id = ? AND quantity + ? >= 0", userID, itemID, delta).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	return res.RowsAffected, res.Error
}

// SetQuantityIfExpected writes the counted quantity only while the recorded
// quantity still matches the snapshot. Zero affected rows means the item
// drifted or was deleted since the snapshot.
func (r *Repository) SetQuantityIfExpected(ctx context.Context, userID, itemID uuid.UUID, expected, actual int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("user_id = ? AND id = ? AND quantity = ?", userID, itemID, expected).
		UpdateColumn("quantity", actual)
	return res.RowsAffected, res.Error
}
