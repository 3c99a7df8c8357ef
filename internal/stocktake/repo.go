package stocktake

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	"github.com/rallycommand/rallycommand-backend/pkg/enums"
)

// Repository handles stocktake record persistence scoped by owner.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a stocktake repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a finalized record.
func (r *Repository) Create(ctx context.Context, record *models.StocktakeRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByID loads one record owned by the user.
func (r *Repository) FindByID(ctx context.Context, userID, recordID uuid.UUID) (*models.StocktakeRecord, error) {
	var record models.StocktakeRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, recordID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns the user's records, newest first.
func (r *Repository) List(ctx context.Context, userID uuid.UUID) ([]models.StocktakeRecord, error) {
	var records []models.StocktakeRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// MarkApplied flips a saved record to applied. The status guard in the WHERE
// clause makes the transition fire at most once, even under a racing second
// apply.
func (r *Repository) MarkApplied(ctx context.Context, userID, recordID uuid.UUID, appliedAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.StocktakeRecord{}).
		Where("user_id = ? AND id = ? AND status = ?", userID, recordID, enums.StocktakeStatusSaved).
		Updates(map[string]any{
			"status":     enums.StocktakeStatusApplied,
			"applied_at": appliedAt,
		})
	return res.RowsAffected, res.Error
}

// Delete removes the record when owned by the user. Returns the affected
// count. Deleting never reverses an already-applied correction.
func (r *Repository) Delete(ctx context.Context, userID, recordID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, recordID).
		Delete(&models.StocktakeRecord{})
	return res.RowsAffected, res.Error
}
