package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	dbtypes "github.com/rallycommand/rallycommand-backend/pkg/db/types"
	"github.com/rallycommand/rallycommand-backend/pkg/enums"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
)

const (
	maxPhotos     = 3
	maxVehicleIDs = 2
)

// Service defines the behavior needed by the inventory controller.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateItemRequest) (*ItemDTO, error)
	Get(ctx context.Context, userID, itemID uuid.UUID) (*ItemDTO, error)
	List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*ItemDTO, error)
	Update(ctx context.Context, userID, itemID uuid.UUID, req UpdateItemRequest) (*ItemDTO, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID) error
}

type repository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	FindByID(ctx context.Context, userID, itemID uuid.UUID) (*models.InventoryItem, error)
	List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, userID, itemID uuid.UUID) (int64, error)
}

type service struct {
	repo repository
}

// NewService constructs an inventory service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateItemRequest) (*ItemDTO, error) {
	item, err := buildItem(userID, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create item")
	}
	return FromModel(item), nil
}

func (s *service) Get(ctx context.Context, userID, itemID uuid.UUID) (*ItemDTO, error) {
	item, err := s.findOwned(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	return FromModel(item), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*ItemDTO, error) {
	if filter.Category != "" {
		if _, err := enums.ParseItemCategory(filter.Category); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category filter")
		}
	}
	items, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list items")
	}
	return FromModels(items), nil
}

func (s *service) Update(ctx context.Context, userID, itemID uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	current, err := s.findOwned(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	next, err := buildItem(userID, req)
	if err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt

	if err := s.repo.Update(ctx, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update item")
	}
	return FromModel(next), nil
}

func (s *service) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, userID, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return nil
}

func (s *service) findOwned(ctx context.Context, userID, itemID uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup item")
	}
	return item, nil
}

func buildItem(userID uuid.UUID, req CreateItemRequest) (*models.InventoryItem, error) {
	category, err := enums.ParseItemCategory(req.Category)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if req.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if req.MinStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_stock cannot be negative")
	}
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if len(req.Photos) > maxPhotos {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("at most %d photos allowed", maxPhotos))
	}
	if len(req.VehicleIDs) > maxVehicleIDs {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("at most %d linked vehicles allowed", maxVehicleIDs))
	}

	if req.Subcategory != nil {
		if _, err := enums.ParsePartSubcategory(*req.Subcategory); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid subcategory")
		}
		if category != enums.ItemCategoryParts {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "subcategory only applies to parts")
		}
	}
	if req.Condition != nil {
		if _, err := enums.ParsePartCondition(*req.Condition); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid condition")
		}
	}

	price := req.Price
	if price.IsZero() {
		price = decimal.Zero
	}

	return &models.InventoryItem{
		UserID:      userID,
		Name:        name,
		Category:    category,
		Subcategory: req.Subcategory,
		Condition:   req.Condition,
		Quantity:    req.Quantity,
		Location:    strings.TrimSpace(req.Location),
		PartNumber:  strings.TrimSpace(req.PartNumber),
		Supplier:    strings.TrimSpace(req.Supplier),
		SupplierURL: strings.TrimSpace(req.SupplierURL),
		Price:       price,
		MinStock:    req.MinStock,
		Notes:       req.Notes,
		Photos:      dbtypes.StringArray(req.Photos),
		VehicleIDs:  dbtypes.UUIDArray(req.VehicleIDs),
	}, nil
}
