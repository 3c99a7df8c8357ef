package account

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rallycommand/rallycommand-backend/internal/users"
	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
)

const exportVersion = 1

// ExportPayload is the full portable dump of one account. The same shape is
// accepted back by Import.
type ExportPayload struct {
	Version    int                      `json:"version"`
	ExportedAt time.Time                `json:"exported_at"`
	User       *users.UserDTO           `json:"user,omitempty"`
	Vehicles   []models.Vehicle         `json:"vehicles"`
	Inventory  []models.InventoryItem   `json:"inventory"`
	Setups     []models.Setup           `json:"setups"`
	Groups     []models.SetupGroup      `json:"setup_groups"`
	Repairs    []models.RepairLog       `json:"repairs"`
	UsageLogs  []models.UsageLog        `json:"usage_logs"`
	Stocktakes []models.StocktakeRecord `json:"stocktakes"`
}

// ImportSummary counts what an import created.
type ImportSummary struct {
	Vehicles   int `json:"vehicles"`
	Inventory  int `json:"inventory"`
	Setups     int `json:"setups"`
	Groups     int `json:"setup_groups"`
	Repairs    int `json:"repairs"`
	UsageLogs  int `json:"usage_logs"`
	Stocktakes int `json:"stocktakes"`
}

func (s *service) Export(ctx context.Context, userID uuid.UUID) (*ExportPayload, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	payload := &ExportPayload{
		Version:    exportVersion,
		ExportedAt: time.Now().UTC(),
		User:       users.FromModel(user),
		Vehicles:   []models.Vehicle{},
		Inventory:  []models.InventoryItem{},
		Setups:     []models.Setup{},
		Groups:     []models.SetupGroup{},
		Repairs:    []models.RepairLog{},
		UsageLogs:  []models.UsageLog{},
		Stocktakes: []models.StocktakeRecord{},
	}

	collections := []struct {
		name string
		dest any
	}{
		{"vehicles", &payload.Vehicles},
		{"inventory", &payload.Inventory},
		{"setups", &payload.Setups},
		{"setup groups", &payload.Groups},
		{"repairs", &payload.Repairs},
		{"usage logs", &payload.UsageLogs},
		{"stocktakes", &payload.Stocktakes},
	}
	for _, c := range collections {
		err := s.db.DB().WithContext(ctx).
			Where("user_id = ?", userID).
			Order("created_at ASC").
			Find(c.dest).Error
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "export "+c.name)
		}
	}
	return payload, nil
}

// Import restores a previously exported payload into the caller's account.
// Every row gets a fresh id, references between collections are remapped so
// an export can be imported next to existing data without collisions.
func (s *service) Import(ctx context.Context, userID uuid.UUID, payload ExportPayload) (*ImportSummary, error) {
	if payload.Version != exportVersion {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported export version")
	}

	summary := &ImportSummary{}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		vehicleIDs := make(map[uuid.UUID]uuid.UUID, len(payload.Vehicles))
		for _, vehicle := range payload.Vehicles {
			oldID := vehicle.ID
			vehicle.ID = uuid.New()
			vehicle.UserID = userID
			if err := tx.WithContext(ctx).Create(&vehicle).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "import vehicle")
			}
			vehicleIDs[oldID] = vehicle.ID
			summary.Vehicles++
		}

		itemIDs := make(map[uuid.UUID]uuid.UUID, len(payload.Inventory))
		for _, item := range payload.Inventory {
			oldID := item.ID
			item.ID = uuid.New()
			item.UserID = userID
			item.VehicleIDs = remapUUIDs(item.VehicleIDs, vehicleIDs)
			if err := tx.WithContext(ctx).Create(&item).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "import item")
			}
			itemIDs[oldID] = item.ID
			summary.Inventory++
		}

		groupIDs := make(map[uuid.UUID]uuid.UUID, len(payload.Groups))
		for _, group := range payload.Groups {
			oldID := group.ID
			group.ID = uuid.New()
			group.UserID = userID
			group.VehicleID = remapUUID(group.VehicleID, vehicleIDs)
			if err := tx.WithContext(ctx).Create(&group).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "import setup group")
			}
			groupIDs[oldID] = group.ID
			summary.Groups++
		}

		for _, setup := range payload.Setups {
			setup.ID = uuid.New()
			setup.UserID = userID
			setup.VehicleID = remapUUID(setup.VehicleID, vehicleIDs)
			if setup.GroupID != nil {
				if mapped, ok := groupIDs[*setup.GroupID]; ok {
					setup.GroupID = &mapped
				} else {
					setup.GroupID = nil
				}
			}
			if err := tx.WithContext(ctx).Create(&setup).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "import setup")
			}
			summary.Setups++
		}

		for _, repair := range payload.Repairs {
			repair.ID = uuid.New()
			repair.UserID = userID
			repair.VehicleID = remapUUID(repair.VehicleID, vehicleIDs)
			for i := range repair.PartsUsed {
				part := &repair.PartsUsed[i]
				if part.InventoryItemID == nil {
					continue
				}
				if mapped, ok := itemIDs[*part.InventoryItemID]; ok {
					part.InventoryItemID = &mapped
				} else {
					part.InventoryItemID = nil
				}
			}
			if err := tx.WithContext(ctx).Create(&repair).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "import repair")
			}
			summary.Repairs++
		}

		for _, log := range payload.UsageLogs {
			log.ID = uuid.New()
			log.UserID = userID
			log.ItemID = remapUUID(log.ItemID, itemIDs)
			if err := tx.WithContext(ctx).Create(&log).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "import usage log")
			}
			summary.UsageLogs++
		}

		for _, record := range payload.Stocktakes {
			record.ID = uuid.New()
			record.UserID = userID
			for i := range record.Lines {
				record.Lines[i].ItemID = remapUUID(record.Lines[i].ItemID, itemIDs)
			}
			if err := tx.WithContext(ctx).Create(&record).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "import stocktake")
			}
			summary.Stocktakes++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// remapUUID swaps an id for its imported replacement, keeping the original
// when the referenced row was not part of the payload.
func remapUUID(id uuid.UUID, mapping map[uuid.UUID]uuid.UUID) uuid.UUID {
	if mapped, ok := mapping[id]; ok {
		return mapped
	}
	return id
}

func remapUUIDs[S ~[]uuid.UUID](ids S, mapping map[uuid.UUID]uuid.UUID) S {
	out := make(S, 0, len(ids))
	for _, id := range ids {
		out = append(out, remapUUID(id, mapping))
	}
	return out
}
