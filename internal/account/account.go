package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rallycommand/rallycommand-backend/internal/users"
	"github.com/rallycommand/rallycommand-backend/pkg/config"
	"github.com/rallycommand/rallycommand-backend/pkg/db"
	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
	"github.com/rallycommand/rallycommand-backend/pkg/security"
)

// UpdateProfileRequest changes name, email or password. The current password
// confirms the caller owns the account before anything is touched.
type UpdateProfileRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"omitempty,min=8"`
}

// DeleteRequest confirms an account deletion with the user's password.
type DeleteRequest struct {
	Password string `json:"password" validate:"required"`
}

// Service manages the account itself: profile, deletion and data portability.
type Service interface {
	Profile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*users.UserDTO, error)
	Delete(ctx context.Context, userID uuid.UUID, accessID string, req DeleteRequest) error
	Export(ctx context.Context, userID uuid.UUID) (*ExportPayload, error)
	Import(ctx context.Context, userID uuid.UUID, payload ExportPayload) (*ImportSummary, error)
}

type sessionRevoker interface {
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams carries the service's dependencies.
type ServiceParams struct {
	DB          *db.Client
	Sessions    sessionRevoker
	PasswordCfg config.PasswordConfig
}

type service struct {
	db          *db.Client
	sessions    sessionRevoker
	passwordCfg config.PasswordConfig
}

// NewService constructs an account service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session revoker is required")
	}
	return &service{
		db:          params.DB,
		sessions:    params.Sessions,
		passwordCfg: params.PasswordCfg,
	}, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return users.FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*users.UserDTO, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and email are required")
	}
	if req.NewPassword != "" && len(req.NewPassword) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "new password must be at least 8 characters")
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.confirmPassword(user, req.CurrentPassword); err != nil {
		return nil, err
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := users.NewRepository(tx)
		if err := repo.UpdateProfile(ctx, userID, name, email); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
		}
		if req.NewPassword != "" {
			hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
			}
			if err := repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Profile(ctx, userID)
}

// Delete removes the account and everything it owns, then revokes the
// session that asked for it.
func (s *service) Delete(ctx context.Context, userID uuid.UUID, accessID string, req DeleteRequest) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.confirmPassword(user, req.Password); err != nil {
		return err
	}

	ownedModels := []any{
		&models.UsageLog{},
		&models.StocktakeRecord{},
		&models.RepairLog{},
		&models.Setup{},
		&models.SetupGroup{},
		&models.InventoryItem{},
		&models.UserPreference{},
		&models.Vehicle{},
	}
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		for _, model := range ownedModels {
			if err := tx.WithContext(ctx).Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete account data")
			}
		}
		if err := users.NewRepository(tx).Delete(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if accessID != "" {
		if err := s.sessions.Revoke(ctx, accessID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
		}
	}
	return nil
}

func (s *service) findUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := users.NewRepository(s.db.DB()).FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
	}
	return user, nil
}

func (s *service) confirmPassword(user *models.User, password string) error {
	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "password confirmation failed")
	}
	return nil
}
