package feedback

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rallycommand/rallycommand-backend/pkg/db"
	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
)

const (
	defaultFeedbackType = "bug"
	maxMessageLength    = 4000
)

var feedbackTypes = map[string]struct{}{
	"bug":     {},
	"feature": {},
	"general": {},
}

// CreateRequest is the public feedback form payload. Name and email are
// optional, the form works for anonymous visitors.
type CreateRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email" validate:"omitempty,email"`
	FeedbackType string `json:"feedback_type"`
	Message      string `json:"message" validate:"required"`
}

// FeedbackDTO is the transport shape of a stored feedback entry.
type FeedbackDTO struct {
	ID           uuid.UUID `json:"id"`
	FeedbackType string    `json:"feedback_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// Service stores feedback submissions.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*FeedbackDTO, error)
}

type service struct {
	db *db.Client
}

// NewService constructs a feedback service.
func NewService(client *db.Client) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{db: client}, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*FeedbackDTO, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}
	if len(message) > maxMessageLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("message cannot exceed %d characters", maxMessageLength))
	}

	feedbackType := strings.ToLower(strings.TrimSpace(req.FeedbackType))
	if feedbackType == "" {
		feedbackType = defaultFeedbackType
	}
	if _, ok := feedbackTypes[feedbackType]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown feedback_type")
	}

	entry := &models.Feedback{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		FeedbackType: feedbackType,
		Message:      message,
	}
	if err := s.db.DB().WithContext(ctx).Create(entry).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create feedback")
	}

	return &FeedbackDTO{
		ID:           entry.ID,
		FeedbackType: entry.FeedbackType,
		CreatedAt:    entry.CreatedAt,
	}, nil
}
