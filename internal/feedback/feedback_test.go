package feedback

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rallycommand/rallycommand-backend/pkg/db"
	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
)

const sqliteUUIDDefault = `(lower(hex(randomblob(4))) || '-' || lower(hex(randomblob(2))) || '-4' || substr(lower(hex(randomblob(2))),2) || '-a' || substr(lower(hex(randomblob(2))),2) || '-' || lower(hex(randomblob(6))))`

func setupFeedbackTestDB(t *testing.T) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:feedback_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS feedbacks (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUIDDefault + `,
  name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  feedback_type TEXT NOT NULL DEFAULT 'bug',
  message TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, conn.Exec(ddl).Error)
	return db.FromGorm(conn)
}

func TestCreateDefaultsType(t *testing.T) {
	client := setupFeedbackTestDB(t)
	svc, err := NewService(client)
	require.NoError(t, err)

	dto, err := svc.Create(context.Background(), CreateRequest{
		Message: "  summary export would be handy  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "bug", dto.FeedbackType)

	var stored models.Feedback
	require.NoError(t, client.DB().First(&stored, "id = ?", dto.ID).Error)
	assert.Equal(t, "summary export would be handy", stored.Message)
	assert.Empty(t, stored.Name)
}

func TestCreateAcceptsKnownTypes(t *testing.T) {
	client := setupFeedbackTestDB(t)
	svc, err := NewService(client)
	require.NoError(t, err)

	dto, err := svc.Create(context.Background(), CreateRequest{
		Name:         "Martta",
		Email:        "martta@example.com",
		FeedbackType: "Feature",
		Message:      "tyre wear tracking",
	})
	require.NoError(t, err)
	assert.Equal(t, "feature", dto.FeedbackType)
}

func TestCreateValidation(t *testing.T) {
	svc, err := NewService(setupFeedbackTestDB(t))
	require.NoError(t, err)

	cases := []struct {
		name string
		req  CreateRequest
	}{
		{"blank message", CreateRequest{Message: "   "}},
		{"oversized message", CreateRequest{Message: strings.Repeat("x", maxMessageLength+1)}},
		{"unknown type", CreateRequest{Message: "hi", FeedbackType: "rant"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}
