package feedback

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-api/internal/config"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Feedback{}))

	return NewService(db, &config.Config{}), db
}

func TestCreate(t *testing.T) {
	svc, db := newTestService(t)

	fb, err := svc.Create(&CreateRequest{
		Name:    "Jamie Doe",
		Email:   "jamie@example.com",
		Mobile:  "+15550100",
		Comment: "Great store, fast delivery.",
	})
	require.NoError(t, err)
	assert.NotZero(t, fb.ID)

	var stored Feedback
	require.NoError(t, db.First(&stored, fb.ID).Error)
	assert.Equal(t, "Jamie Doe", stored.Name)
	assert.Equal(t, "Great store, fast delivery.", stored.Comment)
}

func TestCreateStoresEverySubmission(t *testing.T) {
	svc, db := newTestService(t)

	// Duplicate submissions are kept; the form is write-only and never
	// deduplicated.
	for i := 0; i < 3; i++ {
		_, err := svc.Create(&CreateRequest{
			Name:    "Jamie Doe",
			Email:   "jamie@example.com",
			Mobile:  "+15550100",
			Comment: "Same comment",
		})
		require.NoError(t, err)
	}

	var count int64
	db.Model(&Feedback{}).Count(&count)
	assert.Equal(t, int64(3), count)
}
