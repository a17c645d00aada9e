package services

import (
	"fmt"
	"testing"

	"github.com/dlGuiri/Dental-Lens/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.Task{},
		&models.Appointment{},
		&models.ScanRecord{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()

	user := models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s-%s@example.com", name, uuid.New().String()[:8]),
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	require.NotEqual(t, uuid.Nil, user.ID, "BeforeCreate hook must assign the id")
	return &user
}
