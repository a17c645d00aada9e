package services

import (
	"errors"
	"strings"

	"github.com/dlGuiri/Dental-Lens/models"
	"github.com/dlGuiri/Dental-Lens/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func CreateTask(db *gorm.DB, task *models.Task) error {
	task.Description = strings.TrimSpace(task.Description)
	if task.Description == "" || task.DateID == "" {
		return ErrEmptyContent
	}
	return db.Create(task).Error
}

func GetTasksByUserAndDate(db *gorm.DB, userID uuid.UUID, dateID string) ([]models.Task, error) {
	var tasks []models.Task
	err := db.Where("user_id = ? AND date_id = ?", userID, dateID).
		Order("created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

// GetTasksByUserAndMonth matches on the dateId month suffix only, so
// the result spans every year. The filter runs in Go to keep the query
// identical across database drivers. The year argument is accepted for
// API parity with the clients but does not narrow the match.
func GetTasksByUserAndMonth(db *gorm.DB, userID uuid.UUID, month, year int) ([]models.Task, error) {
	var tasks []models.Task
	if err := db.Where("user_id = ?", userID).Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	pattern := utils.MonthPattern(month)
	matched := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if pattern.MatchString(task.DateID) {
			matched = append(matched, task)
		}
	}
	return matched, nil
}

func UpdateTask(db *gorm.DB, taskID uuid.UUID, updates map[string]interface{}) (*models.Task, error) {
	var task models.Task
	if err := db.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := db.Model(&task).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func DeleteTask(db *gorm.DB, taskID uuid.UUID) error {
	result := db.Delete(&models.Task{}, "id = ?", taskID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func ToggleTaskComplete(db *gorm.DB, taskID uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := db.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	task.Completed = !task.Completed
	if err := db.Model(&task).Update("completed", task.Completed).Error; err != nil {
		return nil, err
	}
	return &task, nil
}
