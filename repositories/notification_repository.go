package repositories

import (
	"blog-api/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(notification *models.Notification) error
	CreateBatch(notifications []models.Notification) error
	GetByRecipient(userID uint) ([]models.Notification, error)
	MarkRead(id, recipientID uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *notificationRepository) CreateBatch(notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.Create(&notifications).Error
}

func (r *notificationRepository) GetByRecipient(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Preload("Actor").
		Where("recipient_id = ?", userID).
		Order("created_at desc").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) MarkRead(id, recipientID uint) (int64, error) {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("read", true)
	return result.RowsAffected, result.Error
}
