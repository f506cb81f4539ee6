package models

import "time"

type NotificationType string

const (
	NotificationFavorite   NotificationType = "favorite"
	NotificationNewArticle NotificationType = "new_article"
)

type Notification struct {
	ID          uint             `json:"id" gorm:"primarykey"`
	RecipientID uint             `json:"recipient_id" gorm:"index;not null"`
	ActorID     uint             `json:"actor_id"`
	Actor       User             `json:"actor" gorm:"foreignKey:ActorID"`
	ArticleID   uint             `json:"article_id"`
	Type        NotificationType `json:"type" gorm:"not null"`
	Read        bool             `json:"read" gorm:"default:false"`
	CreatedAt   time.Time        `json:"created_at"`
}
