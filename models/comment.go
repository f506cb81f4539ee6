package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxCommentDepth caps threading at reply-of-reply.
const MaxCommentDepth = 2

type Comment struct {
	ID         uint           `json:"id" gorm:"primarykey"`
	Body       string         `json:"body" gorm:"size:500;not null"`
	Depth      int            `json:"depth" gorm:"default:0"`
	ReplyCount int            `json:"reply_count" gorm:"default:0"`
	AuthorID   uint           `json:"author_id" gorm:"not null"`
	Author     User           `json:"author" gorm:"foreignKey:AuthorID"`
	ArticleID  uint           `json:"article_id" gorm:"not null"`
	ParentID   *uint          `json:"parent_id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}
