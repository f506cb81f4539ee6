package models

import (
	"time"

	"gorm.io/gorm"
)

type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPending   ArticleStatus = "pending"
	StatusPublished ArticleStatus = "published"
	StatusRejected  ArticleStatus = "rejected"
)

// Article rows are never hard-deleted; DeletedAt marks them invisible to
// normal reads. Slug and title are unique among live rows only, so the
// columns carry plain indexes and uniqueness is enforced in the service.
type Article struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	Slug        string         `json:"slug" gorm:"index;not null"`
	Title       string         `json:"title" gorm:"index;not null"`
	Description string         `json:"description"`
	Body        string         `json:"body" gorm:"type:text"`
	CoverImage  *string        `json:"cover_image"`
	ReadingTime int            `json:"reading_time" gorm:"default:0"`
	Status      ArticleStatus  `json:"status" gorm:"default:'draft'"`
	AuthorID    uint           `json:"author_id" gorm:"not null"`
	Author      User           `json:"author" gorm:"foreignKey:AuthorID"`
	Tags        []Tag          `json:"tag_list" gorm:"many2many:article_tags;"`
	FavoritedBy []User         `json:"-" gorm:"many2many:article_favorites;"`
	Comments    []Comment      `json:"comments,omitempty" gorm:"foreignKey:ArticleID"`
	PublishedAt *time.Time     `json:"published_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// ArticleFavorite is the join row behind Article.FavoritedBy. The composite
// primary key turns a racing duplicate favorite into a constraint violation
// instead of a silent upsert.
type ArticleFavorite struct {
	ArticleID uint      `json:"article_id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

func (ArticleFavorite) TableName() string {
	return "article_favorites"
}
