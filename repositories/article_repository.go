package repositories

import (
	"blog-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArticleRepository interface {
	Create(article *models.Article) error
	Save(article *models.Article) error
	ReplaceTags(article *models.Article, tags []models.Tag) error
	GetBySlug(slug string) (*models.Article, error)
	GetBySlugWithComments(slug string) (*models.Article, error)
	GetByTitle(title string) (*models.Article, error)
	GetByIDUnscoped(id uint) (*models.Article, error)
	GetList(params models.ArticleListParams) ([]models.Article, int64, error)
	GetByAuthorUsername(username string) ([]models.Article, error)
	GetFeed(authorIDs []uint, limit, offset int) ([]models.Article, int64, error)
	Delete(id uint) error
	AddFavorite(articleID, userID uint) error
	RemoveFavorite(articleID, userID uint) error
	CountFavorite(articleID, userID uint) (int64, error)
	CountFavorites(articleID uint) (int64, error)
	FavoriteCounts(articleIDs []uint) (map[uint]int64, error)
	FavoritedArticleIDs(userID uint, articleIDs []uint) ([]uint, error)
	CountByAuthor(authorID uint) (int64, error)
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(article *models.Article) error {
	return r.db.Create(article).Error
}

// Save persists scalar columns only; tag membership changes go through
// ReplaceTags so an update never implicitly resurrects or duplicates
// association rows.
func (r *articleRepository) Save(article *models.Article) error {
	return r.db.Omit(clause.Associations).Save(article).Error
}

func (r *articleRepository) ReplaceTags(article *models.Article, tags []models.Tag) error {
	return r.db.Model(article).Association("Tags").Replace(tags)
}

func (r *articleRepository) GetBySlug(slug string) (*models.Article, error) {
	var article models.Article
	err := r.db.Preload("Author").
		Preload("Tags").
		Where("articles.deleted_at IS NULL").
		Where("slug = ?", slug).
		First(&article).Error
	return &article, err
}

func (r *articleRepository) GetBySlugWithComments(slug string) (*models.Article, error) {
	var article models.Article
	err := r.db.Preload("Author").
		Preload("Tags").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Comments.Author").
		Where("articles.deleted_at IS NULL").
		Where("slug = ?", slug).
		First(&article).Error
	return &article, err
}

// GetByTitle only sees live rows, so a soft-deleted article frees its
// title for reuse.
func (r *articleRepository) GetByTitle(title string) (*models.Article, error) {
	var article models.Article
	err := r.db.Where("articles.deleted_at IS NULL").
		Where("title = ?", title).
		First(&article).Error
	return &article, err
}

// GetByIDUnscoped is the audit accessor: it sees soft-deleted rows too.
func (r *articleRepository) GetByIDUnscoped(id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.Unscoped().Preload("Author").First(&article, id).Error
	return &article, err
}

func (r *articleRepository) GetList(params models.ArticleListParams) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	query := r.db.Model(&models.Article{}).
		Preload("Author").
		Preload("Tags").
		Where("articles.deleted_at IS NULL")

	if params.Tag != "" {
		query = query.
			Joins("JOIN article_tags ON article_tags.article_id = articles.id").
			Joins("JOIN tags ON tags.id = article_tags.tag_id AND tags.name = ?", params.Tag)
	}

	if params.Author != "" {
		query = query.
			Joins("JOIN users ON users.id = articles.author_id AND users.username = ?", params.Author)
	}

	if params.Favorited != "" {
		query = query.
			Joins("JOIN article_favorites ON article_favorites.article_id = articles.id").
			Joins("JOIN users fav_users ON fav_users.id = article_favorites.user_id AND fav_users.username = ?", params.Favorited)
	}

	// Count before pagination so limit/offset never change the total.
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("articles.created_at DESC").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&articles).Error

	return articles, total, err
}

func (r *articleRepository) GetByAuthorUsername(username string) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.Preload("Author").
		Preload("Tags").
		Joins("JOIN users ON users.id = articles.author_id AND users.username = ?", username).
		Where("articles.deleted_at IS NULL").
		Order("articles.created_at DESC").
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) GetFeed(authorIDs []uint, limit, offset int) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	query := r.db.Model(&models.Article{}).
		Preload("Author").
		Preload("Tags").
		Where("articles.deleted_at IS NULL").
		Where("articles.author_id IN ?", authorIDs).
		Where("articles.status = ?", models.StatusPublished)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("articles.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&articles).Error

	return articles, total, err
}

func (r *articleRepository) Delete(id uint) error {
	return r.db.Delete(&models.Article{}, id).Error
}

func (r *articleRepository) AddFavorite(articleID, userID uint) error {
	return r.db.Create(&models.ArticleFavorite{ArticleID: articleID, UserID: userID}).Error
}

func (r *articleRepository) RemoveFavorite(articleID, userID uint) error {
	return r.db.Where("article_id = ? AND user_id = ?", articleID, userID).
		Delete(&models.ArticleFavorite{}).Error
}

func (r *articleRepository) CountFavorite(articleID, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ArticleFavorite{}).
		Where("article_id = ? AND user_id = ?", articleID, userID).
		Count(&count).Error
	return count, err
}

func (r *articleRepository) CountFavorites(articleID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ArticleFavorite{}).
		Where("article_id = ?", articleID).
		Count(&count).Error
	return count, err
}

func (r *articleRepository) FavoriteCounts(articleIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64)
	if len(articleIDs) == 0 {
		return counts, nil
	}

	var results []struct {
		ArticleID uint
		Count     int64
	}
	err := r.db.Model(&models.ArticleFavorite{}).
		Select("article_id, COUNT(*) as count").
		Where("article_id IN ?", articleIDs).
		Group("article_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	for _, result := range results {
		counts[result.ArticleID] = result.Count
	}
	return counts, nil
}

func (r *articleRepository) FavoritedArticleIDs(userID uint, articleIDs []uint) ([]uint, error) {
	if len(articleIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.Model(&models.ArticleFavorite{}).
		Where("user_id = ? AND article_id IN ?", userID, articleIDs).
		Pluck("article_id", &ids).Error
	return ids, err
}

func (r *articleRepository) CountByAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Article{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}
