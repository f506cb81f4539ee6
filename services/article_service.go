package services

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"blog-api/models"
	"blog-api/repositories"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type ArticleService interface {
	Create(authorID uint, req models.CreateArticleRequest) (*models.ArticleResponse, error)
	Update(slug string, requesterID uint, req models.UpdateArticleRequest) (*models.ArticleResponse, error)
	Remove(slug string, requesterID uint) error
	FindMany(params models.ArticleListParams, viewerID uint) (*models.ArticleListResponse, error)
	FindBySlug(slug string, viewerID uint) (*models.ArticleResponse, error)
	FindByAuthor(username string) ([]models.Article, error)
	GetFeed(viewerID uint, limit, offset int) (*models.FeedResponse, error)
	Favorite(slug string, userID uint) (*models.ArticleResponse, error)
	Unfavorite(slug string, userID uint) (*models.ArticleResponse, error)
	Approve(slug string) (*models.Article, error)
	Reject(slug string) (*models.Article, error)
}

type articleService struct {
	articleRepo repositories.ArticleRepository
	userRepo    repositories.UserRepository
	tagService  TagService
	notifier    NotificationSink
}

func NewArticleService(articleRepo repositories.ArticleRepository, userRepo repositories.UserRepository, tagService TagService, notifier NotificationSink) ArticleService {
	return &articleService{
		articleRepo: articleRepo,
		userRepo:    userRepo,
		tagService:  tagService,
		notifier:    notifier,
	}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slugify lowercases and trims the title and collapses every whitespace
// run to a single hyphen. No punctuation stripping, no suffixing: slug
// uniqueness follows from title uniqueness. Idempotent.
func Slugify(title string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(strings.ToLower(title)), "-")
}

const wordsPerMinute = 200

// EstimateReadingTime rounds up to the next whole minute, so any non-empty
// body reads as at least one minute.
func EstimateReadingTime(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

func (s *articleService) validateTitle(title string) error {
	_, err := s.articleRepo.GetByTitle(title)
	if err == nil {
		return models.ErrorConflict{Message: "Title already in use"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// resolveTags resolves every tag name through the registry concurrently.
// Names are independent, so order of resolution does not matter; the slice
// keeps the request order.
func (s *articleService) resolveTags(names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, len(names))
	var g errgroup.Group
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			tag, err := s.tagService.GetOrCreate(name)
			if err != nil {
				return err
			}
			tags[i] = *tag
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *articleService) Create(authorID uint, req models.CreateArticleRequest) (*models.ArticleResponse, error) {
	if err := s.validateTitle(req.Title); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "Author not found"}
		}
		return nil, err
	}

	tags, err := s.resolveTags(req.TagList)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}

	article := &models.Article{
		Slug:        Slugify(req.Title),
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		CoverImage:  req.CoverImage,
		ReadingTime: EstimateReadingTime(req.Body),
		Status:      status,
		AuthorID:    author.ID,
		Tags:        tags,
	}

	if err := s.articleRepo.Create(article); err != nil {
		return nil, err
	}

	return s.FindBySlug(article.Slug, authorID)
}

// patchChangesArticle reports whether the patch changes any field.
// Tag lists compare as order-insensitive name sets; everything else uses
// strict equality, deliberately including cover_image URLs.
func patchChangesArticle(req models.UpdateArticleRequest, article *models.Article) bool {
	if req.Title != nil && *req.Title != article.Title {
		return true
	}
	if req.Description != nil && *req.Description != article.Description {
		return true
	}
	if req.Body != nil && *req.Body != article.Body {
		return true
	}
	if req.CoverImage != nil {
		if article.CoverImage == nil || *article.CoverImage != *req.CoverImage {
			return true
		}
	}
	if req.Status != nil && *req.Status != article.Status {
		return true
	}
	if req.TagList != nil {
		current := make([]string, len(article.Tags))
		for i, tag := range article.Tags {
			current[i] = tag.Name
		}
		updated := append([]string(nil), *req.TagList...)
		sort.Strings(current)
		sort.Strings(updated)
		if len(current) != len(updated) {
			return true
		}
		for i := range current {
			if current[i] != updated[i] {
				return true
			}
		}
	}
	return false
}

func (s *articleService) Update(slug string, requesterID uint, req models.UpdateArticleRequest) (*models.ArticleResponse, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "Article not found"}
		}
		return nil, err
	}

	if article.AuthorID != requesterID {
		return nil, models.ErrorForbidden{Message: "You are not the author of this article"}
	}

	if !patchChangesArticle(req, article) {
		return nil, models.ErrorConflict{Message: "No changes detected"}
	}

	if req.Title != nil && *req.Title != article.Title {
		if err := s.validateTitle(*req.Title); err != nil {
			return nil, err
		}
		article.Title = *req.Title
		article.Slug = Slugify(*req.Title)
	}

	if req.Body != nil && *req.Body != article.Body {
		article.Body = *req.Body
		article.ReadingTime = EstimateReadingTime(*req.Body)
	}

	if req.Description != nil {
		article.Description = *req.Description
	}
	if req.CoverImage != nil {
		article.CoverImage = req.CoverImage
	}
	if req.Status != nil {
		article.Status = *req.Status
	}

	if err := s.articleRepo.Save(article); err != nil {
		return nil, err
	}

	if req.TagList != nil {
		tags, err := s.resolveTags(*req.TagList)
		if err != nil {
			return nil, err
		}
		if err := s.articleRepo.ReplaceTags(article, tags); err != nil {
			return nil, err
		}
	}

	return s.FindBySlug(article.Slug, requesterID)
}

func (s *articleService) Remove(slug string, requesterID uint) error {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrorNotFound{Message: "Article not found"}
		}
		return err
	}

	if article.AuthorID != requesterID {
		return models.ErrorForbidden{Message: "You are not the author of this article"}
	}

	return s.articleRepo.Delete(article.ID)
}

func (s *articleService) FindMany(params models.ArticleListParams, viewerID uint) (*models.ArticleListResponse, error) {
	articles, total, err := s.articleRepo.GetList(params)
	if err != nil {
		return nil, err
	}

	items, err := s.toResponses(articles, viewerID)
	if err != nil {
		return nil, err
	}

	return &models.ArticleListResponse{Items: items, ArticlesCount: total}, nil
}

func (s *articleService) FindBySlug(slug string, viewerID uint) (*models.ArticleResponse, error) {
	article, err := s.articleRepo.GetBySlugWithComments(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "Article not found"}
		}
		return nil, err
	}

	favoritesCount, err := s.articleRepo.CountFavorites(article.ID)
	if err != nil {
		return nil, err
	}

	favorited := false
	if viewerID != 0 {
		// 0-or-1 count of the viewer's own edge, converted to a boolean;
		// the raw count never reaches the response.
		count, err := s.articleRepo.CountFavorite(article.ID, viewerID)
		if err != nil {
			return nil, err
		}
		favorited = count > 0
	}

	return &models.ArticleResponse{
		Article:        *article,
		Favorited:      favorited,
		FavoritesCount: favoritesCount,
	}, nil
}

func (s *articleService) FindByAuthor(username string) ([]models.Article, error) {
	if _, err := s.userRepo.GetByUsername(username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "User not found"}
		}
		return nil, err
	}
	return s.articleRepo.GetByAuthorUsername(username)
}

func (s *articleService) GetFeed(viewerID uint, limit, offset int) (*models.FeedResponse, error) {
	following, err := s.userRepo.GetFollowing(viewerID)
	if err != nil {
		return nil, err
	}

	// Following nobody short-circuits without touching the article store.
	if len(following) == 0 {
		return &models.FeedResponse{Items: []models.Article{}, ArticlesCount: 0}, nil
	}

	authorIDs := make([]uint, len(following))
	for i, user := range following {
		authorIDs[i] = user.ID
	}

	articles, total, err := s.articleRepo.GetFeed(authorIDs, limit, offset)
	if err != nil {
		return nil, err
	}

	return &models.FeedResponse{Items: articles, ArticlesCount: total}, nil
}

func (s *articleService) Favorite(slug string, userID uint) (*models.ArticleResponse, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "Article not found"}
		}
		return nil, err
	}

	actor, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "User not found"}
		}
		return nil, err
	}

	count, err := s.articleRepo.CountFavorite(article.ID, userID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, models.ErrorConflict{Message: "You have already favorited this article"}
	}

	if err := s.articleRepo.AddFavorite(article.ID, userID); err != nil {
		// Two same-user favorites can race past the check above; the
		// constraint violation maps to the same conflict.
		if isUniqueViolation(err) {
			return nil, models.ErrorConflict{Message: "You have already favorited this article"}
		}
		return nil, err
	}

	if article.AuthorID != userID {
		s.notifier.NotifyFavorite(actor, article)
	}

	return s.FindBySlug(slug, userID)
}

func (s *articleService) Unfavorite(slug string, userID uint) (*models.ArticleResponse, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "Article not found"}
		}
		return nil, err
	}

	count, err := s.articleRepo.CountFavorite(article.ID, userID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, models.ErrorConflict{Message: "You have not favorited this article"}
	}

	if err := s.articleRepo.RemoveFavorite(article.ID, userID); err != nil {
		return nil, err
	}

	return s.FindBySlug(slug, userID)
}

func (s *articleService) Approve(slug string) (*models.Article, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "Article not found"}
		}
		return nil, err
	}

	if article.Status != models.StatusPending {
		return nil, models.ErrorInvalidState{Message: "Only pending articles can be approved"}
	}

	now := time.Now()
	article.Status = models.StatusPublished
	article.PublishedAt = &now

	if err := s.articleRepo.Save(article); err != nil {
		return nil, err
	}

	s.notifier.NotifyNewArticle(article)

	return article, nil
}

func (s *articleService) Reject(slug string) (*models.Article, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "Article not found"}
		}
		return nil, err
	}

	if article.Status != models.StatusPending {
		return nil, models.ErrorInvalidState{Message: "Only pending articles can be rejected"}
	}

	article.Status = models.StatusRejected

	if err := s.articleRepo.Save(article); err != nil {
		return nil, err
	}

	return article, nil
}

// toResponses attaches the viewer-relative favorited flag and the aggregate
// favorite counts to a page of raw rows. Kept separate from the query so the
// flag derivation stays storage-engine-agnostic.
func (s *articleService) toResponses(articles []models.Article, viewerID uint) ([]models.ArticleResponse, error) {
	ids := make([]uint, len(articles))
	for i, article := range articles {
		ids[i] = article.ID
	}

	counts, err := s.articleRepo.FavoriteCounts(ids)
	if err != nil {
		return nil, err
	}

	favorited := make(map[uint]bool)
	if viewerID != 0 {
		favoritedIDs, err := s.articleRepo.FavoritedArticleIDs(viewerID, ids)
		if err != nil {
			return nil, err
		}
		for _, id := range favoritedIDs {
			favorited[id] = true
		}
	}

	items := make([]models.ArticleResponse, len(articles))
	for i, article := range articles {
		items[i] = models.ArticleResponse{
			Article:        article,
			Favorited:      favorited[article.ID],
			FavoritesCount: counts[article.ID],
		}
	}
	return items, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
