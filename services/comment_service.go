package services

import (
	"errors"

	"blog-api/models"
	"blog-api/repositories"

	"gorm.io/gorm"
)

type CommentService interface {
	Create(slug string, authorID uint, req models.CreateCommentRequest) (*models.Comment, error)
	GetByArticle(slug string) ([]models.Comment, error)
	Delete(commentID, requesterID uint) error
}

type commentService struct {
	commentRepo repositories.CommentRepository
	articleRepo repositories.ArticleRepository
}

func NewCommentService(commentRepo repositories.CommentRepository, articleRepo repositories.ArticleRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		articleRepo: articleRepo,
	}
}

func (s *commentService) Create(slug string, authorID uint, req models.CreateCommentRequest) (*models.Comment, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "Article not found"}
		}
		return nil, err
	}

	depth := 0
	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(*req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.ErrorNotFound{Message: "Parent comment not found"}
			}
			return nil, err
		}
		if parent.ArticleID != article.ID {
			return nil, models.ErrorConflict{Message: "Parent comment belongs to another article"}
		}
		if parent.Depth >= models.MaxCommentDepth {
			return nil, models.ErrorConflict{Message: "Maximum thread depth reached"}
		}
		depth = parent.Depth + 1
	}

	comment := &models.Comment{
		Body:      req.Body,
		Depth:     depth,
		AuthorID:  authorID,
		ArticleID: article.ID,
		ParentID:  req.ParentID,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		if err := s.commentRepo.AdjustReplyCount(*req.ParentID, 1); err != nil {
			return nil, err
		}
	}

	return s.commentRepo.GetByID(comment.ID)
}

func (s *commentService) GetByArticle(slug string) ([]models.Comment, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "Article not found"}
		}
		return nil, err
	}
	return s.commentRepo.GetByArticleID(article.ID)
}

func (s *commentService) Delete(commentID, requesterID uint) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrorNotFound{Message: "Comment not found"}
		}
		return err
	}

	if comment.AuthorID != requesterID {
		return models.ErrorForbidden{Message: "You are not the author of this comment"}
	}

	if err := s.commentRepo.Delete(comment.ID); err != nil {
		return err
	}

	if comment.ParentID != nil {
		if err := s.commentRepo.AdjustReplyCount(*comment.ParentID, -1); err != nil {
			return err
		}
	}

	return nil
}
