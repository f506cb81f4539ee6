package services

import (
	"errors"

	"blog-api/models"
	"blog-api/repositories"

	"gorm.io/gorm"
)

// UserService is the user directory: identity lookup, follow edges and the
// counts derived from them. Counts are computed from the edge tables on
// every read, never persisted.
type UserService interface {
	GetProfile(username string, viewerID uint) (*models.ProfileResponse, error)
	Follow(viewerID uint, username string) (*models.ProfileResponse, error)
	Unfollow(viewerID uint, username string) (*models.ProfileResponse, error)
}

type userService struct {
	userRepo    repositories.UserRepository
	articleRepo repositories.ArticleRepository
}

func NewUserService(userRepo repositories.UserRepository, articleRepo repositories.ArticleRepository) UserService {
	return &userService{
		userRepo:    userRepo,
		articleRepo: articleRepo,
	}
}

func (s *userService) GetProfile(username string, viewerID uint) (*models.ProfileResponse, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "User not found"}
		}
		return nil, err
	}
	return s.buildProfile(user, viewerID)
}

func (s *userService) Follow(viewerID uint, username string) (*models.ProfileResponse, error) {
	target, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "User not found"}
		}
		return nil, err
	}

	if target.ID == viewerID {
		return nil, models.ErrorConflict{Message: "You cannot follow yourself"}
	}

	following, err := s.userRepo.IsFollowing(viewerID, target.ID)
	if err != nil {
		return nil, err
	}
	if following {
		return nil, models.ErrorConflict{Message: "You are already following this user"}
	}

	if err := s.userRepo.AddFollow(viewerID, target.ID); err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrorConflict{Message: "You are already following this user"}
		}
		return nil, err
	}

	return s.buildProfile(target, viewerID)
}

func (s *userService) Unfollow(viewerID uint, username string) (*models.ProfileResponse, error) {
	target, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "User not found"}
		}
		return nil, err
	}

	affected, err := s.userRepo.RemoveFollow(viewerID, target.ID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, models.ErrorConflict{Message: "You are not following this user"}
	}

	return s.buildProfile(target, viewerID)
}

func (s *userService) buildProfile(user *models.User, viewerID uint) (*models.ProfileResponse, error) {
	followers, err := s.userRepo.CountFollowers(user.ID)
	if err != nil {
		return nil, err
	}

	following, err := s.userRepo.CountFollowing(user.ID)
	if err != nil {
		return nil, err
	}

	articles, err := s.articleRepo.CountByAuthor(user.ID)
	if err != nil {
		return nil, err
	}

	viewerFollows := false
	if viewerID != 0 && viewerID != user.ID {
		viewerFollows, err = s.userRepo.IsFollowing(viewerID, user.ID)
		if err != nil {
			return nil, err
		}
	}

	return &models.ProfileResponse{
		User:           *user,
		FollowersCount: followers,
		FollowingCount: following,
		ArticlesCount:  articles,
		Following:      viewerFollows,
	}, nil
}
