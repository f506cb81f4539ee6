package repositories

import (
	"blog-api/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetFollowing(userID uint) ([]models.User, error)
	GetFollowers(userID uint) ([]models.User, error)
	AddFollow(followerID, followingID uint) error
	RemoveFollow(followerID, followingID uint) (int64, error)
	IsFollowing(followerID, followingID uint) (bool, error)
	CountFollowers(userID uint) (int64, error)
	CountFollowing(userID uint) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	return &user, err
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *userRepository) GetFollowing(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Joins("JOIN user_follows ON user_follows.following_id = users.id").
		Where("user_follows.follower_id = ?", userID).
		Find(&users).Error
	return users, err
}

func (r *userRepository) GetFollowers(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Joins("JOIN user_follows ON user_follows.follower_id = users.id").
		Where("user_follows.following_id = ?", userID).
		Find(&users).Error
	return users, err
}

func (r *userRepository) AddFollow(followerID, followingID uint) error {
	return r.db.Create(&models.UserFollow{FollowerID: followerID, FollowingID: followingID}).Error
}

func (r *userRepository) RemoveFollow(followerID, followingID uint) (int64, error) {
	result := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.UserFollow{})
	return result.RowsAffected, result.Error
}

func (r *userRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserFollow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) CountFollowers(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserFollow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *userRepository) CountFollowing(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserFollow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, err
}
