package services

import (
	"errors"

	"blog-api/models"
	"blog-api/repositories"

	"gorm.io/gorm"
)

type TagService interface {
	GetOrCreate(name string) (*models.Tag, error)
	GetTags() ([]models.Tag, error)
}

type tagService struct {
	tagRepo repositories.TagRepository
}

func NewTagService(tagRepo repositories.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

// GetOrCreate looks the name up case-sensitively and creates the tag on a
// miss. A concurrent duplicate create loses to the unique constraint and is
// surfaced as a retryable conflict.
func (s *tagService) GetOrCreate(name string) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByName(name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	newTag := &models.Tag{Name: name}
	if err := s.tagRepo.Create(newTag); err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrorConflict{Message: "Tag already exists"}
		}
		return nil, err
	}

	return newTag, nil
}

func (s *tagService) GetTags() ([]models.Tag, error) {
	return s.tagRepo.GetAll()
}
