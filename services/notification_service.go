package services

import (
	"sync"

	"blog-api/models"
	"blog-api/repositories"

	"github.com/rs/zerolog"
)

// NotificationSink receives social events fire-and-forget. Implementations
// must never fail the mutation that triggered the event.
type NotificationSink interface {
	NotifyFavorite(actor *models.User, article *models.Article)
	NotifyNewArticle(article *models.Article)
}

type NotificationService interface {
	NotificationSink
	GetForUser(userID uint) ([]models.Notification, error)
	MarkRead(id, userID uint) error
	Close()
}

type notificationEvent struct {
	kind      models.NotificationType
	actorID   uint
	articleID uint
	// recipient for favorite events, fan-out source for new-article events
	authorID uint
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	events           chan notificationEvent
	wg               sync.WaitGroup
	log              zerolog.Logger
}

const notificationBuffer = 256

// NewNotificationService starts the consumer goroutine. Delivery failures
// are logged and dropped; senders are never blocked or failed.
func NewNotificationService(notificationRepo repositories.NotificationRepository, userRepo repositories.UserRepository, log zerolog.Logger) NotificationService {
	s := &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		events:           make(chan notificationEvent, notificationBuffer),
		log:              log,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for event := range s.events {
			s.handle(event)
		}
	}()

	return s
}

func (s *notificationService) NotifyFavorite(actor *models.User, article *models.Article) {
	s.send(notificationEvent{
		kind:      models.NotificationFavorite,
		actorID:   actor.ID,
		articleID: article.ID,
		authorID:  article.AuthorID,
	})
}

func (s *notificationService) NotifyNewArticle(article *models.Article) {
	s.send(notificationEvent{
		kind:      models.NotificationNewArticle,
		actorID:   article.AuthorID,
		articleID: article.ID,
		authorID:  article.AuthorID,
	})
}

func (s *notificationService) send(event notificationEvent) {
	select {
	case s.events <- event:
	default:
		s.log.Warn().
			Str("type", string(event.kind)).
			Uint("article_id", event.articleID).
			Msg("notification buffer full, dropping event")
	}
}

func (s *notificationService) handle(event notificationEvent) {
	switch event.kind {
	case models.NotificationFavorite:
		err := s.notificationRepo.Create(&models.Notification{
			RecipientID: event.authorID,
			ActorID:     event.actorID,
			ArticleID:   event.articleID,
			Type:        models.NotificationFavorite,
		})
		if err != nil {
			s.log.Error().Err(err).
				Uint("article_id", event.articleID).
				Msg("failed to store favorite notification")
		}

	case models.NotificationNewArticle:
		followers, err := s.userRepo.GetFollowers(event.authorID)
		if err != nil {
			s.log.Error().Err(err).
				Uint("author_id", event.authorID).
				Msg("failed to resolve followers for article notification")
			return
		}

		notifications := make([]models.Notification, 0, len(followers))
		for _, follower := range followers {
			notifications = append(notifications, models.Notification{
				RecipientID: follower.ID,
				ActorID:     event.actorID,
				ArticleID:   event.articleID,
				Type:        models.NotificationNewArticle,
			})
		}

		if err := s.notificationRepo.CreateBatch(notifications); err != nil {
			s.log.Error().Err(err).
				Uint("article_id", event.articleID).
				Msg("failed to store article notifications")
		}
	}
}

func (s *notificationService) GetForUser(userID uint) ([]models.Notification, error) {
	return s.notificationRepo.GetByRecipient(userID)
}

func (s *notificationService) MarkRead(id, userID uint) error {
	affected, err := s.notificationRepo.MarkRead(id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrorNotFound{Message: "Notification not found"}
	}
	return nil
}

// Close drains in-flight events and stops the consumer.
func (s *notificationService) Close() {
	close(s.events)
	s.wg.Wait()
}
