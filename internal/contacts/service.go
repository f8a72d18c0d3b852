package contacts

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"portfolio-backend/internal/notifications"
)

var (
	ErrNotFound      = errors.New("contact not found")
	ErrMissingFields = errors.New("missing required fields")
)

const defaultNotifyTimeout = 10 * time.Second

type Notifier interface {
	SendContactNotification(ctx context.Context, msg notifications.ContactMessage) (string, error)
	Verify(ctx context.Context) error
	HasAPIKey() bool
	HasSender() bool
}

type Service struct {
	repo          Repository
	notifier      Notifier
	notifyTimeout time.Duration
	location      *time.Location
	now           func() time.Time
}

func NewService(repo Repository, notifier Notifier, notifyTimeout time.Duration, location *time.Location) *Service {
	if notifyTimeout <= 0 {
		notifyTimeout = defaultNotifyTimeout
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{
		repo:          repo,
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
		location:      location,
		now:           time.Now,
	}
}

// Submit stores the message and then tries to notify the site owner. The
// notification outcome is reported in the result and never fails the call.
func (s *Service) Submit(ctx context.Context, req SubmitRequest, meta RequestMeta) (SubmitResult, error) {
	if req.Missing() {
		return SubmitResult{}, ErrMissingFields
	}

	contact := NormalizeContact(req, meta, s.now().In(s.location))
	contact.ID = primitive.NewObjectID().Hex()
	if err := s.repo.Create(ctx, contact); err != nil {
		return SubmitResult{}, err
	}
	contact.fillDerived()

	result := SubmitResult{Contact: contact}
	if err := s.notify(ctx, contact); err != nil {
		result.EmailErr = err
	} else {
		result.EmailSent = true
	}
	return result, nil
}

func (s *Service) notify(ctx context.Context, c Contact) error {
	if s.notifier == nil {
		return notifications.ErrNotConfigured
	}

	// the caller's deadline covers persistence; the send gets its own budget
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	_, err := s.notifier.SendContactNotification(ctx, notifications.ContactMessage{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Subject:     c.Subject,
		Message:     c.Message,
		SubmittedAt: c.CreatedAt,
	})
	return err
}

func (s *Service) TestNotificationConfig(ctx context.Context) ConfigCheck {
	if s.notifier == nil {
		return ConfigCheck{Err: notifications.ErrNotConfigured}
	}
	check := ConfigCheck{
		APIKeySet: s.notifier.HasAPIKey(),
		SenderSet: s.notifier.HasSender(),
	}
	if !check.APIKeySet || !check.SenderSet {
		check.Err = notifications.ErrNotConfigured
		return check
	}

	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()
	check.Err = s.notifier.Verify(ctx)
	return check
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Contact, int64, error) {
	filter.Status = strings.TrimSpace(filter.Status)
	items, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i].fillDerived()
	}
	return items, total, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) MarkRead(ctx context.Context, id string) (Contact, error) {
	now := s.now().In(s.location)
	return s.update(ctx, id, bson.M{
		"isRead":    true,
		"status":    StatusRead,
		"readAt":    now,
		"updatedAt": now,
	})
}

func (s *Service) MarkReplied(ctx context.Context, id string) (Contact, error) {
	now := s.now().In(s.location)
	return s.update(ctx, id, bson.M{
		"status":    StatusReplied,
		"repliedAt": now,
		"updatedAt": now,
	})
}

func (s *Service) update(ctx context.Context, id string, set bson.M) (Contact, error) {
	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Contact{}, ErrNotFound
		}
		return Contact{}, err
	}
	updated.fillDerived()
	return updated, nil
}
