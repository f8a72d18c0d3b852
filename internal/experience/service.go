package experience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"portfolio-backend/internal/cache"
)

var (
	ErrNotFound      = errors.New("experience not found")
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidInput  = errors.New("invalid experience input")
)

const (
	technologiesKey = "experience:technologies"
	companiesKey    = "experience:companies"
)

type Service struct {
	repo     Repository
	cache    cache.Cache
	cacheTTL time.Duration
	location *time.Location
	log      *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, c cache.Cache, cacheTTL time.Duration, location *time.Location, log *slog.Logger) *Service {
	if c == nil {
		c = cache.NewNoop()
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{
		repo:     repo,
		cache:    c,
		cacheTTL: cacheTTL,
		location: location,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Experience, int64, error) {
	filter.Company = strings.TrimSpace(filter.Company)
	filter.Position = strings.TrimSpace(filter.Position)
	filter.Technology = strings.TrimSpace(filter.Technology)

	items, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return s.withDerived(items), total, nil
}

func (s *Service) Get(ctx context.Context, id string) (Experience, error) {
	e, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return Experience{}, mapNotFound(err)
	}
	e.fillDerived(s.now())
	return e, nil
}

func (s *Service) Companies(ctx context.Context) ([]Company, error) {
	return cache.Remember(ctx, s.cache, s.log, companiesKey, s.cacheTTL, s.repo.Companies)
}

func (s *Service) Technologies(ctx context.Context) ([]string, error) {
	return cache.Remember(ctx, s.cache, s.log, technologiesKey, s.cacheTTL, s.repo.Technologies)
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	return s.repo.Summary(ctx, s.now())
}

func (s *Service) Current(ctx context.Context) ([]Experience, error) {
	items, err := s.repo.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.withDerived(items), nil
}

func (s *Service) ByCompany(ctx context.Context, company string) ([]Experience, error) {
	items, err := s.repo.ByCompany(ctx, strings.TrimSpace(company))
	if err != nil {
		return nil, err
	}
	return s.withDerived(items), nil
}

func (s *Service) Create(ctx context.Context, in Input) (Experience, error) {
	if in.MissingRequired() {
		return Experience{}, ErrMissingFields
	}

	e := Experience{IsPublic: true}
	if err := in.ApplyTo(&e); err != nil {
		return Experience{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	now := s.now().In(s.location)
	e = PrepareExperience(e, now)
	e.ID = primitive.NewObjectID().Hex()

	if err := s.repo.Create(ctx, e); err != nil {
		return Experience{}, err
	}
	s.invalidate(ctx)
	e.fillDerived(now)
	return e, nil
}

// Update merges in onto the stored experience and re-applies the save-time rules.
func (s *Service) Update(ctx context.Context, id string, in Input) (Experience, error) {
	current, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return Experience{}, mapNotFound(err)
	}

	if err := in.ApplyTo(&current); err != nil {
		return Experience{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if current.missingRequired() {
		return Experience{}, ErrMissingFields
	}
	now := s.now().In(s.location)
	current = PrepareExperience(current, now)

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return Experience{}, mapNotFound(err)
	}
	s.invalidate(ctx)
	updated.fillDerived(now)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, technologiesKey, companiesKey); err != nil && s.log != nil {
		s.log.Warn("experience cache invalidate failed", slog.String("error", err.Error()))
	}
}

func (s *Service) withDerived(items []Experience) []Experience {
	now := s.now()
	for i := range items {
		items[i].fillDerived(now)
	}
	return items
}

func mapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
