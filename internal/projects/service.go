package projects

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
	ErrNotFound      = errors.New("project not found")
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidInput  = errors.New("invalid project input")
)

const (
	categoriesKey   = "projects:categories"
	technologiesKey = "projects:technologies"
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

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Project, int64, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Status = strings.TrimSpace(filter.Status)
	filter.Technology = strings.TrimSpace(filter.Technology)

	items, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return withDerived(items), total, nil
}

func (s *Service) Featured(ctx context.Context, limit int64) ([]Project, error) {
	items, err := s.repo.Featured(ctx, limit)
	if err != nil {
		return nil, err
	}
	return withDerived(items), nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return cache.Remember(ctx, s.cache, s.log, categoriesKey, s.cacheTTL, func(ctx context.Context) ([]string, error) {
		return s.repo.Distinct(ctx, "category")
	})
}

func (s *Service) Technologies(ctx context.Context) ([]string, error) {
	return cache.Remember(ctx, s.cache, s.log, technologiesKey, s.cacheTTL, func(ctx context.Context) ([]string, error) {
		return s.repo.Distinct(ctx, "technologies")
	})
}

// Get returns the project and counts the read as a view.
func (s *Service) Get(ctx context.Context, id string) (Project, error) {
	p, err := s.repo.Increment(ctx, strings.TrimSpace(id), "views")
	if err != nil {
		return Project{}, mapNotFound(err)
	}
	p.fillDerived()
	return p, nil
}

// Like adds one like; there is no per-caller deduplication.
func (s *Service) Like(ctx context.Context, id string) (Project, error) {
	p, err := s.repo.Increment(ctx, strings.TrimSpace(id), "likes")
	if err != nil {
		return Project{}, mapNotFound(err)
	}
	p.fillDerived()
	return p, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) Create(ctx context.Context, in Input) (Project, error) {
	if in.MissingRequired() {
		return Project{}, ErrMissingFields
	}

	p := Project{IsPublic: true}
	if err := in.ApplyTo(&p); err != nil {
		return Project{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	p = PrepareProject(p, s.now().In(s.location))
	p.ID = primitive.NewObjectID().Hex()

	if err := s.repo.Create(ctx, p); err != nil {
		return Project{}, err
	}
	s.invalidate(ctx)
	p.fillDerived()
	return p, nil
}

// Update merges in onto the stored project and re-applies the save-time rules.
func (s *Service) Update(ctx context.Context, id string, in Input) (Project, error) {
	current, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return Project{}, mapNotFound(err)
	}

	if err := in.ApplyTo(&current); err != nil {
		return Project{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if current.missingRequired() {
		return Project{}, ErrMissingFields
	}
	// a new description re-derives the short one unless one is supplied
	if in.Description != nil && in.ShortDescription == nil {
		current.ShortDescription = ""
	}
	current = PrepareProject(current, s.now().In(s.location))

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return Project{}, mapNotFound(err)
	}
	s.invalidate(ctx)
	updated.fillDerived()
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
	if err := s.cache.Delete(ctx, categoriesKey, technologiesKey); err != nil && s.log != nil {
		s.log.Warn("projects cache invalidate failed", slog.String("error", err.Error()))
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func withDerived(items []Project) []Project {
	for i := range items {
		items[i].fillDerived()
	}
	return items
}
