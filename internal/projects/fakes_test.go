package projects

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

type memoryRepo struct {
	mu            sync.Mutex
	items         map[string]Project
	distinctCalls int
}

func newMemoryRepo(seed ...Project) *memoryRepo {
	m := &memoryRepo{items: map[string]Project{}}
	for _, p := range seed {
		m.items[p.ID] = p
	}
	return m
}

func (m *memoryRepo) Create(ctx context.Context, p Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[p.ID] = p
	return nil
}

func (m *memoryRepo) Get(ctx context.Context, id string) (Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return Project{}, mongo.ErrNoDocuments
	}
	return p, nil
}

func (m *memoryRepo) Update(ctx context.Context, p Project) (Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.items[p.ID]
	if !ok {
		return Project{}, mongo.ErrNoDocuments
	}
	p.Views, p.Likes, p.CreatedAt = stored.Views, stored.Likes, stored.CreatedAt
	p.Duration, p.StatusColor = nil, ""
	m.items[p.ID] = p
	return p, nil
}

func (m *memoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func matches(p Project, f ListFilter) bool {
	if !p.IsPublic {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Featured && !p.IsFeatured {
		return false
	}
	if f.Technology != "" {
		found := false
		for _, t := range p.Technologies {
			if strings.Contains(strings.ToLower(t), strings.ToLower(f.Technology)) {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *memoryRepo) filtered(f ListFilter) []Project {
	out := make([]Project, 0)
	for _, p := range m.items {
		if matches(p, f) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *memoryRepo) List(ctx context.Context, f ListFilter, limit, offset int64) ([]Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.filtered(f)
	if offset >= int64(len(all)) {
		return []Project{}, nil
	}
	end := offset + limit
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[offset:end], nil
}

func (m *memoryRepo) Count(ctx context.Context, f ListFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.filtered(f))), nil
}

func (m *memoryRepo) Featured(ctx context.Context, limit int64) ([]Project, error) {
	return m.List(ctx, ListFilter{Featured: true}, limit, 0)
}

func (m *memoryRepo) Distinct(ctx context.Context, field string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.distinctCalls++
	seen := map[string]bool{}
	for _, p := range m.items {
		if !p.IsPublic {
			continue
		}
		switch field {
		case "category":
			seen[p.Category] = true
		case "technologies":
			for _, t := range p.Technologies {
				seen[t] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func (m *memoryRepo) Increment(ctx context.Context, id, field string) (Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return Project{}, mongo.ErrNoDocuments
	}
	switch field {
	case "views":
		p.Views++
	case "likes":
		p.Likes++
	}
	m.items[id] = p
	return p, nil
}

func (m *memoryRepo) Stats(ctx context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s Stats
	for _, p := range m.items {
		s.TotalProjects++
		switch p.Status {
		case StatusCompleted:
			s.CompletedProjects++
		case StatusInProgress:
			s.InProgressProjects++
		}
		if p.IsFeatured {
			s.FeaturedProjects++
		}
		s.TotalViews += p.Views
		s.TotalLikes += p.Likes
	}
	return s, nil
}
