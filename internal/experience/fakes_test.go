package experience

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

type memoryRepo struct {
	mu    sync.Mutex
	items map[string]Experience
}

func newMemoryRepo(seed ...Experience) *memoryRepo {
	m := &memoryRepo{items: map[string]Experience{}}
	for _, e := range seed {
		m.items[e.ID] = e
	}
	return m
}

func (m *memoryRepo) Create(ctx context.Context, e Experience) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[e.ID] = e
	return nil
}

func (m *memoryRepo) Get(ctx context.Context, id string) (Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok {
		return Experience{}, mongo.ErrNoDocuments
	}
	return e, nil
}

func (m *memoryRepo) Update(ctx context.Context, e Experience) (Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.items[e.ID]
	if !ok {
		return Experience{}, mongo.ErrNoDocuments
	}
	e.CreatedAt = stored.CreatedAt
	e.FormattedDuration, e.DurationMonths, e.DurationYears, e.TotalImpact = "", nil, nil, 0
	m.items[e.ID] = e
	return e, nil
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

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func matches(e Experience, f ListFilter) bool {
	if !e.IsPublic {
		return false
	}
	if f.Company != "" && !containsFold(e.Company, f.Company) {
		return false
	}
	if f.Position != "" && !containsFold(e.Position, f.Position) {
		return false
	}
	if f.Current && !e.Duration.IsCurrent {
		return false
	}
	if f.Technology != "" {
		found := false
		for _, t := range e.Technologies {
			if containsFold(t, f.Technology) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *memoryRepo) filtered(f ListFilter) []Experience {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Experience, 0)
	for _, e := range m.items {
		if matches(e, f) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Duration.StartDate.After(out[j].Duration.StartDate)
	})
	return out
}

func (m *memoryRepo) List(ctx context.Context, f ListFilter, limit, offset int64) ([]Experience, error) {
	all := m.filtered(f)
	if offset >= int64(len(all)) {
		return []Experience{}, nil
	}
	end := offset + limit
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[offset:end], nil
}

func (m *memoryRepo) Count(ctx context.Context, f ListFilter) (int64, error) {
	return int64(len(m.filtered(f))), nil
}

func (m *memoryRepo) Current(ctx context.Context) ([]Experience, error) {
	return m.filtered(ListFilter{Current: true}), nil
}

func (m *memoryRepo) ByCompany(ctx context.Context, company string) ([]Experience, error) {
	out := m.filtered(ListFilter{Company: company})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Duration.StartDate.After(out[j].Duration.StartDate)
	})
	return out, nil
}

func (m *memoryRepo) Companies(ctx context.Context) ([]Company, error) {
	byName := map[string]*Company{}
	for _, e := range m.filtered(ListFilter{}) {
		c, ok := byName[e.Company]
		if !ok {
			c = &Company{Company: e.Company}
			byName[e.Company] = c
		}
		c.TotalExperiences++
		seen := false
		for _, p := range c.Positions {
			seen = seen || p == e.Position
		}
		if !seen {
			c.Positions = append(c.Positions, e.Position)
		}
	}
	out := make([]Company, 0, len(byName))
	for _, c := range byName {
		sort.Strings(c.Positions)
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Company < out[j].Company })
	return out, nil
}

func (m *memoryRepo) Technologies(ctx context.Context) ([]string, error) {
	set := map[string]bool{}
	for _, e := range m.filtered(ListFilter{}) {
		for _, t := range e.Technologies {
			set[t] = true
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

func (m *memoryRepo) Summary(ctx context.Context, now time.Time) (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s Summary
	techs, skills := map[string]bool{}, map[string]bool{}
	for _, e := range m.items {
		s.TotalExperiences++
		if e.Duration.IsCurrent {
			s.CurrentPositions++
		}
		for _, t := range e.Technologies {
			techs[t] = true
		}
		for _, k := range e.Skills {
			skills[k] = true
		}
	}
	s.TotalTechnologies = int64(len(techs))
	s.TotalSkills = int64(len(skills))
	return s, nil
}
