package contacts

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"portfolio-backend/internal/notifications"
)

type memoryRepo struct {
	mu        sync.Mutex
	items     map[string]Contact
	createErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[string]Contact{}}
}

func (m *memoryRepo) Create(ctx context.Context, c Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.items[c.ID] = c
	return nil
}

func (m *memoryRepo) Update(ctx context.Context, id string, set bson.M) (Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return Contact{}, mongo.ErrNoDocuments
	}
	for k, v := range set {
		switch k {
		case "isRead":
			c.IsRead = v.(bool)
		case "status":
			c.Status = v.(string)
		case "readAt":
			t := v.(time.Time)
			c.ReadAt = &t
		case "repliedAt":
			t := v.(time.Time)
			c.RepliedAt = &t
		case "updatedAt":
			c.UpdatedAt = v.(time.Time)
		}
	}
	m.items[id] = c
	return c, nil
}

func (m *memoryRepo) filtered(filter ListFilter) []Contact {
	out := make([]Contact, 0)
	for _, c := range m.items {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memoryRepo) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.filtered(filter)
	if offset >= int64(len(all)) {
		return []Contact{}, nil
	}
	end := offset + limit
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[offset:end], nil
}

func (m *memoryRepo) Count(ctx context.Context, filter ListFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.filtered(filter))), nil
}

func (m *memoryRepo) Stats(ctx context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s Stats
	for _, c := range m.items {
		s.TotalContacts++
		switch c.Status {
		case StatusPending:
			s.PendingContacts++
		case StatusRead:
			s.ReadContacts++
		case StatusReplied:
			s.RepliedContacts++
		}
	}
	return s, nil
}

func (m *memoryRepo) only() Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.items {
		return c
	}
	return Contact{}
}

type fakeNotifier struct {
	mu        sync.Mutex
	sent      []notifications.ContactMessage
	sendErr   error
	verifyErr error
	apiKey    bool
	sender    bool
}

func (f *fakeNotifier) SendContactNotification(ctx context.Context, msg notifications.ContactMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sent = append(f.sent, msg)
	return "msg-1", nil
}

func (f *fakeNotifier) Verify(ctx context.Context) error { return f.verifyErr }
func (f *fakeNotifier) HasAPIKey() bool                  { return f.apiKey }
func (f *fakeNotifier) HasSender() bool                  { return f.sender }

var errSMTP = errors.New("smtp down")
