package contacts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/logging"
	"portfolio-backend/internal/validation"
)

func newTestRouter(repo *memoryRepo, notifier Notifier) http.Handler {
	h := NewHandler(NewService(repo, notifier, time.Second, time.UTC), validation.New(), logging.Discard())
	r := chi.NewRouter()
	r.Post("/contact", h.Submit)
	r.Get("/contact/test-email", h.TestEmail)
	r.Get("/contact/messages", h.List)
	r.Get("/contact/stats", h.Stats)
	r.Patch("/contact/{id}/read", h.MarkRead)
	r.Patch("/contact/{id}/replied", h.MarkReplied)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func TestSubmitEndToEnd(t *testing.T) {
	repo := newMemoryRepo()
	h := newTestRouter(repo, &fakeNotifier{apiKey: true, sender: true})

	rec, out := do(t, h, http.MethodPost, "/contact",
		`{"firstName":"A","lastName":"B","email":"a@b.com","subject":"S","message":"M"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, true, out["emailSent"])
	assert.Nil(t, out["emailError"])
	assert.NotEmpty(t, out["timestamp"])

	id, _ := out["contactId"].(string)
	require.NotEmpty(t, id)
	stored := repo.items[id]
	assert.Equal(t, StatusPending, stored.Status)
	assert.Equal(t, "a@b.com", stored.Email)
}

func TestSubmitLowercasesEmail(t *testing.T) {
	repo := newMemoryRepo()
	h := newTestRouter(repo, &fakeNotifier{apiKey: true, sender: true})

	rec, _ := do(t, h, http.MethodPost, "/contact",
		`{"firstName":"A","lastName":"B","email":"Someone@Example.ORG","subject":"S","message":"M"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "someone@example.org", repo.only().Email)
}

func TestSubmitReportsNotificationFailure(t *testing.T) {
	repo := newMemoryRepo()
	h := newTestRouter(repo, &fakeNotifier{sendErr: errSMTP})

	rec, out := do(t, h, http.MethodPost, "/contact",
		`{"firstName":"A","lastName":"B","email":"a@b.com","subject":"S","message":"M"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, false, out["emailSent"])
	assert.Equal(t, "smtp down", out["emailError"])
	assert.Len(t, repo.items, 1)
}

func TestSubmitMissingField(t *testing.T) {
	bodies := []string{
		`{"lastName":"B","email":"a@b.com","subject":"S","message":"M"}`,
		`{"firstName":"A","email":"a@b.com","subject":"S","message":"M"}`,
		`{"firstName":"A","lastName":"B","subject":"S","message":"M"}`,
		`{"firstName":"A","lastName":"B","email":"a@b.com","message":"M"}`,
		`{"firstName":"A","lastName":"B","email":"a@b.com","subject":"S"}`,
	}
	for _, body := range bodies {
		repo := newMemoryRepo()
		h := newTestRouter(repo, &fakeNotifier{})

		rec, out := do(t, h, http.MethodPost, "/contact", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Missing required fields", out["error"])
		assert.Equal(t, "All fields are required", out["message"])
		assert.Empty(t, repo.items)
	}
}

func TestSubmitInvalidEmailAndLength(t *testing.T) {
	repo := newMemoryRepo()
	h := newTestRouter(repo, &fakeNotifier{})

	rec, out := do(t, h, http.MethodPost, "/contact",
		`{"firstName":"A","lastName":"B","email":"not-an-email","subject":"S","message":"M"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	details, _ := out["details"].(map[string]interface{})
	assert.Equal(t, "contact_email", details["email"])

	long := strings.Repeat("x", 101)
	rec, out = do(t, h, http.MethodPost, "/contact",
		`{"firstName":"A","lastName":"B","email":"a@b.com","subject":"`+long+`","message":"M"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	details, _ = out["details"].(map[string]interface{})
	assert.Equal(t, "max", details["subject"])
	assert.Empty(t, repo.items)
}

func TestSubmitPersistenceError(t *testing.T) {
	repo := newMemoryRepo()
	repo.createErr = errSMTP
	h := newTestRouter(repo, &fakeNotifier{})

	rec, out := do(t, h, http.MethodPost, "/contact",
		`{"firstName":"A","lastName":"B","email":"a@b.com","subject":"S","message":"M"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to submit contact form", out["error"])
	assert.Equal(t, "smtp down", out["message"])
}

func TestTestEmailEndpoint(t *testing.T) {
	h := newTestRouter(newMemoryRepo(), &fakeNotifier{sender: true})
	rec, out := do(t, h, http.MethodGet, "/contact/test-email", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Not set", out["apiKey"])
	assert.Equal(t, "Set", out["senderEmail"])

	h = newTestRouter(newMemoryRepo(), &fakeNotifier{apiKey: true, sender: true})
	_, out = do(t, h, http.MethodGet, "/contact/test-email", "")
	assert.Equal(t, true, out["success"])
}

func TestAdminContactRoutes(t *testing.T) {
	repo := newMemoryRepo()
	h := newTestRouter(repo, &fakeNotifier{})

	for i := 0; i < 3; i++ {
		rec, _ := do(t, h, http.MethodPost, "/contact",
			`{"firstName":"A","lastName":"B","email":"a@b.com","subject":"S","message":"M"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	id := repo.only().ID

	rec, out := do(t, h, http.MethodPatch, "/contact/"+id+"/read", "")
	require.Equal(t, http.StatusOK, rec.Code)
	contact := out["contact"].(map[string]interface{})
	assert.Equal(t, StatusRead, contact["status"])
	assert.Equal(t, true, contact["isRead"])
	assert.Equal(t, "A B", contact["fullName"])

	rec, _ = do(t, h, http.MethodPatch, "/contact/nope/replied", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, out = do(t, h, http.MethodGet, "/contact/messages?status=pending&limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), out["count"])
	assert.Equal(t, float64(2), out["total"])
	assert.Equal(t, float64(2), out["totalPages"])

	rec, _ = do(t, h, http.MethodGet, "/contact/messages?status=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, out = do(t, h, http.MethodGet, "/contact/stats", "")
	stats := out["stats"].(map[string]interface{})
	assert.Equal(t, float64(3), stats["totalContacts"])
	assert.Equal(t, float64(1), stats["readContacts"])
}
