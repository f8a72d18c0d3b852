package contacts

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"portfolio-backend/internal/httpx"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/transport"
	"portfolio-backend/internal/validation"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

type submitResponse struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	ContactID  string    `json:"contactId"`
	Timestamp  time.Time `json:"timestamp"`
	EmailSent  bool      `json:"emailSent"`
	EmailError *string   `json:"emailError"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req SubmitRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("contact submit: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "Invalid JSON", "request body must be a JSON object", nil)
		return
	}

	if req.Missing() {
		log.Warn("contact submit: missing fields")
		transport.WriteError(w, http.StatusBadRequest, "Missing required fields", "All fields are required", nil)
		return
	}

	req = req.Normalized()
	if err := h.val.Struct(req); err != nil {
		log.Warn("contact submit: validation error")
		transport.WriteError(w, http.StatusBadRequest, "Validation error", "One or more fields are invalid", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	meta := RequestMeta{IPAddress: httpx.ClientIP(r), UserAgent: r.UserAgent()}
	result, err := h.service.Submit(ctx, req, meta)
	if err != nil {
		log.Error("contact submit: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "Failed to submit contact form", err.Error(), nil)
		return
	}

	resp := submitResponse{
		Success:   true,
		Message:   "Thank you for your message! I will get back to you soon.",
		ContactID: result.Contact.ID,
		Timestamp: time.Now().UTC(),
		EmailSent: result.EmailSent,
	}
	if result.EmailErr != nil {
		msg := result.EmailErr.Error()
		resp.EmailError = &msg
		resp.Message = "Message received! I'll review it and get back to you soon."
		log.Warn("contact submit: notification failed", slog.String("contact_id", result.Contact.ID), slog.String("error", msg))
	}

	log.Info("contact submit: ok", slog.String("contact_id", result.Contact.ID), slog.Bool("email_sent", result.EmailSent))
	transport.WriteJSON(w, http.StatusCreated, resp)
}

func setOrNot(ok bool) string {
	if ok {
		return "Set"
	}
	return "Not set"
}

func (h *Handler) TestEmail(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	check := h.service.TestNotificationConfig(r.Context())
	message := "Email configuration is valid"
	if !check.Valid() {
		message = "Email configuration has issues"
		attrs := []any{}
		if check.Err != nil {
			attrs = append(attrs, slog.String("error", check.Err.Error()))
		}
		log.Warn("contact test email: invalid configuration", attrs...)
	} else {
		log.Info("contact test email: ok")
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":     check.Valid(),
		"message":     message,
		"senderEmail": setOrNot(check.SenderSet),
		"apiKey":      setOrNot(check.APIKeySet),
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	page, err := httpx.ParsePage(r.URL.Query(), 20, 100)
	if err != nil {
		log.Warn("contact list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "Invalid query", err.Error(), nil)
		return
	}

	filter := ListFilter{Status: strings.TrimSpace(r.URL.Query().Get("status"))}
	if filter.Status != "" && !ValidStatus(filter.Status) {
		log.Warn("contact list: invalid status", slog.String("status", filter.Status))
		transport.WriteError(w, http.StatusBadRequest, "Invalid query", "unknown status "+filter.Status, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		log.Error("contact list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "Failed to fetch contacts", err.Error(), nil)
		return
	}

	log.Info("contact list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, httpx.PageEnvelope("contacts", items, len(items), total, page))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		log.Error("contact stats: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "Failed to fetch contact stats", err.Error(), nil)
		return
	}

	log.Info("contact stats: ok")
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats":   stats,
	})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, "contact mark read", h.service.MarkRead)
}

func (h *Handler) MarkReplied(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, "contact mark replied", h.service.MarkReplied)
}

func (h *Handler) mark(w http.ResponseWriter, r *http.Request, op string, apply func(context.Context, string) (Contact, error)) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn(op + ": missing id")
		transport.WriteError(w, http.StatusBadRequest, "Missing id", "contact id is required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	contact, err := apply(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn(op+": not found", slog.String("contact_id", id))
			transport.WriteError(w, http.StatusNotFound, "Contact not found", "No contact with id "+id, nil)
			return
		}
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "Failed to update contact", err.Error(), nil)
		return
	}

	log.Info(op+": ok", slog.String("contact_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"contact": contact,
	})
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
