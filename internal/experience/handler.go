package experience

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	q := r.URL.Query()
	page, err := httpx.ParsePage(q, 20, 100)
	if err != nil {
		log.Warn("experience list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "Invalid query", err.Error(), nil)
		return
	}

	filter := ListFilter{
		Company:    strings.TrimSpace(q.Get("company")),
		Position:   strings.TrimSpace(q.Get("position")),
		Technology: strings.TrimSpace(q.Get("technology")),
		Current:    httpx.QueryBool(q, "current"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		log.Error("experience list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "Failed to fetch experiences", err.Error(), nil)
		return
	}

	log.Info("experience list: ok", slog.Int("count", len(items)), slog.Int64("total", total))
	transport.WriteJSON(w, http.StatusOK, httpx.PageEnvelope("experiences", items, len(items), total, page))
}

func (h *Handler) Companies(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	companies, err := h.service.Companies(ctx)
	if err != nil {
		log.Error("experience companies: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "Failed to fetch companies", err.Error(), nil)
		return
	}

	log.Info("experience companies: ok", slog.Int("count", len(companies)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"companies": companies,
	})
}

func (h *Handler) Technologies(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	technologies, err := h.service.Technologies(ctx)
	if err != nil {
		log.Error("experience technologies: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "Failed to fetch technologies", err.Error(), nil)
		return
	}

	log.Info("experience technologies: ok", slog.Int("count", len(technologies)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"technologies": technologies,
	})
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.service.Summary(ctx)
	if err != nil {
		log.Error("experience summary: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "Failed to fetch experience summary", err.Error(), nil)
		return
	}

	log.Info("experience summary: ok", slog.Int64("total", summary.TotalExperiences))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"summary": summary,
	})
}

func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.Current(ctx)
	if err != nil {
		log.Error("experience current: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "Failed to fetch current positions", err.Error(), nil)
		return
	}

	log.Info("experience current: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"count":       len(items),
		"experiences": items,
	})
}

func (h *Handler) ByCompany(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	company := strings.TrimSpace(chi.URLParam(r, "company"))
	if company == "" {
		transport.WriteError(w, http.StatusBadRequest, "Invalid company", "Company is required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.ByCompany(ctx, company)
	if err != nil {
		log.Error("experience by company: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "Failed to fetch experiences", err.Error(), nil)
		return
	}

	log.Info("experience by company: ok", slog.String("company", company), slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"company":     company,
		"count":       len(items),
		"experiences": items,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	exp, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("experience get: not found", slog.String("experience_id", id))
			transport.WriteError(w, http.StatusNotFound, "Experience not found", "Experience with ID "+id+" does not exist", nil)
			return
		}
		log.Error("experience get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "Failed to fetch experience", err.Error(), nil)
		return
	}

	log.Info("experience get: ok", slog.String("experience_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"experience": exp,
	})
}

func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string) (Input, bool) {
	var in Input
	if err := httpx.DecodeDocument(r.Body, &in); err != nil {
		log.Warn(op+": invalid json", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "Invalid JSON", err.Error(), nil)
		return Input{}, false
	}
	if err := h.val.Struct(in); err != nil {
		log.Warn(op + ": validation error")
		transport.WriteError(w, http.StatusBadRequest, "Validation error", "One or more fields are invalid", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return Input{}, false
	}
	return in, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, log *slog.Logger, op, title string, err error) {
	switch {
	case errors.Is(err, ErrMissingFields):
		log.Warn(op + ": missing fields")
		transport.WriteError(w, http.StatusBadRequest, "Missing required fields", "Company, position, and start date are required", nil)
	case errors.Is(err, ErrInvalidInput):
		log.Warn(op+": invalid input", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "Validation error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		log.Warn(op + ": not found")
		transport.WriteError(w, http.StatusNotFound, "Experience not found", "Experience does not exist", nil)
	default:
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, title, err.Error(), nil)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	in, ok := h.decodeInput(w, r, log, "experience create")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	exp, err := h.service.Create(ctx, in)
	if err != nil {
		h.writeServiceError(w, log, "experience create", "Failed to create experience", err)
		return
	}

	log.Info("experience create: ok", slog.String("experience_id", exp.ID))
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"message":    "Experience created successfully",
		"experience": exp,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	in, ok := h.decodeInput(w, r, log, "experience update")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	exp, err := h.service.Update(ctx, id, in)
	if err != nil {
		h.writeServiceError(w, log, "experience update", "Failed to update experience", err)
		return
	}

	log.Info("experience update: ok", slog.String("experience_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "Experience updated successfully",
		"experience": exp,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		h.writeServiceError(w, log, "experience delete", "Failed to delete experience", err)
		return
	}

	log.Info("experience delete: ok", slog.String("experience_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Experience deleted successfully",
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
