package projects

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
		log.Warn("projects list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "Invalid query", err.Error(), nil)
		return
	}

	filter := ListFilter{
		Category:   strings.TrimSpace(q.Get("category")),
		Status:     strings.TrimSpace(q.Get("status")),
		Technology: strings.TrimSpace(q.Get("technology")),
		Featured:   httpx.QueryBool(q, "featured"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		log.Error("projects list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "Failed to fetch projects", err.Error(), nil)
		return
	}

	log.Info("projects list: ok", slog.Int("count", len(items)), slog.Int64("total", total))
	transport.WriteJSON(w, http.StatusOK, httpx.PageEnvelope("projects", items, len(items), total, page))
}

func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	limit, err := httpx.ParseLimit(r.URL.Query(), 6, 50)
	if err != nil {
		log.Warn("projects featured: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "Invalid query", err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.Featured(ctx, limit)
	if err != nil {
		log.Error("projects featured: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "Failed to fetch featured projects", err.Error(), nil)
		return
	}

	log.Info("projects featured: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"count":    len(items),
		"projects": items,
	})
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	h.distinct(w, r, "categories", h.service.Categories)
}

func (h *Handler) Technologies(w http.ResponseWriter, r *http.Request) {
	h.distinct(w, r, "technologies", h.service.Technologies)
}

func (h *Handler) distinct(w http.ResponseWriter, r *http.Request, name string, load func(context.Context) ([]string, error)) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	values, err := load(ctx)
	if err != nil {
		log.Error("projects "+name+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "Failed to fetch "+name, err.Error(), nil)
		return
	}

	log.Info("projects "+name+": ok", slog.Int("count", len(values)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		name:      values,
	})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		log.Error("projects stats: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "Failed to fetch project statistics", err.Error(), nil)
		return
	}

	log.Info("projects stats: ok")
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats":   stats,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	project, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("projects get: not found", slog.String("project_id", id))
			transport.WriteError(w, http.StatusNotFound, "Project not found", "Project with ID "+id+" does not exist", nil)
			return
		}
		log.Error("projects get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "Failed to fetch project", err.Error(), nil)
		return
	}

	log.Info("projects get: ok", slog.String("project_id", id), slog.Int64("views", project.Views))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"project": project,
	})
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	project, err := h.service.Like(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("projects like: not found", slog.String("project_id", id))
			transport.WriteError(w, http.StatusNotFound, "Project not found", "Project does not exist", nil)
			return
		}
		log.Error("projects like: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "Failed to like project", err.Error(), nil)
		return
	}

	log.Info("projects like: ok", slog.String("project_id", id), slog.Int64("likes", project.Likes))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Project liked successfully",
		"likes":   project.Likes,
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
		transport.WriteError(w, http.StatusBadRequest, "Missing required fields", "Title, description, and image are required", nil)
	case errors.Is(err, ErrInvalidInput):
		log.Warn(op+": invalid input", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "Validation error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		log.Warn(op + ": not found")
		transport.WriteError(w, http.StatusNotFound, "Project not found", "Project does not exist", nil)
	default:
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, title, err.Error(), nil)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	in, ok := h.decodeInput(w, r, log, "projects create")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	project, err := h.service.Create(ctx, in)
	if err != nil {
		h.writeServiceError(w, log, "projects create", "Failed to create project", err)
		return
	}

	log.Info("projects create: ok", slog.String("project_id", project.ID))
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Project created successfully",
		"project": project,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	in, ok := h.decodeInput(w, r, log, "projects update")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	project, err := h.service.Update(ctx, id, in)
	if err != nil {
		h.writeServiceError(w, log, "projects update", "Failed to update project", err)
		return
	}

	log.Info("projects update: ok", slog.String("project_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Project updated successfully",
		"project": project,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		h.writeServiceError(w, log, "projects delete", "Failed to delete project", err)
		return
	}

	log.Info("projects delete: ok", slog.String("project_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Project deleted successfully",
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
