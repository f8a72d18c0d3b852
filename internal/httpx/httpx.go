package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

func DecodeJSON(body io.Reader, v interface{}) error {
	return decodeJSON(body, v, true)
}

// DecodeDocument accepts a resource as it was served, so read-only and
// derived fields such as _id or views are ignored instead of rejected.
func DecodeDocument(body io.Reader, v interface{}) error {
	return decodeJSON(body, v, false)
}

func decodeJSON(body io.Reader, v interface{}, strict bool) error {
	dec := json.NewDecoder(body)
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}

func ValidationDetails(errs validator.ValidationErrors) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	details := make(map[string]string, len(errs))
	for _, err := range errs {
		field := err.Namespace()
		// drop the top-level struct name: "ProjectInput.metrics.usersReached" -> "metrics.usersReached"
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		details[field] = err.Tag()
	}
	return details
}

type Page struct {
	Page  int64
	Limit int64
}

func (p Page) Offset() int64 {
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(total/limit).
func (p Page) TotalPages(total int64) int64 {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

func ParsePage(values url.Values, defaultLimit, maxLimit int64) (Page, error) {
	page := Page{Page: 1, Limit: defaultLimit}

	rawLimit := strings.TrimSpace(values.Get("limit"))
	if rawLimit != "" {
		parsed, err := strconv.ParseInt(rawLimit, 10, 64)
		if err != nil || parsed <= 0 {
			return Page{}, errors.New("invalid limit")
		}
		page.Limit = parsed
	}

	rawPage := strings.TrimSpace(values.Get("page"))
	if rawPage != "" {
		parsed, err := strconv.ParseInt(rawPage, 10, 64)
		if err != nil || parsed <= 0 {
			return Page{}, errors.New("invalid page")
		}
		page.Page = parsed
	}

	if page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	// the skip must stay representable
	if page.Page-1 > math.MaxInt64/page.Limit {
		return Page{}, errors.New("invalid page")
	}

	return page, nil
}

func ParseLimit(values url.Values, defaultLimit, maxLimit int64) (int64, error) {
	raw := strings.TrimSpace(values.Get("limit"))
	if raw == "" {
		return defaultLimit, nil
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		return 0, errors.New("invalid limit")
	}
	if parsed > maxLimit {
		parsed = maxLimit
	}
	return parsed, nil
}

// QueryBool reports whether the query parameter is literally "true".
func QueryBool(values url.Values, key string) bool {
	return strings.TrimSpace(values.Get(key)) == "true"
}

// ClientIP prefers the first X-Forwarded-For hop, then the connection address.
func ClientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		first, _, _ := strings.Cut(xf, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// PageEnvelope is the shared list response shape.
func PageEnvelope(resource string, items interface{}, count int, total int64, page Page) map[string]interface{} {
	return map[string]interface{}{
		"success":     true,
		"count":       count,
		"total":       total,
		"totalPages":  page.TotalPages(total),
		"currentPage": page.Page,
		resource:      items,
	}
}
