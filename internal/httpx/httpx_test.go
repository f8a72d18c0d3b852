package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageDefaults(t *testing.T) {
	page, err := ParsePage(url.Values{}, 20, 100)
	require.NoError(t, err)
	assert.Equal(t, Page{Page: 1, Limit: 20}, page)
	assert.Equal(t, int64(0), page.Offset())
}

func TestParsePageValues(t *testing.T) {
	page, err := ParsePage(url.Values{"page": {"3"}, "limit": {"7"}}, 20, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(14), page.Offset())

	page, err = ParsePage(url.Values{"limit": {"500"}}, 20, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), page.Limit)
}

func TestParsePageInvalid(t *testing.T) {
	for _, v := range []url.Values{
		{"limit": {"0"}},
		{"limit": {"abc"}},
		{"page": {"-1"}},
		{"page": {"x"}},
		{"page": {"9223372036854775807"}},
	} {
		_, err := ParsePage(v, 20, 100)
		assert.Error(t, err, v.Encode())
	}
}

func TestParsePageLargeOffsetStaysPositive(t *testing.T) {
	page, err := ParsePage(url.Values{"page": {"1000000"}, "limit": {"100"}}, 20, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(99999900), page.Offset())
}

func TestTotalPages(t *testing.T) {
	p := Page{Page: 1, Limit: 20}
	assert.Equal(t, int64(0), p.TotalPages(0))
	assert.Equal(t, int64(1), p.TotalPages(1))
	assert.Equal(t, int64(1), p.TotalPages(20))
	assert.Equal(t, int64(2), p.TotalPages(21))
	assert.Equal(t, int64(5), p.TotalPages(100))
}

func TestParseLimit(t *testing.T) {
	limit, err := ParseLimit(url.Values{}, 6, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(6), limit)

	limit, err = ParseLimit(url.Values{"limit": {"80"}}, 6, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), limit)

	_, err = ParseLimit(url.Values{"limit": {"-2"}}, 6, 50)
	assert.Error(t, err)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	require.NoError(t, DecodeJSON(strings.NewReader(`{"name":"x"}`), &dst))
	assert.Equal(t, "x", dst.Name)

	assert.Error(t, DecodeJSON(strings.NewReader(`{"name":"x","other":1}`), &dst))
	assert.Error(t, DecodeJSON(strings.NewReader(`{"name":"x"}{"name":"y"}`), &dst))
}

func TestDecodeDocumentIgnoresUnknownFields(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	require.NoError(t, DecodeDocument(strings.NewReader(`{"_id":"abc","name":"x","views":3}`), &dst))
	assert.Equal(t, "x", dst.Name)

	assert.Error(t, DecodeDocument(strings.NewReader(`{"name":"x"}{"name":"y"}`), &dst))
	assert.Error(t, DecodeDocument(strings.NewReader(`[1]`), &dst))
}

func TestQueryBool(t *testing.T) {
	assert.True(t, QueryBool(url.Values{"featured": {"true"}}, "featured"))
	assert.False(t, QueryBool(url.Values{"featured": {"1"}}, "featured"))
	assert.False(t, QueryBool(url.Values{}, "featured"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:1234"
	assert.Equal(t, "192.168.1.1", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", ClientIP(req))
}

func TestPageEnvelope(t *testing.T) {
	env := PageEnvelope("projects", []string{"a", "b"}, 2, 21, Page{Page: 2, Limit: 10})
	assert.Equal(t, true, env["success"])
	assert.Equal(t, 2, env["count"])
	assert.Equal(t, int64(21), env["total"])
	assert.Equal(t, int64(3), env["totalPages"])
	assert.Equal(t, int64(2), env["currentPage"])
	assert.Equal(t, []string{"a", "b"}, env["projects"])
}
