package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atozofsigns/directory-api/internal/domain"
	"github.com/atozofsigns/directory-api/internal/handler"
)

// mockDirectory is a test double for handler.DirectoryServicer.
// Set only the method fields your test needs.
type mockDirectory struct {
	overview       func(ctx context.Context) (domain.DirectoryOverview, error)
	cityListing    func(ctx context.Context, slug string) (domain.CityListing, error)
	businessBySlug func(ctx context.Context, slug string) (domain.Business, error)
	sitemap        func(ctx context.Context) (domain.SitemapIndex, error)
}

func (m *mockDirectory) Overview(ctx context.Context) (domain.DirectoryOverview, error) {
	return m.overview(ctx)
}
func (m *mockDirectory) CityListing(ctx context.Context, slug string) (domain.CityListing, error) {
	return m.cityListing(ctx, slug)
}
func (m *mockDirectory) BusinessBySlug(ctx context.Context, slug string) (domain.Business, error) {
	return m.businessBySlug(ctx, slug)
}
func (m *mockDirectory) Sitemap(ctx context.Context) (domain.SitemapIndex, error) {
	return m.sitemap(ctx)
}

// compile-time check: mockDirectory must satisfy handler.DirectoryServicer.
var _ handler.DirectoryServicer = (*mockDirectory)(nil)

// newHTTPHandler wires a Server with the given mock into a router the same
// way main.go wires it in production.
func newHTTPHandler(svc handler.DirectoryServicer) http.Handler {
	srv := handler.NewServer(svc, "https://atozofsigns.co.uk", slog.New(slog.NewTextHandler(io.Discard, nil)))
	return srv.Routes()
}

// doGet issues the request against the handler and returns the recorder.
func doGet(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decodeJSON unmarshals the recorded body into v.
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, v), "body: %s", body)
}
