package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erazemk/zaloga/internal/api"
	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/web"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database := db.NewSeededTestDB(t)

	webRouter, err := web.NewRouter(database, false)
	if err != nil {
		t.Fatalf("web.NewRouter: %v", err)
	}
	server := httptest.NewServer(newHandler(api.NewRouter(database, api.Options{}), webRouter))
	t.Cleanup(server.Close)
	return server
}

func TestCombinedRoutes(t *testing.T) {
	server := setupTestServer(t)

	// Do not follow redirects: unmatched paths must answer 404 directly.
	httpClient := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/static/app.js", http.StatusOK},
		{http.MethodGet, "/api/items", http.StatusOK},
		{http.MethodGet, "/api/categories", http.StatusOK},
		{http.MethodGet, "/api", http.StatusNotFound},
		{http.MethodPost, "/api", http.StatusNotFound},
		{http.MethodGet, "/api/", http.StatusNotFound},
		{http.MethodGet, "/api/nope", http.StatusNotFound},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, server.URL+tt.path, nil)
			if err != nil {
				t.Fatal(err)
			}
			resp, err := httpClient.Do(req)
			if err != nil {
				t.Fatalf("%s %s: %v", tt.method, tt.path, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			if resp.Header.Get(api.RequestIDHeader) == "" {
				t.Error("missing request id header")
			}
			if tt.status != http.StatusNotFound {
				return
			}

			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body["error"] != "Not found" {
				t.Errorf("unexpected error %q", body["error"])
			}
		})
	}
}
