package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skiva/tidvis/internal/domain"
)

const (
	testID1 = "1b4e28ba-2fa1-11d2-883f-0016d3cca427"
	testID2 = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	testID3 = "6ba7b811-9dad-11d1-80b4-00c04fd430c8"
)

func TestFetchProjectsPaginates(t *testing.T) {
	var pagesServed []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		page := r.URL.Query().Get("page")
		pagesServed = append(pagesServed, page)
		w.Header().Set("Content-Type", "application/json")
		switch page {
		case "1":
			fmt.Fprintf(w, `{"items":[{"id":%q,"clientId":%q,"name":"Alpha","startDate":"2024-01-01","plannedEndDate":"2024-02-01","managerId":%q}],"page":1,"pageSize":1,"totalCount":2,"totalPages":2,"hasPrevious":false,"hasNext":true}`,
				testID1, testID2, testID3)
		default:
			fmt.Fprintf(w, `{"items":[{"id":%q,"clientId":%q,"name":"Beta","startDate":"2024-03-01","plannedEndDate":"2024-04-01","managerId":%q}],"page":2,"pageSize":1,"totalCount":2,"totalPages":2,"hasPrevious":true,"hasNext":false}`,
				testID2, testID2, testID3)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	projects, err := c.FetchProjects(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects across pages, got %d", len(projects))
	}
	if len(pagesServed) != 2 {
		t.Fatalf("expected 2 page requests, got %v", pagesServed)
	}
	if projects[0].Name != "Alpha" || projects[1].Name != "Beta" {
		t.Fatalf("unexpected projects %q, %q", projects[0].Name, projects[1].Name)
	}
}

func TestFetchProjectsSkipsInvalidRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"items":[
			{"id":%q,"clientId":%q,"name":"Good","startDate":"2024-01-01","plannedEndDate":"2024-02-01","managerId":%q},
			{"id":"not-a-uuid","clientId":%q,"name":"BadID","startDate":"2024-01-01","plannedEndDate":"2024-02-01","managerId":%q},
			{"id":%q,"clientId":%q,"name":"BadDate","startDate":"01/02/2024","plannedEndDate":"2024-02-01","managerId":%q}
		],"page":1,"pageSize":100,"totalCount":3,"totalPages":1,"hasPrevious":false,"hasNext":false}`,
			testID1, testID2, testID3, testID2, testID3, testID2, testID2, testID3)
	}))
	defer srv.Close()

	projects, err := New(srv.URL).FetchProjects(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "Good" {
		t.Fatalf("expected only the valid record, got %+v", projects)
	}
}

func TestFetchProjectsNullName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"items":[{"id":%q,"clientId":%q,"name":null,"startDate":"2024-01-01","plannedEndDate":"2024-02-01","managerId":%q}],"hasNext":false}`,
			testID1, testID2, testID3)
	}))
	defer srv.Close()

	projects, err := New(srv.URL).FetchProjects(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if projects[0].Name != domain.UnnamedProject {
		t.Fatalf("expected the fallback name, got %q", projects[0].Name)
	}
}

func TestFetchProjectsTimestampDates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"items":[{"id":%q,"clientId":%q,"name":"TS","startDate":"2024-01-01T00:00:00Z","plannedEndDate":"2024-02-01T12:30:00Z","managerId":%q}],"hasNext":false}`,
			testID1, testID2, testID3)
	}))
	defer srv.Close()

	projects, err := New(srv.URL).FetchProjects(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected RFC 3339 dates accepted, got %d records", len(projects))
	}
	if projects[0].PlannedEndDate.Hour() != 0 {
		t.Fatalf("expected midnight normalization, got %v", projects[0].PlannedEndDate)
	}
}

func TestFetchClientsAndUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/clients":
			fmt.Fprintf(w, `{"items":[{"id":%q,"name":"Acme","address":"1 Way","projectsTotal":4,"projectsCompleted":2}],"hasNext":false}`, testID1)
		case "/users":
			fmt.Fprintf(w, `{"items":[{"id":%q,"name":null,"login":"root","role":1}],"hasNext":false}`, testID2)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	clients, err := c.FetchClients(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clients) != 1 || clients[0].ProjectsCompleted != 2 {
		t.Fatalf("unexpected clients %+v", clients)
	}

	users, err := c.FetchUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 1 || users[0].Role != domain.RoleAdmin {
		t.Fatalf("unexpected users %+v", users)
	}
	if users[0].Name != domain.UnnamedUser {
		t.Fatalf("expected the fallback name, got %q", users[0].Name)
	}
}

func TestAPIErrorCarriesProblemDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"type":"about:blank","title":"Server Error","status":500,"detail":"database offline"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).FetchProjects(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected an APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Title != "Server Error" {
		t.Fatalf("unexpected error contents: %+v", apiErr)
	}
	if apiErr.Detail != "database offline" {
		t.Fatalf("expected the problem detail, got %q", apiErr.Detail)
	}
}

func TestHealth(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"items":[],"hasNext":false}`)
	}))
	defer up.Close()
	if err := New(up.URL).Health(context.Background()); err != nil {
		t.Fatalf("expected a healthy upstream, got %v", err)
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()
	if err := New(down.URL).Health(context.Background()); err == nil {
		t.Fatalf("expected an error from an unavailable upstream")
	}
}

func TestNewNormalizesBaseURL(t *testing.T) {
	if got := New("http://example.test/api/").BaseURL(); got != "http://example.test/api" {
		t.Fatalf("expected the trailing slash trimmed, got %q", got)
	}
	if got := New("  ").BaseURL(); got != DefaultBaseURL {
		t.Fatalf("expected the default base URL, got %q", got)
	}
}
