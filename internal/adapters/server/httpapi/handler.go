// Package httpapi serves the read-only portfolio mirror in the upstream API's dialect.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/skiva/tidvis/internal/adapters/server/common"
	"github.com/skiva/tidvis/internal/domain"
)

// defaultPageSize matches the page size the upstream portfolio API hands out.
const defaultPageSize = 100

// maxPageSize caps client-requested page sizes.
const maxPageSize = 500

// Handler serves the versioned list endpoints mounted under `/api/v1`.
type Handler struct {
	source common.PortfolioSource
}

// NewHandler constructs one HTTP mirror adapter over a portfolio source.
func NewHandler(source common.PortfolioSource) *Handler {
	return &Handler{source: source}
}

// ServeHTTP routes one versioned API request to the matching handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := normalizePath(r.URL.Path)
	switch path {
	case "projects", "clients", "users":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleList(w, r, path)
	default:
		writeProblem(w, common.NewProblem(http.StatusNotFound, "Not Found", "endpoint not found"))
	}
}

// handleList serves one paginated record list in the upstream envelope shape.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request, kind string) {
	if h.source == nil {
		writeProblem(w, common.NewProblem(http.StatusServiceUnavailable, "Service Unavailable", "portfolio source is not configured"))
		return
	}
	page, pageSize, err := parsePagination(r)
	if err != nil {
		writeProblem(w, common.NewProblem(http.StatusBadRequest, "Bad Request", err.Error()))
		return
	}

	snap, err := h.source.Portfolio(r.Context())
	if err != nil {
		writeProblem(w, problemFrom(err))
		return
	}

	switch kind {
	case "projects":
		writeJSON(w, http.StatusOK, common.Paginate(projectRecords(snap.Projects), page, pageSize))
	case "clients":
		writeJSON(w, http.StatusOK, common.Paginate(clientRecords(snap.Clients), page, pageSize))
	case "users":
		writeJSON(w, http.StatusOK, common.Paginate(userRecords(snap.Users), page, pageSize))
	}
}

// parsePagination extracts 1-based page and bounded pageSize query values.
func parsePagination(r *http.Request) (page, pageSize int, err error) {
	page = 1
	pageSize = defaultPageSize
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("pageSize")); raw != "" {
		pageSize, err = strconv.Atoi(raw)
		if err != nil || pageSize < 1 || pageSize > maxPageSize {
			return 0, 0, fmt.Errorf("pageSize must be between 1 and %d", maxPageSize)
		}
	}
	return page, pageSize, nil
}

// projectRecords maps domain projects into their wire shape.
func projectRecords(projects []domain.Project) []common.ProjectRecord {
	out := make([]common.ProjectRecord, 0, len(projects))
	for _, p := range projects {
		out = append(out, common.ProjectRecordFromDomain(p))
	}
	return out
}

// clientRecords maps domain clients into their wire shape.
func clientRecords(clients []domain.Client) []common.ClientRecord {
	out := make([]common.ClientRecord, 0, len(clients))
	for _, c := range clients {
		out = append(out, common.ClientRecordFromDomain(c))
	}
	return out
}

// userRecords maps domain users into their wire shape.
func userRecords(users []domain.User) []common.UserRecord {
	out := make([]common.UserRecord, 0, len(users))
	for _, u := range users {
		out = append(out, common.UserRecordFromDomain(u))
	}
	return out
}

// normalizePath canonicalizes one request path for route matching.
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.Trim(path, "/")
	return path
}

// problemFrom maps source errors into RFC 7807 problem bodies.
func problemFrom(err error) common.ProblemDetails {
	switch {
	case err == nil:
		return common.NewProblem(http.StatusInternalServerError, "Internal Server Error", "unknown error")
	case errors.Is(err, common.ErrSourceUnavailable):
		return common.NewProblem(http.StatusServiceUnavailable, "Service Unavailable", err.Error())
	case errors.Is(err, common.ErrNotFound):
		return common.NewProblem(http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, common.ErrInvalidRequest):
		return common.NewProblem(http.StatusBadRequest, "Bad Request", err.Error())
	default:
		return common.NewProblem(http.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}

// writeMethodNotAllowed writes a problem response with `Allow` headers.
func writeMethodNotAllowed(w http.ResponseWriter, methods ...string) {
	if len(methods) > 0 {
		w.Header().Set("Allow", strings.Join(methods, ", "))
	}
	writeProblem(w, common.NewProblem(http.StatusMethodNotAllowed, "Method Not Allowed", "method not allowed"))
}

// writeProblem writes one RFC 7807 problem body.
func writeProblem(w http.ResponseWriter, problem common.ProblemDetails) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)
	if err := json.NewEncoder(w).Encode(problem); err != nil {
		http.Error(w, fmt.Sprintf(`{"title":"encode error","detail":"%s"}`, err.Error()), http.StatusInternalServerError)
	}
}

// writeJSON writes one JSON response envelope.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf(`{"title":"encode error","detail":"%s"}`, err.Error()), http.StatusInternalServerError)
	}
}
