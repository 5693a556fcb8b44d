package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	apperrors "github.com/listing-sync/internal/errors"
	"github.com/listing-sync/internal/models"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// handleHealth reports service and database health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	respondJSON(w, code, map[string]string{"status": status})
}

// handleGetProperties returns a paginated list of properties with optional
// filters, newest first.
func (s *Server) handleGetProperties(w http.ResponseWriter, r *http.Request) {
	params := parseSearchParams(r)

	if s.cache != nil {
		if cached, err := s.cache.Get(r.Context(), params); err == nil && cached != nil {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	resp, err := s.store.Search(r.Context(), params)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	if s.cache != nil {
		if err := s.cache.Set(r.Context(), params, resp); err != nil {
			s.logger.WithError(err).Warn("Failed to cache search response")
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleGetProperty returns a single property by its listing id.
func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		respondError(w, http.StatusBadRequest, "INVALID_PARAMETER", "listing id is required")
		return
	}

	view, err := s.store.GetByID(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// handleInsightsSummary returns aggregate inventory figures.
func (s *Server) handleInsightsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.store.InsightsSummary(r.Context())
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// parseSearchParams reads the frontend's filter parameters, ignoring
// malformed values.
func parseSearchParams(r *http.Request) *models.PropertySearchParams {
	q := r.URL.Query()
	params := &models.PropertySearchParams{
		City:         q.Get("city"),
		Zip:          q.Get("zip"),
		PropertyType: q.Get("property_type"),
		Keyword:      q.Get("keyword"),
		Page:         1,
		Limit:        defaultPageLimit,
	}

	if page := q.Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}
	if limit := q.Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 && l <= maxPageLimit {
			params.Limit = l
		}
	}
	if minPrice := q.Get("min_price"); minPrice != "" {
		if mp, err := strconv.ParseFloat(minPrice, 64); err == nil {
			params.MinPrice = mp
		}
	}
	if maxPrice := q.Get("max_price"); maxPrice != "" {
		if mp, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			params.MaxPrice = mp
		}
	}
	if bedrooms := q.Get("bedrooms"); bedrooms != "" {
		if b, err := strconv.Atoi(bedrooms); err == nil {
			params.Bedrooms = b
		}
	}
	if bathrooms := q.Get("bathrooms"); bathrooms != "" {
		if b, err := strconv.Atoi(bathrooms); err == nil {
			params.Bathrooms = b
		}
	}

	return params
}

// respondStoreError maps a storage error to an HTTP response.
func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	code := apperrors.GetStatusCode(err)
	if code >= http.StatusInternalServerError {
		s.logger.WithError(err).Error("Listing store error")
		respondError(w, code, "INTERNAL_ERROR", "Error fetching properties")
		return
	}
	respondError(w, code, string(apperrors.GetCategory(err)), err.Error())
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload) // nolint:errcheck // client gone
}

func respondError(w http.ResponseWriter, code int, errCode, message string) {
	respondJSON(w, code, errorResponse{Error: errorBody{Code: errCode, Message: message}})
}
