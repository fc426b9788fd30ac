package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rrens/seo-writer/internal/api/middleware"
	"github.com/Rrens/seo-writer/internal/api/response"
	"github.com/Rrens/seo-writer/internal/domain"
	"github.com/Rrens/seo-writer/internal/service"
)

// WordPressHandler handles site registration and publishing endpoints
type WordPressHandler struct {
	siteService       *service.SiteService
	publishingService *service.PublishingService
}

// NewWordPressHandler creates a new WordPress handler
func NewWordPressHandler(siteService *service.SiteService, publishingService *service.PublishingService) *WordPressHandler {
	return &WordPressHandler{
		siteService:       siteService,
		publishingService: publishingService,
	}
}

// AddSite registers a WordPress site after checking it answers
func (h *WordPressHandler) AddSite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "please authenticate")
		return
	}

	var input domain.SiteCreate
	if !decode(w, r, &input) {
		return
	}

	site, err := h.siteService.AddSite(r.Context(), userID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, map[string]any{
		"message": "WordPress site added",
		"site":    site,
	})
}

// ListSites returns the caller's registered sites without credentials
func (h *WordPressHandler) ListSites(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "please authenticate")
		return
	}

	sites, err := h.siteService.ListSites(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, sites)
}

// Publish posts a content record to a site immediately
func (h *WordPressHandler) Publish(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "please authenticate")
		return
	}

	var input domain.PublishRequest
	if !decode(w, r, &input) {
		return
	}

	result, err := h.publishingService.Publish(r.Context(), userID, chi.URLParam(r, "contentId"), input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, result)
}

// Schedule creates a future post for a content record
func (h *WordPressHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "please authenticate")
		return
	}

	var input domain.ScheduleRequest
	if !decode(w, r, &input) {
		return
	}

	result, err := h.publishingService.Schedule(r.Context(), userID, chi.URLParam(r, "contentId"), input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, result)
}

// History lists publish attempts for a content record
func (h *WordPressHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "please authenticate")
		return
	}

	records, err := h.publishingService.History(r.Context(), userID, chi.URLParam(r, "contentId"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, records)
}
