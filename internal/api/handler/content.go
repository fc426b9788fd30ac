package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rrens/seo-writer/internal/api/middleware"
	"github.com/Rrens/seo-writer/internal/api/response"
	"github.com/Rrens/seo-writer/internal/domain"
	"github.com/Rrens/seo-writer/internal/llm"
	"github.com/Rrens/seo-writer/internal/service"
)

// ContentHandler handles content generation and editing endpoints
type ContentHandler struct {
	contentService *service.ContentService
	llmRouter      *llm.Router
}

// NewContentHandler creates a new content handler
func NewContentHandler(contentService *service.ContentService, llmRouter *llm.Router) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		llmRouter:      llmRouter,
	}
}

// Generate creates a new article through the AI provider.
// The service checks the quota before validating the input, so the body is only decoded here.
func (h *ContentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "please authenticate")
		return
	}

	var input domain.GenerateRequest
	if err := decodeRaw(w, r, &input); err != nil {
		if _, qerr := h.contentService.CheckQuota(r.Context(), userID); qerr != nil {
			response.FromError(w, qerr)
			return
		}
		response.BadRequest(w, "invalid request body")
		return
	}

	content, err := h.contentService.Generate(r.Context(), userID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, content)
}

// List returns the caller's content, newest first
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "please authenticate")
		return
	}

	contents, err := h.contentService.List(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, contents)
}

// Get returns one content record
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "please authenticate")
		return
	}

	content, err := h.contentService.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, content)
}

// Update edits title, body, keywords or resets status to draft
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "please authenticate")
		return
	}

	var input domain.ContentUpdate
	if !decodeUpdate(w, r, &input, domain.ContentUpdateFields) {
		return
	}

	content, err := h.contentService.Update(r.Context(), userID, chi.URLParam(r, "id"), input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, content)
}

// Delete removes a content record
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "please authenticate")
		return
	}

	if err := h.contentService.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, response.Message{Message: "content deleted"})
}

// Models lists the providers and models usable for generation
func (h *ContentHandler) Models(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"providers":       h.llmRouter.GetProvidersInfo(),
		"defaultProvider": h.llmRouter.DefaultProvider(),
		"defaultModel":    domain.DefaultAIModel,
	})
}
