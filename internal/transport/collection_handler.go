package transport

import (
	"net/http"
	"unicode/utf8"

	"merch-nexus/internal/apperror"
	"merch-nexus/internal/domain"
	"merch-nexus/internal/middleware"
	"merch-nexus/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxCollectionNameLength = 255

// CreateCollectionRequest represents the collection creation payload
type CreateCollectionRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitempty,max=32"`
}

// CollectionHandler handles HTTP requests for collections
type CollectionHandler struct {
	collectionService service.CollectionService
	logger            *zap.Logger
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collectionService service.CollectionService, logger *zap.Logger) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		logger:            logger,
	}
}

// RegisterRoutes registers the collection routes
func (h *CollectionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/collections", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create handles collection creation
func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req CreateCollectionRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	collection, err := h.collectionService.Create(r.Context(), userID, service.CreateCollectionInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		middleware.RespondWithAppError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, collection)
}

// List handles listing the caller's collections
func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	collections, err := h.collectionService.List(r.Context(), userID)
	if err != nil {
		middleware.RespondWithAppError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, collections)
}

// Update handles partial collection updates
func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var patch domain.CollectionPatch
	if !decodeBody(w, r, h.logger, &patch) {
		return
	}
	if patch.Name.Set && utf8.RuneCountInString(patch.Name.Value) > maxCollectionNameLength {
		middleware.RespondWithAppError(w, apperror.Validation("name is too long"))
		return
	}

	collection, err := h.collectionService.Update(r.Context(), userID, id, patch)
	if err != nil {
		middleware.RespondWithAppError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, collection)
}

// Delete handles collection deletion
func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.collectionService.Delete(r.Context(), userID, id); err != nil {
		middleware.RespondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
