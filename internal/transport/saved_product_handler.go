package transport

import (
	"net/http"

	"merch-nexus/internal/apperror"
	"merch-nexus/internal/domain"
	"merch-nexus/internal/middleware"
	"merch-nexus/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaveProductRequest represents the payload for saving a product
type SaveProductRequest struct {
	ProductID    uuid.UUID  `json:"product_id" validate:"required"`
	CollectionID *uuid.UUID `json:"collection_id"`
	Notes        *string    `json:"notes"`
	Tags         []string   `json:"tags" validate:"omitempty,dive,max=64"`
}

// SavedProductHandler handles HTTP requests for saved products
type SavedProductHandler struct {
	savedProductService service.SavedProductService
	logger              *zap.Logger
}

// NewSavedProductHandler creates a new SavedProductHandler
func NewSavedProductHandler(savedProductService service.SavedProductService, logger *zap.Logger) *SavedProductHandler {
	return &SavedProductHandler{
		savedProductService: savedProductService,
		logger:              logger,
	}
}

// RegisterRoutes registers the saved-product routes
func (h *SavedProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/saved-products", func(r chi.Router) {
		r.Post("/", h.Save)
		r.Get("/", h.List)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Remove)
	})
}

// Save handles saving a product for the caller
func (h *SavedProductHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req SaveProductRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	saved, err := h.savedProductService.Save(r.Context(), userID, service.SaveProductInput{
		ProductID:    req.ProductID,
		CollectionID: req.CollectionID,
		Notes:        req.Notes,
		Tags:         req.Tags,
	})
	if err != nil {
		middleware.RespondWithAppError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, saved)
}

// List handles listing the caller's saved products, optionally by collection
func (h *SavedProductHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var collectionID *uuid.UUID
	if raw := queryString(r, "collection_id"); raw != nil {
		id, err := uuid.Parse(*raw)
		if err != nil {
			middleware.RespondWithAppError(w, apperror.Validation("collection_id must be a UUID"))
			return
		}
		collectionID = &id
	}

	saved, err := h.savedProductService.List(r.Context(), userID, collectionID)
	if err != nil {
		middleware.RespondWithAppError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, saved)
}

// Update handles partial saved-product updates. An omitted key leaves the
// field alone; an explicit null clears it.
func (h *SavedProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var patch domain.SavedProductPatch
	if !decodeBody(w, r, h.logger, &patch) {
		return
	}

	saved, err := h.savedProductService.Update(r.Context(), userID, id, patch)
	if err != nil {
		middleware.RespondWithAppError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, saved)
}

// Remove handles removing a saved product. It answers 204 whether or not
// anything was removed.
func (h *SavedProductHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.savedProductService.Remove(r.Context(), userID, id); err != nil {
		middleware.RespondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
