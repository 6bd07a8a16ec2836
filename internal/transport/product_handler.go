package transport

import (
	"net/http"

	"merch-nexus/internal/apperror"
	"merch-nexus/internal/domain"
	"merch-nexus/internal/middleware"
	"merch-nexus/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for the catalog
type ProductHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers the catalog routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.Search)
		r.Get("/{id}", h.GetProduct)
	})
}

// parseSearchCriteria reads the catalog filters from the query string.
// Absent parameters leave the filter unset.
func parseSearchCriteria(r *http.Request) (domain.SearchCriteria, error) {
	var (
		criteria domain.SearchCriteria
		err      error
	)

	criteria.Query = queryString(r, "query")
	criteria.Category = queryString(r, "category")

	if criteria.MinPrice, err = queryFloat(r, "min_price"); err != nil {
		return criteria, err
	}
	if criteria.MaxPrice, err = queryFloat(r, "max_price"); err != nil {
		return criteria, err
	}
	if criteria.MinRating, err = queryFloat(r, "min_rating"); err != nil {
		return criteria, err
	}

	if raw := queryString(r, "competition_level"); raw != nil {
		level := domain.CompetitionLevel(*raw)
		if !level.Valid() {
			return criteria, apperror.Validation("competition_level must be one of low, medium, high")
		}
		criteria.CompetitionLevel = &level
	}

	if criteria.Page, err = queryInt(r, "page"); err != nil {
		return criteria, err
	}
	if criteria.Limit, err = queryInt(r, "limit"); err != nil {
		return criteria, err
	}

	return criteria, nil
}

// Search handles catalog search
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseSearchCriteria(r)
	if err != nil {
		middleware.RespondWithAppError(w, err)
		return
	}

	result, err := h.catalogService.Search(r.Context(), criteria)
	if err != nil {
		middleware.RespondWithAppError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// GetProduct handles retrieval of a single product
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		middleware.RespondWithAppError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}
