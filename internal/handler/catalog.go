package handler

import (
	"net/http"

	"github.com/aethergame/vanitycore/internal/catalog"
	"github.com/aethergame/vanitycore/internal/domain"
	"github.com/aethergame/vanitycore/internal/logger"
	"github.com/aethergame/vanitycore/internal/metrics"
)

// CatalogResponse lists item definitions in catalog order.
type CatalogResponse struct {
	Items []domain.Item `json:"items"`
}

// CategoriesResponse lists categories with at least one definition.
type CategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

// PacksResponse lists content packs with at least one definition.
type PacksResponse struct {
	Packs []string `json:"packs"`
}

// HandleGetCatalog returns catalog contents, optionally filtered
// @Summary List item definitions
// @Description Optional category or pack query parameters filter the result
// @Tags catalog
// @Produce json
// @Param category query string false "Filter by category"
// @Param pack query string false "Filter by pack"
// @Success 200 {object} CatalogResponse
// @Router /catalog [get]
func HandleGetCatalog(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var items []domain.Item
		switch {
		case r.URL.Query().Get("category") != "":
			items = cat.ByCategory(domain.Category(r.URL.Query().Get("category")))
		case r.URL.Query().Get("pack") != "":
			items = cat.ByPack(r.URL.Query().Get("pack"))
		default:
			items = cat.All()
		}
		respondJSON(w, http.StatusOK, CatalogResponse{Items: items})
	}
}

// HandleGetCategories lists catalog categories
// @Summary List categories
// @Tags catalog
// @Produce json
// @Success 200 {object} CategoriesResponse
// @Router /catalog/categories [get]
func HandleGetCategories(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, CategoriesResponse{Categories: cat.AllCategories()})
	}
}

// HandleGetPacks lists catalog packs
// @Summary List content packs
// @Tags catalog
// @Produce json
// @Success 200 {object} PacksResponse
// @Router /catalog/packs [get]
func HandleGetPacks(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, PacksResponse{Packs: cat.AllPacks()})
	}
}

// HandleReloadCatalog re-reads the catalog sources and swaps them in
// @Summary Reload the catalog from its configured sources
// @Tags admin
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/catalog/reload [post]
func HandleReloadCatalog(cat *catalog.Catalog, catalogPath, overridesPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		cfg, err := catalog.LoadFile(catalogPath)
		if err != nil {
			log.Error("Catalog reload failed", "error", err, "path", catalogPath)
			respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "catalog reload failed"})
			return
		}

		defs, result := cfg.Definitions()
		cat.ReloadAll(defs, true)

		// Override sources are optional; a missing file is not an error.
		if overridesPath != "" {
			if overrides, err := catalog.LoadOverridesFile(overridesPath); err == nil {
				catalog.ApplyOverrides(cat, overrides)
			} else {
				log.Debug("No catalog overrides applied", "path", overridesPath, "error", err)
			}
		}

		metrics.CatalogSize.Set(float64(cat.Len()))
		log.Info("Catalog reloaded via admin surface",
			"loaded", result.Loaded, "skipped", result.Skipped, "total", cat.Len())
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Catalog reloaded"})
	}
}
