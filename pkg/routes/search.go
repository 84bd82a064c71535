package routes

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/tracklog/api/pkg/auth"
	"github.com/tracklog/api/pkg/igdb"
)

// Catalog is the slice of the external game catalog the routes consume.
type Catalog interface {
	Search(ctx context.Context, query string, limit int) ([]igdb.Game, error)
	PlatformsForGame(ctx context.Context, igdbID int64) ([]string, error)
}

type SearchRoutes struct {
	Manager *auth.Manager
	Catalog Catalog
}

func NewSearchRoutes(mgr *auth.Manager, catalog Catalog) SearchRoutes {
	return SearchRoutes{Manager: mgr, Catalog: catalog}
}

func (sr SearchRoutes) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(sr.Manager.Authenticated)

	r.Get("/", sr.Search)
	r.Get("/{igdbID}/platforms", sr.Platforms)

	return r
}

func (sr SearchRoutes) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "missing query")
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	games, err := sr.Catalog.Search(r.Context(), q, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]igdb.Game{"results": games})
}

func (sr SearchRoutes) Platforms(w http.ResponseWriter, r *http.Request) {
	igdbID, err := strconv.ParseInt(chi.URLParam(r, "igdbID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	platforms, err := sr.Catalog.PlatformsForGame(r.Context(), igdbID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"platforms": platforms})
}
