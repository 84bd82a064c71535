package routes

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/tracklog/api/pkg/auth"
	"github.com/tracklog/api/pkg/lists"
)

type ListRoutes struct {
	Manager *auth.Manager
	Service *lists.Service
}

func NewListRoutes(mgr *auth.Manager, svc *lists.Service) ListRoutes {
	return ListRoutes{Manager: mgr, Service: svc}
}

func (lr ListRoutes) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(lr.Manager.Authenticated)

	r.Get("/{listType}", lr.Get)
	r.Post("/{listType}", lr.Add)
	r.Delete("/{listType}", lr.RemoveByKey)
	r.Delete("/{listType}/entries/{id}", lr.Remove)

	return r
}

func (lr ListRoutes) Get(w http.ResponseWriter, r *http.Request) {
	listType := chi.URLParam(r, "listType")
	user := auth.CurrentUser(r)

	entries, err := lr.Service.Entries(r.Context(), user.ID, listType)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"list_type": listType,
		"platforms": entries,
	})
}

type AddEntryPayload struct {
	IGDBID   int64  `json:"igdb_id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Platform string `json:"platform"`
}

func (lr ListRoutes) Add(w http.ResponseWriter, r *http.Request) {
	listType := chi.URLParam(r, "listType")

	var pl AddEntryPayload
	if err := json.NewDecoder(r.Body).Decode(&pl); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if pl.IGDBID == 0 || pl.Name == "" || pl.Platform == "" {
		writeError(w, http.StatusBadRequest, "igdb_id, name and platform are required")
		return
	}

	user := auth.CurrentUser(r)

	entry, err := lr.Service.AddEntry(r.Context(), user.ID, listType, pl.Platform, lists.CatalogGame{
		IGDBID:   pl.IGDBID,
		Name:     pl.Name,
		ImageURL: pl.ImageURL,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (lr ListRoutes) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	user := auth.CurrentUser(r)

	if err := lr.Service.RemoveEntry(r.Context(), user.ID, uint(id)); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveByKey deletes by (igdb_id, platform) query params instead of the
// row id, for callers that only know the catalog identity.
func (lr ListRoutes) RemoveByKey(w http.ResponseWriter, r *http.Request) {
	listType := chi.URLParam(r, "listType")

	igdbID, err := strconv.ParseInt(r.URL.Query().Get("igdb_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid igdb_id")
		return
	}

	platform := r.URL.Query().Get("platform")
	if platform == "" {
		writeError(w, http.StatusBadRequest, "platform is required")
		return
	}

	user := auth.CurrentUser(r)

	if err := lr.Service.RemoveEntryByKey(r.Context(), user.ID, igdbID, platform, listType); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
