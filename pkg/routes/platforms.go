package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/tracklog/api/pkg/auth"
	"github.com/tracklog/api/pkg/database"
	"github.com/tracklog/api/pkg/lists"
)

type PlatformRoutes struct {
	Manager *auth.Manager
	Service *lists.Service
}

func NewPlatformRoutes(mgr *auth.Manager, svc *lists.Service) PlatformRoutes {
	return PlatformRoutes{Manager: mgr, Service: svc}
}

func (pr PlatformRoutes) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(pr.Manager.Authenticated)

	r.Get("/", pr.Owned)
	r.Get("/all", pr.All)
	r.Post("/", pr.Add)
	r.Delete("/{name}", pr.Remove)

	return r
}

func (pr PlatformRoutes) Owned(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r)

	names, err := pr.Service.Platforms(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"platforms": names})
}

// All returns the reference platform table, for pickers.
func (pr PlatformRoutes) All(w http.ResponseWriter, r *http.Request) {
	var platforms []database.Platform
	res := pr.Manager.DB.WithContext(r.Context()).Order("name").Find(&platforms)
	if res.Error != nil {
		writeServiceError(w, res.Error)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]database.Platform{"platforms": platforms})
}

type AddPlatformPayload struct {
	Name string `json:"name"`
}

func (pr PlatformRoutes) Add(w http.ResponseWriter, r *http.Request) {
	var pl AddPlatformPayload
	if err := json.NewDecoder(r.Body).Decode(&pl); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if pl.Name == "" {
		writeError(w, http.StatusBadRequest, "platform name is required")
		return
	}

	user := auth.CurrentUser(r)

	up, err := pr.Service.AddPlatform(r.Context(), user.ID, pl.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, up)
}

func (pr PlatformRoutes) Remove(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	user := auth.CurrentUser(r)

	if err := pr.Service.RemovePlatform(r.Context(), user.ID, name); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
