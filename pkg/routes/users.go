package routes

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/tracklog/api/pkg/auth"
)

type UserRoutes struct {
	Manager *auth.Manager
}

func NewUserRoutes(mgr *auth.Manager) UserRoutes {
	return UserRoutes{Manager: mgr}
}

func (ur UserRoutes) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(ur.Manager.Authenticated)

	r.Get("/@me", ur.GetSelf)

	return r
}

func (ur UserRoutes) GetSelf(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, auth.CurrentUser(r))
}
