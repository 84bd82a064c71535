package routes

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	tlerrors "github.com/tracklog/api/pkg/errors"
	"github.com/tracklog/api/pkg/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(models.CreateError(msg))
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Anything unrecognized is an internal error and gets logged.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tlerrors.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, tlerrors.ErrNotYours):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, tlerrors.ErrNotFound),
		errors.Is(err, tlerrors.ErrUnknownPlatform):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, tlerrors.ErrUsernameTaken),
		errors.Is(err, tlerrors.ErrEmailTaken),
		errors.Is(err, tlerrors.ErrAlreadyOwned),
		errors.Is(err, tlerrors.ErrDuplicateEntry):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, tlerrors.ErrPlatformNotOwned):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, tlerrors.ErrCatalogUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		log.Printf("internal error: %v\n", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
