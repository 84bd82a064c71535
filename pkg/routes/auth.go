package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"gorm.io/gorm"

	"github.com/tracklog/api/pkg/auth"
	"github.com/tracklog/api/pkg/database"
	tlerrors "github.com/tracklog/api/pkg/errors"
)

type AuthRoutes struct {
	Manager *auth.Manager
}

func NewAuthRoutes(mgr *auth.Manager) AuthRoutes {
	return AuthRoutes{Manager: mgr}
}

func (ar AuthRoutes) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", ar.Register)
	r.Post("/login", ar.Login)
	r.Group(func(r chi.Router) {
		r.Use(ar.Manager.Authenticated)
		r.Post("/logout", ar.Logout)
	})

	return r
}

type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

func (ar AuthRoutes) Register(w http.ResponseWriter, r *http.Request) {
	var pl RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&pl); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	pl.Username = strings.TrimSpace(pl.Username)
	pl.Email = strings.TrimSpace(strings.ToLower(pl.Email))

	if pl.Username == "" || pl.Email == "" || pl.Password == "" || pl.Confirm == "" {
		writeError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	if pl.Password != pl.Confirm {
		writeError(w, http.StatusBadRequest, "passwords do not match")
		return
	}

	// Hash before touching the database; bcrypt is the expensive part and
	// must not run inside a transaction.
	digest, err := auth.HashPassword(pl.Password, ar.Manager.BcryptCost)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	user := database.User{
		Username:     pl.Username,
		Email:        pl.Email,
		PasswordHash: digest,
	}

	db := ar.Manager.DB.WithContext(r.Context())
	if res := db.Create(&user); res.Error != nil {
		if tlerrors.IsUniqueViolation(res.Error) {
			writeServiceError(w, ar.classifyConflict(r, pl))
			return
		}

		writeServiceError(w, res.Error)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// classifyConflict turns a unique violation from registration into the
// right taken-field error.
func (ar AuthRoutes) classifyConflict(r *http.Request, pl RegisterPayload) error {
	db := ar.Manager.DB.WithContext(r.Context())

	if _, err := database.FindUserByUsername(db, pl.Username); err == nil {
		return tlerrors.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return tlerrors.ErrEmailTaken
}

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
	Next     string `json:"next"`
}

type LoginResponse struct {
	User     *database.User `json:"user"`
	Redirect string         `json:"redirect"`
}

func (ar AuthRoutes) Login(w http.ResponseWriter, r *http.Request) {
	var pl LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&pl); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if pl.Username == "" || pl.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := ar.Manager.Authenticate(r.Context(), pl.Username, pl.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := ar.Manager.IssueSession(r.Context(), w, user.ID, pl.Remember); err != nil {
		writeServiceError(w, err)
		return
	}

	redirect := "/"
	if auth.SafeRedirectTarget(pl.Next) {
		redirect = pl.Next
	}

	writeJSON(w, http.StatusOK, LoginResponse{User: user, Redirect: redirect})
}

func (ar AuthRoutes) Logout(w http.ResponseWriter, r *http.Request) {
	ar.Manager.ClearSession(r.Context(), w, r)
	w.WriteHeader(http.StatusNoContent)
}
