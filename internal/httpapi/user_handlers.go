package httpapi

import (
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
}

const (
	maxNameLen  = 100
	maxEmailLen = 150
	// bcrypt rejects inputs longer than 72 bytes.
	maxPasswordLen = 72
)

func validateName(name string) error {
	if name == "" {
		return errors.New("name is required")
	}
	if len(name) > maxNameLen {
		return errors.New("name must be at most 100 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if len(email) > maxEmailLen {
		return errors.New("email must be at most 150 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("email is invalid")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return errors.New("password is required")
	}
	if len(password) > maxPasswordLen {
		return errors.New("password must be at most 72 characters")
	}
	return nil
}

func (a *API) handleUsersCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	writeResult(w, a.users.GetAll(r.Context()))
}

func (a *API) handleUserResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/users/"), "/")
	switch rest {
	case "":
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	case "register":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		a.register(w, r)
		return
	case "login":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		a.login(w, r)
		return
	}

	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		writeResult(w, a.users.GetByID(r.Context(), id))
	case http.MethodPut:
		a.updateUser(w, r, id)
	case http.MethodDelete:
		a.deleteUser(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateName(req.Name); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateEmail(req.Email); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validatePassword(req.Password); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res := a.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if res.Success() {
		a.audit(r.Context(), "user.register", map[string]any{
			"user_id": res.Data.ID,
			"email":   res.Data.Email,
		})
		w.Header().Set("Location", "/v1/users/"+strconv.FormatInt(res.Data.ID, 10))
	}
	writeResult(w, res)
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	res := a.users.Login(r.Context(), req.Email, req.Password)
	if res.Success() {
		a.audit(r.Context(), "user.login", map[string]any{
			"user_id": res.Data.User.ID,
		})
	}
	writeResult(w, res)
}

func (a *API) updateUser(w http.ResponseWriter, r *http.Request, id int64) {
	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateName(req.Name); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateEmail(req.Email); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res := a.users.Update(r.Context(), id, req.Name, req.Email, req.Active)
	if res.Success() {
		a.audit(r.Context(), "user.update", map[string]any{
			"user_id": id,
			"active":  req.Active,
		})
	}
	writeResult(w, res)
}

func (a *API) deleteUser(w http.ResponseWriter, r *http.Request, id int64) {
	res := a.users.Delete(r.Context(), id)
	if res.Success() {
		a.audit(r.Context(), "user.delete", map[string]any{
			"user_id": id,
		})
	}
	writeResult(w, res)
}
