package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

const maxDescriptionLen = 500

func validateCategory(name, description string) error {
	if name == "" {
		return errors.New("name is required")
	}
	if len(name) > maxNameLen {
		return errors.New("name must be at most 100 characters")
	}
	if len(description) > maxDescriptionLen {
		return errors.New("description must be at most 500 characters")
	}
	return nil
}

func (a *API) handleCategoriesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeResult(w, a.categories.GetAll(r.Context()))
	case http.MethodPost:
		a.createCategory(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleCategoryResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/categories/"), "/")
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		writeResult(w, a.categories.GetByID(r.Context(), id))
	case http.MethodPut:
		a.updateCategory(w, r, id)
	case http.MethodDelete:
		a.deleteCategory(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) createCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if err := validateCategory(req.Name, req.Description); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res := a.categories.Create(r.Context(), req.Name, req.Description)
	if res.Success() {
		a.audit(r.Context(), "category.create", map[string]any{
			"category_id": res.Data.ID,
			"name":        res.Data.Name,
		})
		w.Header().Set("Location", "/v1/categories/"+strconv.FormatInt(res.Data.ID, 10))
	}
	writeResult(w, res)
}

func (a *API) updateCategory(w http.ResponseWriter, r *http.Request, id int64) {
	var req updateCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if err := validateCategory(req.Name, req.Description); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res := a.categories.Update(r.Context(), id, req.Name, req.Description, req.Active)
	if res.Success() {
		a.audit(r.Context(), "category.update", map[string]any{
			"category_id": id,
			"active":      req.Active,
		})
	}
	writeResult(w, res)
}

func (a *API) deleteCategory(w http.ResponseWriter, r *http.Request, id int64) {
	res := a.categories.Delete(r.Context(), id)
	if res.Success() {
		a.audit(r.Context(), "category.delete", map[string]any{
			"category_id": id,
		})
	}
	writeResult(w, res)
}
