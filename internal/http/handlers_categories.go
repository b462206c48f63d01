package http

import (
	"net/http"

	"patrimonio/internal/core"
)

type categoryRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

func (req categoryRequest) toCategory() core.Category {
	return core.Category{
		Name:        sanitizeInput(req.Name),
		Type:        core.AssetType(req.Type),
		Icon:        sanitizeInput(req.Icon),
		Color:       sanitizeInput(req.Color),
		Description: sanitizeInput(req.Description),
	}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]categoryJSON, len(categories))
	for i, c := range categories {
		out[i] = toCategoryJSON(c)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCategoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.categories.ListWithStats(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]categoryStatsJSON, len(stats))
	for i, st := range stats {
		out[i] = categoryStatsJSON{
			categoryJSON: toCategoryJSON(st.Category),
			AccountCount: st.AccountCount,
			TotalBalance: st.TotalBalance.Float64(),
		}
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, "invalid category id")
		return
	}
	category, err := s.categories.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCategoryJSON(category))
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	id, err := s.categories.Create(r.Context(), req.toCategory())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, "invalid category id")
		return
	}
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	category := req.toCategory()
	category.ID = id
	if err := s.categories.Update(r.Context(), category); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, "invalid category id")
		return
	}
	if err := s.categories.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
