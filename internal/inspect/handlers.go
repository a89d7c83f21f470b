package inspect

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fidde/logtemplater/internal/templater"
)

// paginatedTemplates wraps a page of the mined template set with pagination
// metadata.
type paginatedTemplates struct {
	Data    []templater.TemplateSummary `json:"data"`
	Total   int                         `json:"total"`
	Limit   int                         `json:"limit"`
	Offset  int                         `json:"offset"`
	HasMore bool                        `json:"has_more"`
}

const (
	defaultLimit = 100
	maxLimit     = 1000
)

func parsePagination(r *http.Request) (limit, offset int) {
	limit = defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
			if limit > maxLimit {
				limit = maxLimit
			}
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

// listTemplates returns a page of the current template dump, sorted (as
// Dump already sorts it) by template text for a stable index across calls
// between dumps.
func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	all := s.templater.Dump()
	limit, offset := parsePagination(r)

	total := len(all)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	writeJSON(w, http.StatusOK, paginatedTemplates{
		Data:    all[start:end],
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: end < total,
	})
}

// getTemplate returns one template summary, including its full
// per-position parameter table, addressed by its position in the current
// sorted dump.
func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "index must be an integer", http.StatusBadRequest)
		return
	}

	all := s.templater.Dump()
	if index < 0 || index >= len(all) {
		http.Error(w, "no such template", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, all[index])
}
