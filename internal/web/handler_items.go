package web

import "net/http"

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.query.ListItems(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list items")
		s.logger.Error("list items failed", "error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, items)
}
