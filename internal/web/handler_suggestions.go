package web

import (
	"errors"
	"io"
	"net/http"

	"ecopontos/internal/service"
)

// handleSuggestions analyzes an uploaded photo and returns the catalog items
// the pictured collection point appears to accept.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer closeWithLog(file, "upload file", s.logger)

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to read image")
		s.logger.Error("read upload failed", "error", err)
		return
	}

	mimeType, ok := allowedImageMIME(data)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unsupported image format")
		return
	}

	items, err := s.suggestions.SuggestItems(r.Context(), data, mimeType)
	if err != nil {
		if errors.Is(err, service.ErrSuggestionsDisabled) {
			s.writeError(w, http.StatusServiceUnavailable, "suggestions are not configured")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to analyze image")
		s.logger.Error("suggestions failed", "error", err)
		return
	}

	refs := make([]service.ItemRef, 0, len(items))
	for _, item := range items {
		refs = append(refs, service.ItemRef{ID: item.ID, Title: item.Title})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"items": refs})
}
