package web

import (
	"io"
	"net/http"
)

// handleGetUpload streams a stored point image. Going through the image store
// rather than a bare file server keeps the traversal guard in one place.
func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	reader, mimeType, err := s.images.Open(r.Context(), key)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "image not found")
		return
	}
	defer closeWithLog(reader, "image reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write image failed", "key", key, "error", err)
	}
}
