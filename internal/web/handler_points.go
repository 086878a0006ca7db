package web

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"ecopontos/internal/service"
	"ecopontos/internal/store"
)

const maxImageSize = 10 * 1024 * 1024 // 10 MB

// allowedImageTypes is the set of MIME types accepted for uploaded photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing; WebP needs its own check because the stdlib sniffer has no WebP
// signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if data is an
// accepted image format.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

// readImagePart reads the optional "image" multipart field. A missing part is
// not an error; a present but unreadable or non-image part is.
func (s *Server) readImagePart(w http.ResponseWriter, r *http.Request) (*service.ImageUpload, bool) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		s.writeError(w, http.StatusBadRequest, "failed to read image")
		return nil, false
	}
	defer closeWithLog(file, "upload file", s.logger)

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to read image")
		s.logger.Error("read upload failed", "error", err)
		return nil, false
	}

	mimeType, ok := allowedImageMIME(data)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unsupported image format")
		return nil, false
	}

	return &service.ImageUpload{
		Filename: header.Filename,
		MimeType: mimeType,
		Data:     data,
	}, true
}

func (s *Server) handleCreatePoint(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	image, ok := s.readImagePart(w, r)
	if !ok {
		return
	}

	req := service.RegistrationRequest{
		Name:      r.FormValue("name"),
		Email:     r.FormValue("email"),
		Whatsapp:  r.FormValue("whatsapp"),
		City:      r.FormValue("city"),
		County:    r.FormValue("county"),
		Latitude:  r.FormValue("latitude"),
		Longitude: r.FormValue("longitude"),
		Items:     r.FormValue("items"),
		Image:     image,
	}

	point, err := s.registration.Register(r.Context(), req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			s.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": verr.Fields})
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to register point")
		s.logger.Error("register point failed", "error", err)
		return
	}

	view, err := s.query.GetPoint(r.Context(), point.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load created point")
		s.logger.Error("load created point failed", "point_id", point.ID, "error", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleListPoints(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.Filter{
		County: q.Get("county"),
		City:   q.Get("city"),
	}
	if raw := q.Get("item"); raw != "" {
		itemID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "item must be an integer id")
			return
		}
		filter.ItemID = itemID
	}

	points, err := s.query.ListPoints(r.Context(), filter)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list points")
		s.logger.Error("list points failed", "error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleGetPoint(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid point id")
		return
	}

	view, err := s.query.GetPoint(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "point not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to get point")
		s.logger.Error("get point failed", "point_id", id, "error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}
