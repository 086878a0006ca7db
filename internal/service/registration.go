package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"ecopontos/internal/domain"
	"ecopontos/internal/imagestore"
	"ecopontos/internal/store"
)

// Accepts anything shaped local@domain.tld; real deliverability is the
// submitter's problem.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ImageUpload is the optional image part of a registration submission.
type ImageUpload struct {
	Filename string
	MimeType string
	Data     []byte
}

// RegistrationRequest carries the raw multipart fields of a submission.
// Latitude, Longitude and Items arrive as strings and are parsed during
// validation so every malformed field can be reported together.
type RegistrationRequest struct {
	Name      string
	Email     string
	Whatsapp  string
	City      string
	County    string
	Latitude  string
	Longitude string
	Items     string
	Image     *ImageUpload
}

// pointCreator is the subset of store.PointStore that RegistrationService requires.
type pointCreator interface {
	Create(ctx context.Context, draft store.PointDraft, itemIDs []int64) (*domain.Point, error)
}

type RegistrationService struct {
	points pointCreator
	images imagestore.Store
	logger *slog.Logger
}

func NewRegistrationService(points pointCreator, images imagestore.Store, logger *slog.Logger) *RegistrationService {
	return &RegistrationService{points: points, images: images, logger: logger}
}

// Register validates req, stores the uploaded image if present, and persists
// the point with its item associations. A *ValidationError lists every bad
// field; any other error is a storage fault and leaves no partial state.
func (s *RegistrationService) Register(ctx context.Context, req RegistrationRequest) (*domain.Point, error) {
	draft, itemIDs, fieldErrs := validate(req)
	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	if req.Image != nil {
		key, err := s.images.Save(ctx, req.Image.Filename, req.Image.MimeType, bytes.NewReader(req.Image.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to save image: %w", err)
		}
		draft.Image = key
		s.logger.Debug("image saved", "key", key, "bytes", len(req.Image.Data))
	}

	point, err := s.points.Create(ctx, draft, itemIDs)
	if err != nil {
		// The point row never landed; remove the now-orphaned image file.
		if draft.Image != "" {
			if derr := s.images.Delete(ctx, draft.Image); derr != nil {
				s.logger.Error("failed to remove image after create error", "key", draft.Image, "error", derr)
			}
		}
		if errors.Is(err, store.ErrUnknownItem) || errors.Is(err, store.ErrNoItems) {
			return nil, &ValidationError{Fields: []FieldError{{Field: "items", Message: err.Error()}}}
		}
		return nil, fmt.Errorf("failed to create point: %w", err)
	}

	s.logger.Info("point registered", "point_id", point.ID, "city", point.City, "county", point.County, "items", len(itemIDs))
	return point, nil
}

func validate(req RegistrationRequest) (store.PointDraft, []int64, []FieldError) {
	var errs []FieldError
	addErr := func(field, message string) {
		errs = append(errs, FieldError{Field: field, Message: message})
	}

	draft := store.PointDraft{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Whatsapp: strings.TrimSpace(req.Whatsapp),
		City:     strings.TrimSpace(req.City),
		County:   strings.TrimSpace(req.County),
	}

	if draft.Name == "" {
		addErr("name", "name is required")
	}
	switch {
	case draft.Email == "":
		addErr("email", "email is required")
	case !emailPattern.MatchString(draft.Email):
		addErr("email", "email is not valid")
	}
	switch {
	case draft.Whatsapp == "":
		addErr("whatsapp", "whatsapp is required")
	case !strings.ContainsAny(draft.Whatsapp, "0123456789"):
		addErr("whatsapp", "whatsapp must contain digits")
	}
	if draft.City == "" {
		addErr("city", "city is required")
	}
	if draft.County == "" {
		addErr("county", "county is required")
	}

	draft.Latitude = parseCoordinate(req.Latitude, "latitude", addErr)
	draft.Longitude = parseCoordinate(req.Longitude, "longitude", addErr)

	itemIDs, itemErr := parseItemIDs(req.Items)
	if itemErr != "" {
		addErr("items", itemErr)
	}

	return draft, itemIDs, errs
}

func parseCoordinate(raw, field string, addErr func(field, message string)) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		addErr(field, field+" is required")
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		addErr(field, field+" must be a number")
		return 0
	}
	return v
}

// parseItemIDs parses a comma-separated id list into distinct integers,
// returning a non-empty message on failure.
func parseItemIDs(raw string) ([]int64, string) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Sprintf("%q is not a valid item id", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, "at least one item id is required"
	}
	return ids, ""
}
