package service

import (
	"context"
	"fmt"
	"strings"

	"ecopontos/internal/domain"
	"ecopontos/internal/store"
)

// ItemRef identifies an accepted item inside a point view.
type ItemRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// ItemView is an API-shaped catalog entry with a derived icon URL.
type ItemView struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

// PointView is an API-shaped point with a derived image URL and the accepted
// item list resolved.
type PointView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"imageUrl"`
	Email     string    `json:"email"`
	Whatsapp  string    `json:"whatsapp"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	City      string    `json:"city"`
	County    string    `json:"county"`
	Items     []ItemRef `json:"items"`
}

// pointReader is the subset of store.PointStore that QueryService requires.
type pointReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Point, error)
	ListFiltered(ctx context.Context, f store.Filter) ([]*domain.Point, error)
}

// itemReader is the subset of store.ItemStore that QueryService requires.
type itemReader interface {
	List(ctx context.Context) ([]domain.Item, error)
	ListByPointID(ctx context.Context, pointID int64) ([]domain.Item, error)
}

type QueryService struct {
	points  pointReader
	items   itemReader
	baseURL string
}

func NewQueryService(points pointReader, items itemReader, publicBaseURL string) *QueryService {
	return &QueryService{
		points:  points,
		items:   items,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// ListItems returns the catalog with icon URLs for the selection UI.
func (s *QueryService) ListItems(ctx context.Context) ([]ItemView, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ItemView{
			ID:       item.ID,
			Title:    item.Title,
			ImageURL: s.baseURL + "/assets/" + item.Image,
		})
	}
	return views, nil
}

// GetPoint returns the view for one point, or store.ErrNotFound.
func (s *QueryService) GetPoint(ctx context.Context, id int64) (*PointView, error) {
	point, err := s.points.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toView(ctx, point)
}

// ListPoints returns views for every point matching the filter.
func (s *QueryService) ListPoints(ctx context.Context, f store.Filter) ([]*PointView, error) {
	points, err := s.points.ListFiltered(ctx, f)
	if err != nil {
		return nil, err
	}

	views := make([]*PointView, 0, len(points))
	for _, point := range points {
		view, err := s.toView(ctx, point)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *QueryService) toView(ctx context.Context, point *domain.Point) (*PointView, error) {
	items, err := s.items.ListByPointID(ctx, point.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve items for point %d: %w", point.ID, err)
	}

	refs := make([]ItemRef, 0, len(items))
	for _, item := range items {
		refs = append(refs, ItemRef{ID: item.ID, Title: item.Title})
	}

	view := &PointView{
		ID:        point.ID,
		Name:      point.Name,
		Email:     point.Email,
		Whatsapp:  point.Whatsapp,
		Latitude:  point.Latitude,
		Longitude: point.Longitude,
		City:      point.City,
		County:    point.County,
		Items:     refs,
	}
	if point.Image != "" {
		view.ImageURL = s.baseURL + "/uploads/" + point.Image
	}
	return view, nil
}
