package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"ecopontos/internal/domain"
)

// PointDraft carries the validated fields of a point before it has an id.
type PointDraft struct {
	Image     string
	Name      string
	Email     string
	Whatsapp  string
	Latitude  float64
	Longitude float64
	City      string
	County    string
}

// Filter narrows ListFiltered results. Zero values mean "not applied".
// ItemID matches points that have at least one association with that item.
type Filter struct {
	County string
	City   string
	ItemID int64
}

type PointStore struct {
	db *sql.DB
}

func NewPointStore(db *sql.DB) *PointStore {
	return &PointStore{db: db}
}

// Create inserts the point and one association row per distinct item id in a
// single transaction. It returns ErrNoItems for an empty set and
// ErrUnknownItem when any id is missing from the catalog; in both cases, and
// on any write failure, nothing is persisted.
func (s *PointStore) Create(ctx context.Context, draft PointDraft, itemIDs []int64) (*domain.Point, error) {
	itemIDs = dedupe(itemIDs)
	if len(itemIDs) == 0 {
		return nil, ErrNoItems
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			slog.Error("failed to roll back transaction", "error", err)
		}
	}()

	if err := s.checkItemsExist(ctx, tx, itemIDs); err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO points (image, name, email, whatsapp, latitude, longitude, city, county)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, draft.Image, draft.Name, draft.Email, draft.Whatsapp, draft.Latitude, draft.Longitude, draft.City, draft.County)
	if err != nil {
		return nil, fmt.Errorf("failed to create point: %w", err)
	}

	pointID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	for _, itemID := range itemIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO point_items (point_id, item_id) VALUES (?, ?)
		`, pointID, itemID); err != nil {
			return nil, fmt.Errorf("failed to create point item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit point: %w", err)
	}

	return s.GetByID(ctx, pointID)
}

// checkItemsExist verifies every id in itemIDs against the catalog inside tx.
func (s *PointStore) checkItemsExist(ctx context.Context, tx *sql.Tx, itemIDs []int64) error {
	placeholders := strings.Repeat("?,", len(itemIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(itemIDs))
	for i, id := range itemIDs {
		args[i] = id
	}

	var count int
	err := tx.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM items WHERE id IN (%s)", placeholders),
		args...,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check item ids: %w", err)
	}

	if count != len(itemIDs) {
		return ErrUnknownItem
	}
	return nil
}

// GetByID returns the point or ErrNotFound.
func (s *PointStore) GetByID(ctx context.Context, id int64) (*domain.Point, error) {
	point := &domain.Point{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, image, name, email, whatsapp, latitude, longitude, city, county, created_at
		FROM points WHERE id = ?
	`, id).Scan(
		&point.ID, &point.Image, &point.Name, &point.Email, &point.Whatsapp,
		&point.Latitude, &point.Longitude, &point.City, &point.County, &point.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get point: %w", err)
	}

	return point, nil
}

// ListFiltered returns points matching every filter that is set. The join
// means a point with no associations never appears, which the create
// invariant already rules out.
func (s *PointStore) ListFiltered(ctx context.Context, f Filter) ([]*domain.Point, error) {
	query := `
		SELECT DISTINCT p.id, p.image, p.name, p.email, p.whatsapp,
		       p.latitude, p.longitude, p.city, p.county, p.created_at
		FROM points p
		JOIN point_items pi ON pi.point_id = p.id
	`

	var conds []string
	var args []any
	if f.County != "" {
		conds = append(conds, "p.county = ?")
		args = append(args, f.County)
	}
	if f.City != "" {
		conds = append(conds, "p.city = ?")
		args = append(args, f.City)
	}
	if f.ItemID != 0 {
		conds = append(conds, "pi.item_id = ?")
		args = append(args, f.ItemID)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY p.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list points: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var points []*domain.Point
	for rows.Next() {
		point := &domain.Point{}
		if err := rows.Scan(
			&point.ID, &point.Image, &point.Name, &point.Email, &point.Whatsapp,
			&point.Latitude, &point.Longitude, &point.City, &point.County, &point.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		points = append(points, point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating points: %w", err)
	}

	return points, nil
}

// dedupe collapses duplicate ids while preserving first-seen order.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
