package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ecopontos/internal/domain"
	"ecopontos/internal/suggest"
)

// ErrSuggestionsDisabled is returned when no vision backend is configured.
var ErrSuggestionsDisabled = errors.New("item suggestions are not configured")

// catalogLister is the subset of store.ItemStore that SuggestionService requires.
type catalogLister interface {
	List(ctx context.Context) ([]domain.Item, error)
}

// SuggestionService maps a collection-point photo to the catalog items the
// pictured location appears to accept. The analyzer may be nil, in which case
// every call fails with ErrSuggestionsDisabled.
type SuggestionService struct {
	analyzer suggest.Analyzer
	items    catalogLister
	logger   *slog.Logger
}

func NewSuggestionService(analyzer suggest.Analyzer, items catalogLister, logger *slog.Logger) *SuggestionService {
	return &SuggestionService{analyzer: analyzer, items: items, logger: logger}
}

func (s *SuggestionService) SuggestItems(ctx context.Context, imageData []byte, mimeType string) ([]domain.Item, error) {
	if s.analyzer == nil {
		return nil, ErrSuggestionsDisabled
	}

	catalog, err := s.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	titles := make([]string, len(catalog))
	byTitle := make(map[string]domain.Item, len(catalog))
	for i, item := range catalog {
		titles[i] = item.Title
		byTitle[item.Title] = item
	}

	s.logger.Info("suggestion analysis started", "mime_type", mimeType, "bytes", len(imageData))
	matches, err := s.analyzer.Suggest(ctx, bytes.NewReader(imageData), mimeType, titles)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze image: %w", err)
	}
	s.logger.Info("suggestion analysis complete", "matches", len(matches))

	items := make([]domain.Item, 0, len(matches))
	for _, title := range matches {
		items = append(items, byTitle[title])
	}
	return items, nil
}
