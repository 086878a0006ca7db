package main

import (
	"log"
	"log/slog"

	"ecopontos/internal/config"
	"ecopontos/internal/db"
	"ecopontos/internal/imagestore/local"
	"ecopontos/internal/logging"
	"ecopontos/internal/service"
	"ecopontos/internal/store"
	"ecopontos/internal/suggest"
	claudesuggest "ecopontos/internal/suggest/claude"
	ollamasuggest "ecopontos/internal/suggest/ollama"
	"ecopontos/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	images, err := local.NewLocalStore(cfg.UploadPath)
	if err != nil {
		logger.Error("failed to initialize image store", "error", err)
		return
	}

	pointStore := store.NewPointStore(database)
	itemStore := store.NewItemStore(database)

	registration := service.NewRegistrationService(pointStore, images, logger)
	query := service.NewQueryService(pointStore, itemStore, cfg.PublicBaseURL)
	suggestions := service.NewSuggestionService(newAnalyzer(cfg, logger), itemStore, logger)

	server := web.NewServer(registration, query, suggestions, images, cfg.AssetsPath, logger)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

// newAnalyzer returns nil when suggestions are disabled; the service then
// rejects suggestion requests.
func newAnalyzer(cfg *config.Config, logger *slog.Logger) suggest.Analyzer {
	switch cfg.SuggestBackend {
	case "claude":
		if cfg.AnthropicKey == "" {
			logger.Error("ANTHROPIC_API_KEY is required when SUGGEST_BACKEND=claude")
			return nil
		}
		logger.Info("using Claude suggestion backend")
		return claudesuggest.New(cfg.AnthropicKey, cfg.AnthropicModel)
	case "ollama":
		logger.Info("using Ollama suggestion backend", "model", cfg.OllamaModel)
		return ollamasuggest.New(cfg.OllamaHost, cfg.OllamaModel)
	default:
		logger.Info("item suggestions disabled")
		return nil
	}
}
