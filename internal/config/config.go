package config

import "os"

type Config struct {
	ListenAddr     string
	DBPath         string
	UploadPath     string
	AssetsPath     string
	PublicBaseURL  string
	SuggestBackend string
	OllamaHost     string
	OllamaModel    string
	AnthropicKey   string
	AnthropicModel string
	LogLevel       string
	LogFile        string
}

func Load() *Config {
	return &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		DBPath:         getEnv("DB_PATH", "/data/ecopontos.db"),
		UploadPath:     getEnv("UPLOAD_PATH", "/data/uploads"),
		AssetsPath:     getEnv("ASSETS_PATH", "/data/assets"),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		SuggestBackend: getEnv("SUGGEST_BACKEND", "none"),
		OllamaHost:     getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:    getEnv("OLLAMA_MODEL", "moondream"),
		AnthropicKey:   getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel: getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
