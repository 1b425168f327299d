package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
)

// Extraction backends
const (
	ExtractorOpenRouter = "openrouter"
	ExtractorMLX        = "mlx"
)

// Assistant backends
const (
	AssistantOpenRouter = "openrouter"
	AssistantGigaChat   = "gigachat"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         int
	MaxWorkers   int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxUploadMB  int64
	CORSOrigins  []string

	// Logging configuration
	LogLevel  string
	LogFormat string

	// Extraction configuration
	Extractor         string
	OpenRouterAPIKey  string
	OpenRouterModelID string
	OpenRouterTimeout time.Duration
	MLXBaseURL        string
	MLXTimeout        time.Duration

	// Assistant configuration
	Assistant             string
	OpenRouterChatModelID string
	GigaChatAPIKey        string
	GigaChatScope         string
	GigaChatSkipTLSVerify bool

	// Storage configuration
	S3Endpoint        string
	S3AccessKeyID     string
	S3AccessKeySecret string
	S3Bucket          string
	S3Region          string

	// Insights configuration
	ValidatedProviders []string
	AlertLocale        string
	SeedDemoData       bool
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	// Get the executable directory
	execPath, err := os.Executable()
	if err != nil {
		log.Printf("Warning: Could not determine executable path: %v", err)
	}

	// Determine project root directory
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(execPath)))
	envPath := filepath.Join(projectRoot, ".env")

	// Load .env file if it exists
	if err := godotenv.Load(envPath); err != nil {
		// Try loading from current directory as fallback
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading .env file. Using environment variables.")
		} else {
			log.Println("Loaded environment variables from current directory .env file")
		}
	} else {
		log.Printf("Loaded environment variables from %s", envPath)
	}

	config := FromEnv()

	// Validate critical configuration
	validateConfig(config)

	return config, nil
}

// FromEnv builds the configuration from the current process environment
func FromEnv() *Config {
	return &Config{
		// Server configuration
		Port:         getEnvInt("PORT", 8080),
		MaxWorkers:   getEnvInt("MAX_WORKERS", 5),
		ReadTimeout:  time.Duration(getEnvInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvInt("WRITE_TIMEOUT", 120)) * time.Second,
		MaxUploadMB:  int64(getEnvInt("MAX_UPLOAD_MB", 10)),
		CORSOrigins:  getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		// Logging configuration
		LogLevel:  getEnvString("LOG_LEVEL", "info"),
		LogFormat: getEnvString("LOG_FORMAT", "json"),

		// Extraction configuration
		Extractor:         strings.ToLower(getEnvString("EXTRACTOR", ExtractorOpenRouter)),
		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModelID: getEnvString("OPENROUTER_MODEL_ID", "google/gemini-2.5-flash"),
		OpenRouterTimeout: time.Duration(getEnvInt("OPENROUTER_TIMEOUT", 60)) * time.Second,
		MLXBaseURL:        getEnvString("MLX_BASE_URL", "http://localhost:8000"),
		MLXTimeout:        time.Duration(getEnvInt("MLX_TIMEOUT", 300)) * time.Second,

		// Assistant configuration
		Assistant:             strings.ToLower(getEnvString("ASSISTANT", AssistantOpenRouter)),
		OpenRouterChatModelID: getEnvString("OPENROUTER_CHAT_MODEL_ID", "google/gemini-2.5-flash"),
		GigaChatAPIKey:        os.Getenv("GIGACHAT_API_KEY"),
		GigaChatScope:         getEnvString("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
		GigaChatSkipTLSVerify: getEnvBool("GIGACHAT_INSECURE_SKIP_VERIFY", false),

		// Storage configuration
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3AccessKeySecret: os.Getenv("S3_ACCESS_KEY_SECRET"),
		S3Bucket:          getEnvString("S3_BUCKET", "invoices"),
		S3Region:          getEnvString("S3_REGION", "us-east-1"),

		// Insights configuration
		ValidatedProviders: getEnvStringSlice("VALIDATED_PROVIDERS", domain.DefaultValidatedProviders),
		AlertLocale:        getEnvString("ALERT_LOCALE", "es"),
		SeedDemoData:       getEnvBool("SEED_DEMO_DATA", false),
	}
}

// StorageEnabled reports whether S3 archiving is fully configured
func (c *Config) StorageEnabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKeyID != "" && c.S3AccessKeySecret != "" && c.S3Bucket != ""
}

// MaxUploadBytes returns the upload limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}

// validateConfig checks if critical configuration values are set and logs warnings if they're missing
func validateConfig(config *Config) {
	if config.Extractor != ExtractorOpenRouter && config.Extractor != ExtractorMLX {
		log.Printf("Warning: Unknown EXTRACTOR %q, falling back to %s.", config.Extractor, ExtractorOpenRouter)
		config.Extractor = ExtractorOpenRouter
	}

	if config.Assistant != AssistantOpenRouter && config.Assistant != AssistantGigaChat {
		log.Printf("Warning: Unknown ASSISTANT %q, falling back to %s.", config.Assistant, AssistantOpenRouter)
		config.Assistant = AssistantOpenRouter
	}

	// Check if OpenRouter API key is provided
	if config.OpenRouterAPIKey == "" && (config.Extractor == ExtractorOpenRouter || config.Assistant == AssistantOpenRouter) {
		log.Println("Warning: No OpenRouter API key provided. API requests will fail.")
	}

	if config.Assistant == AssistantGigaChat && config.GigaChatAPIKey == "" {
		log.Println("Warning: No GigaChat API key provided. Chat requests will fail.")
	}

	// The MLX service fetches documents by URL, so it needs the archive
	if config.Extractor == ExtractorMLX && !config.StorageEnabled() {
		log.Println("Warning: MLX extractor selected without S3 storage. Extraction will fail.")
	}

	if config.MaxWorkers <= 0 {
		config.MaxWorkers = 5
	}

	if config.MaxUploadMB <= 0 {
		config.MaxUploadMB = 10
	}
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvBool gets a boolean from an environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	valueStr = strings.ToLower(valueStr)
	return valueStr == "true" || valueStr == "1" || valueStr == "yes"
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvStringSlice gets a string slice from a comma-separated environment variable
func getEnvStringSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
