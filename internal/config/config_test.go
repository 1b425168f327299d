package config

import (
	"testing"
	"time"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "MAX_WORKERS", "EXTRACTOR", "ASSISTANT", "VALIDATED_PROVIDERS", "SEED_DEMO_DATA", "S3_ENDPOINT"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 5, cfg.MaxWorkers)
	assert.Equal(t, ExtractorOpenRouter, cfg.Extractor)
	assert.Equal(t, AssistantOpenRouter, cfg.Assistant)
	assert.Equal(t, domain.DefaultValidatedProviders, cfg.ValidatedProviders)
	assert.Equal(t, 60*time.Second, cfg.OpenRouterTimeout)
	assert.False(t, cfg.SeedDemoData)
	assert.False(t, cfg.StorageEnabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_WORKERS", "not-a-number")
	t.Setenv("EXTRACTOR", "MLX")
	t.Setenv("VALIDATED_PROVIDERS", " Maersk , ,MSC")
	t.Setenv("SEED_DEMO_DATA", "yes")
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("S3_ENDPOINT", "https://example.supabase.co")
	t.Setenv("S3_ACCESS_KEY_ID", "id")
	t.Setenv("S3_ACCESS_KEY_SECRET", "secret")

	cfg := FromEnv()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 5, cfg.MaxWorkers)
	assert.Equal(t, ExtractorMLX, cfg.Extractor)
	assert.Equal(t, []string{"Maersk", "MSC"}, cfg.ValidatedProviders)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, int64(2*1024*1024), cfg.MaxUploadBytes())
	assert.True(t, cfg.StorageEnabled())
}

func TestValidateConfig_FallsBackOnUnknownBackends(t *testing.T) {
	cfg := &Config{Extractor: "tesseract", Assistant: "eliza", MaxWorkers: 0}

	validateConfig(cfg)

	assert.Equal(t, ExtractorOpenRouter, cfg.Extractor)
	assert.Equal(t, AssistantOpenRouter, cfg.Assistant)
	assert.Equal(t, 5, cfg.MaxWorkers)
	assert.Equal(t, int64(10), cfg.MaxUploadMB)
}
