package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, int64(DefaultMaxUploadBytes), cfg.MaxUploadBytes)
	require.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_BUCKET", "uploads")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")

	cfg := Load()

	require.Equal(t, "9090", cfg.Port)
	require.True(t, cfg.IsProduction())
	require.Equal(t, "uploads", cfg.StorageBucket)
	require.Equal(t, int64(1<<20), cfg.MaxUploadBytes)
}

func TestMaxUploadBytesFallsBackOnBadValue(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "not a number", value: "ten"},
		{name: "zero", value: "0"},
		{name: "negative", value: "-5"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("MAX_UPLOAD_BYTES", tc.value)
			cfg := Load()
			require.Equal(t, int64(DefaultMaxUploadBytes), cfg.MaxUploadBytes)
		})
	}
}
