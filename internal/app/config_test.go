package app

import (
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoadConfig(t *testing.T) {
	// Save original environment
	originalDataDir := os.Getenv("WR_DATA_DIR")
	originalListenAddr := os.Getenv("WR_LISTEN_ADDR")
	originalArchiveURL := os.Getenv("WR_ARCHIVE_URL")
	originalOrigins := os.Getenv("WR_ALLOWED_ORIGINS")
	originalCredentialsFile := os.Getenv("GOOGLE_CREDENTIALS_FILE")

	// Cleanup function
	defer func() {
		setOrUnset("WR_DATA_DIR", originalDataDir)
		setOrUnset("WR_LISTEN_ADDR", originalListenAddr)
		setOrUnset("WR_ARCHIVE_URL", originalArchiveURL)
		setOrUnset("WR_ALLOWED_ORIGINS", originalOrigins)
		setOrUnset("GOOGLE_CREDENTIALS_FILE", originalCredentialsFile)
	}()

	t.Run("ValidConfiguration", func(t *testing.T) {
		dir := t.TempDir()
		os.Setenv("WR_DATA_DIR", dir)
		os.Setenv("WR_LISTEN_ADDR", ":9090")
		os.Setenv("WR_ARCHIVE_URL", "https://archive.example.com")
		os.Setenv("GOOGLE_CREDENTIALS_FILE", "test_credentials.json")

		config, err := LoadConfig()

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if config.DataDir != dir {
			t.Errorf("Expected DataDir to be '%s', got '%s'", dir, config.DataDir)
		}

		if config.ListenAddr != ":9090" {
			t.Errorf("Expected ListenAddr to be ':9090', got '%s'", config.ListenAddr)
		}

		if config.ArchiveBaseURL != "https://archive.example.com" {
			t.Errorf("Expected ArchiveBaseURL to be set, got '%s'", config.ArchiveBaseURL)
		}

		if config.CredentialsFile != "test_credentials.json" {
			t.Errorf("Expected CredentialsFile to be 'test_credentials.json', got '%s'", config.CredentialsFile)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		dir := t.TempDir()
		os.Setenv("WR_DATA_DIR", dir)
		os.Unsetenv("WR_LISTEN_ADDR")
		os.Unsetenv("GOOGLE_CREDENTIALS_FILE")
		os.Unsetenv("WR_ALLOWED_ORIGINS")

		config, err := LoadConfig()

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if config.ListenAddr != ":8080" {
			t.Errorf("Expected ListenAddr to default to ':8080', got '%s'", config.ListenAddr)
		}

		if config.CredentialsFile != "credentials.json" {
			t.Errorf("Expected CredentialsFile to default to 'credentials.json', got '%s'", config.CredentialsFile)
		}

		if len(config.AllowedOrigins) != 1 || config.AllowedOrigins[0] != "*" {
			t.Errorf("Expected AllowedOrigins to default to wildcard, got %v", config.AllowedOrigins)
		}
	})

	t.Run("OriginListParsed", func(t *testing.T) {
		dir := t.TempDir()
		os.Setenv("WR_DATA_DIR", dir)
		os.Setenv("WR_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

		config, err := LoadConfig()

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if len(config.AllowedOrigins) != 2 || config.AllowedOrigins[1] != "https://b.example.com" {
			t.Errorf("Expected two parsed origins, got %v", config.AllowedOrigins)
		}
	})

	t.Run("MissingDataDir", func(t *testing.T) {
		os.Setenv("WR_DATA_DIR", "/definitely/not/a/real/path")

		_, err := LoadConfig()

		if err == nil {
			t.Fatal("Expected error for inaccessible data directory, got nil")
		}

		if !strings.Contains(err.Error(), "data directory") {
			t.Errorf("Expected error message to mention the data directory, got '%s'", err.Error())
		}
	})
}

func TestSetupEnvironment(t *testing.T) {
	// Save original environment
	originalENV := os.Getenv("ENV")
	originalLOGLEVEL := os.Getenv("LOGLEVEL")
	originalLevel := zerolog.GlobalLevel()

	// Cleanup function
	defer func() {
		setOrUnset("ENV", originalENV)
		setOrUnset("LOGLEVEL", originalLOGLEVEL)
		zerolog.SetGlobalLevel(originalLevel)
	}()

	testCases := []struct {
		name          string
		env           string
		logLevel      string
		expectedLevel zerolog.Level
	}{
		{"ProductionDebug", "production", "debug", zerolog.DebugLevel},
		{"ProductionWarn", "production", "warn", zerolog.WarnLevel},
		{"ProductionError", "production", "error", zerolog.ErrorLevel},
		{"ProductionDisabled", "production", "disabled", zerolog.Disabled},
		{"ProductionDefault", "production", "", zerolog.WarnLevel},
		{"ProductionUnknown", "production", "unknown", zerolog.InfoLevel},
		{"DevelopmentDebug", "development", "debug", zerolog.DebugLevel},
		{"DevelopmentDefault", "development", "", zerolog.InfoLevel},
		{"DevelopmentUnknown", "", "unknown", zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setOrUnset("ENV", tc.env)
			setOrUnset("LOGLEVEL", tc.logLevel)

			SetupEnvironment()

			if zerolog.GlobalLevel() != tc.expectedLevel {
				t.Errorf("Expected log level %v, got %v", tc.expectedLevel, zerolog.GlobalLevel())
			}
		})
	}
}

func setOrUnset(key, value string) {
	if value == "" {
		os.Unsetenv(key)
	} else {
		os.Setenv(key, value)
	}
}
