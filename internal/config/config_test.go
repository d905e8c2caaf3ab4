package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredEnv() {
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!!")
	os.Setenv("DB_PASSWORD", "test")
	os.Setenv("EMAIL_FROM", "noreply@example.com")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv()
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	tests := []struct {
		name     string
		actual   time.Duration
		expected time.Duration
	}{
		{"SessionTokenExpiry", cfg.Auth.SessionTokenExpiry, 10 * 24 * time.Hour},
		{"VerificationTokenExpiry", cfg.Auth.VerificationTokenExpiry, 1 * time.Hour},
		{"ResetTokenExpiry", cfg.Auth.ResetTokenExpiry, 10 * time.Minute},
	}

	for _, tt := range tests {
		if tt.actual != tt.expected {
			t.Errorf("%s: got %v, want %v", tt.name, tt.actual, tt.expected)
		}
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port: got %s, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "sadhana_tracker" {
		t.Errorf("DB name: got %s, want sadhana_tracker", cfg.Database.Name)
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	os.Clearenv()
	os.Setenv("DB_PASSWORD", "test")
	os.Setenv("EMAIL_FROM", "noreply@example.com")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for missing JWT_SECRET")
	}
}

func TestLoad_WeakJWTSecretInProduction(t *testing.T) {
	setRequiredEnv()
	os.Setenv("ENV", "production")
	os.Setenv("JWT_SECRET", "short")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for short production secret")
	}
}

func TestLoad_CustomTokenExpiries(t *testing.T) {
	setRequiredEnv()
	os.Setenv("SESSION_TOKEN_EXPIRY", "24h")
	os.Setenv("VERIFICATION_TOKEN_EXPIRY", "30m")
	os.Setenv("RESET_TOKEN_EXPIRY", "5m")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Auth.SessionTokenExpiry != 24*time.Hour {
		t.Errorf("SessionTokenExpiry: got %v, want 24h", cfg.Auth.SessionTokenExpiry)
	}
	if cfg.Auth.VerificationTokenExpiry != 30*time.Minute {
		t.Errorf("VerificationTokenExpiry: got %v, want 30m", cfg.Auth.VerificationTokenExpiry)
	}
	if cfg.Auth.ResetTokenExpiry != 5*time.Minute {
		t.Errorf("ResetTokenExpiry: got %v, want 5m", cfg.Auth.ResetTokenExpiry)
	}
}

func TestLoad_FrontendURLTrailingSlash(t *testing.T) {
	setRequiredEnv()
	os.Setenv("FRONTEND_URL", "https://sadhana.example.com/")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Email.FrontendURL != "https://sadhana.example.com" {
		t.Errorf("FrontendURL: got %s, want trailing slash stripped", cfg.Email.FrontendURL)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "secret",
		Name:     "sadhana_tracker",
		SSLMode:  "disable",
	}

	want := "host=localhost port=5432 user=postgres password=secret dbname=sadhana_tracker sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
