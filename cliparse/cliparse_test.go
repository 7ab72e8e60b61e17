// cliparse/cliparse_test.go
package cliparse

import (
	"testing"
)

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("LIVE_SEND_BUFFER", "32")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.JWTSecret != "test-secret" {
		t.Errorf("expected secret from env, got %q", cfg.JWTSecret)
	}
	if cfg.SendBuffer != 32 {
		t.Errorf("expected send buffer 32, got %d", cfg.SendBuffer)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-jwt-secret", "cli-secret", "-send-buffer", "4"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.JWTSecret != "cli-secret" {
		t.Errorf("CLI should override env: got secret %q", cfg.JWTSecret)
	}
	if cfg.SendBuffer != 4 {
		t.Errorf("expected send buffer 4, got %d", cfg.SendBuffer)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("LIVE_SEND_BUFFER", "")
	t.Setenv("MINT_TOKEN", "")
	t.Setenv("JWT_SECRET", "s")

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" || cfg.DatabaseURL != DefaultSQLiteURL {
		t.Errorf("expected default sqlite database, got %s %s", cfg.DatabaseType, cfg.DatabaseURL)
	}
	if cfg.SendBuffer != 16 {
		t.Errorf("expected default send buffer 16, got %d", cfg.SendBuffer)
	}
	if cfg.MintToken != "" {
		t.Errorf("expected no mint token, got %q", cfg.MintToken)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing secret", map[string]string{"JWT_SECRET": ""}, nil},
		{"bad port", map[string]string{"JWT_SECRET": "s", "PORT": "abc"}, nil},
		{"postgres without url", map[string]string{"JWT_SECRET": "s", "DATABASE_URL": ""}, []string{"-t", "postgres"}},
		{"unknown type", map[string]string{"JWT_SECRET": "s"}, []string{"-t", "mysql"}},
		{"bad buffer", map[string]string{"JWT_SECRET": "s", "LIVE_SEND_BUFFER": "-1"}, nil},
		{"unknown flag", map[string]string{"JWT_SECRET": "s"}, []string{"-admin-salt", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", "")
			t.Setenv("DATABASE_TYPE", "")
			t.Setenv("LIVE_SEND_BUFFER", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
