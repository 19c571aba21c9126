package cliparse

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ADMIN_PIN", "a")
	t.Setenv("JUDGE_A_PIN", "b")
	t.Setenv("JUDGE_B_PIN", "c")
	t.Setenv("ROLE_TOKEN_SALT", "s")
	t.Setenv("DATABASE_URL", "contest.db")
}

func TestParseFlagsDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.StoreMode != StoreDB {
		t.Errorf("StoreMode = %q, want %q", cfg.StoreMode, StoreDB)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("DatabaseType = %q, want sqlite", cfg.DatabaseType)
	}
	if cfg.MaxUploadBytes != 50*1024*1024 {
		t.Errorf("MaxUploadBytes = %d, want 50 MiB", cfg.MaxUploadBytes)
	}
	if cfg.ConfirmInterval != 1500*time.Millisecond {
		t.Errorf("ConfirmInterval = %v, want 1.5s", cfg.ConfirmInterval)
	}
	if cfg.ConfirmTimeout != 45*time.Second {
		t.Errorf("ConfirmTimeout = %v, want 45s", cfg.ConfirmTimeout)
	}
	if cfg.ConfirmTimeoutVideo != 180*time.Second {
		t.Errorf("ConfirmTimeoutVideo = %v, want 180s", cfg.ConfirmTimeoutVideo)
	}
	if cfg.JudgeAName != "Judge A" || cfg.JudgeBName != "Judge B" {
		t.Errorf("judge names = %q/%q, want defaults", cfg.JudgeAName, cfg.JudgeBName)
	}
}

func TestParseFlagsCLIOverridesEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "3000", "-t", "postgres"})
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want CLI value 3000", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("DatabaseType = %q, want postgres", cfg.DatabaseType)
	}
}

func TestParseFlagsMissingSecrets(t *testing.T) {
	tests := []struct {
		name string
		omit string
	}{
		{"missing admin pin", "ADMIN_PIN"},
		{"missing judge A pin", "JUDGE_A_PIN"},
		{"missing judge B pin", "JUDGE_B_PIN"},
		{"missing role salt", "ROLE_TOKEN_SALT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.omit, "")

			if _, err := ParseFlags(nil); err == nil {
				t.Errorf("ParseFlags() accepted config without %s", tt.omit)
			}
		})
	}
}

func TestParseFlagsStoreModes(t *testing.T) {
	setRequiredEnv(t)

	t.Run("remote mode requires URL", func(t *testing.T) {
		if _, err := ParseFlags([]string{"-store", "remote"}); err == nil {
			t.Error("ParseFlags() accepted remote mode without REMOTE_STORE_URL")
		}
	})

	t.Run("remote mode with URL", func(t *testing.T) {
		t.Setenv("REMOTE_STORE_URL", "https://example.com/exec")
		cfg, err := ParseFlags([]string{"-store", "remote"})
		if err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}
		if cfg.RemoteURL != "https://example.com/exec" {
			t.Errorf("RemoteURL = %q", cfg.RemoteURL)
		}
	})

	t.Run("sheets mode requires spreadsheet", func(t *testing.T) {
		if _, err := ParseFlags([]string{"-store", "sheets"}); err == nil {
			t.Error("ParseFlags() accepted sheets mode without SPREADSHEET_ID")
		}
	})

	t.Run("unknown mode rejected", func(t *testing.T) {
		_, err := ParseFlags([]string{"-store", "carrier-pigeon"})
		if err == nil || !strings.Contains(err.Error(), "store mode") {
			t.Errorf("ParseFlags() error = %v, want unknown store mode", err)
		}
	})
}

func TestParseFlagsInvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "not-a-number")

	if _, err := ParseFlags(nil); err == nil {
		t.Error("ParseFlags() accepted invalid PORT")
	}
}
