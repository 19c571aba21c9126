package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store mode constants
const (
	StoreDB     = "db"
	StoreRemote = "remote"
	StoreSheets = "sheets"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	StoreMode string

	// Remote store (spreadsheet-backed HTTP endpoint)
	RemoteURL string

	// Sheets store
	SpreadsheetID      string
	ServiceAccountJSON string

	// Local media blobs
	MediaDir      string
	BasePublicURL string

	// Role secrets
	AdminPin  string
	JudgeAPin string
	JudgeBPin string

	// Signs the persisted role cookie
	RoleTokenSalt string

	// Judge display names used in status text
	JudgeAName string
	JudgeBName string

	// Upload limits and confirmation polling
	MaxUploadBytes      int64
	ConfirmInterval     time.Duration
	ConfirmTimeout      time.Duration
	ConfirmTimeoutVideo time.Duration
}

// ParseFlags validates flags with environment-variable fallback.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("stage-score", flag.ContinueOnError)

	// Network and storage config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.StoreMode, "store", "", "Entry store backend (db, remote, or sheets)")
	fs.StringVar(&cfg.RemoteURL, "remote-url", "", "Remote entry store endpoint URL")
	fs.StringVar(&cfg.SpreadsheetID, "spreadsheet", "", "Google Sheets spreadsheet ID")
	fs.StringVar(&cfg.MediaDir, "media-dir", "", "Directory for uploaded media blobs")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminPin, "admin-pin", "", "Admin login PIN (prefer env)")
	fs.StringVar(&cfg.JudgeAPin, "judge-a-pin", "", "Judge A login PIN (prefer env)")
	fs.StringVar(&cfg.JudgeBPin, "judge-b-pin", "", "Judge B login PIN (prefer env)")
	fs.StringVar(&cfg.RoleTokenSalt, "role-salt", "", "Role cookie signing salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8080 // default
		}
	}

	if cfg.StoreMode == "" {
		cfg.StoreMode = os.Getenv("STORE_MODE")
		if cfg.StoreMode == "" {
			cfg.StoreMode = StoreDB
		}
	}
	switch cfg.StoreMode {
	case StoreDB, StoreRemote, StoreSheets:
	default:
		return Config{}, fmt.Errorf("unknown store mode %q (want db, remote, or sheets)", cfg.StoreMode)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.StoreMode == StoreDB && cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}

	if cfg.RemoteURL == "" {
		cfg.RemoteURL = os.Getenv("REMOTE_STORE_URL")
	}
	if cfg.StoreMode == StoreRemote && cfg.RemoteURL == "" {
		return Config{}, errors.New("REMOTE_STORE_URL required for remote store mode")
	}

	if cfg.SpreadsheetID == "" {
		cfg.SpreadsheetID = os.Getenv("SPREADSHEET_ID")
	}
	cfg.ServiceAccountJSON = os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")
	if cfg.StoreMode == StoreSheets {
		if cfg.SpreadsheetID == "" {
			return Config{}, errors.New("SPREADSHEET_ID required for sheets store mode")
		}
		if cfg.ServiceAccountJSON == "" {
			return Config{}, errors.New("GOOGLE_SERVICE_ACCOUNT_JSON required for sheets store mode")
		}
	}

	if cfg.MediaDir == "" {
		cfg.MediaDir = os.Getenv("MEDIA_DIR")
		if cfg.MediaDir == "" {
			cfg.MediaDir = "media"
		}
	}

	cfg.BasePublicURL = os.Getenv("BASE_PUBLIC_URL")

	// Secrets - MUST be provided
	if cfg.AdminPin == "" {
		cfg.AdminPin = os.Getenv("ADMIN_PIN")
	}
	if cfg.AdminPin == "" {
		return Config{}, errors.New("ADMIN_PIN required")
	}

	if cfg.JudgeAPin == "" {
		cfg.JudgeAPin = os.Getenv("JUDGE_A_PIN")
	}
	if cfg.JudgeAPin == "" {
		return Config{}, errors.New("JUDGE_A_PIN required")
	}

	if cfg.JudgeBPin == "" {
		cfg.JudgeBPin = os.Getenv("JUDGE_B_PIN")
	}
	if cfg.JudgeBPin == "" {
		return Config{}, errors.New("JUDGE_B_PIN required")
	}

	if cfg.RoleTokenSalt == "" {
		cfg.RoleTokenSalt = os.Getenv("ROLE_TOKEN_SALT")
	}
	if cfg.RoleTokenSalt == "" {
		return Config{}, errors.New("ROLE_TOKEN_SALT required")
	}

	cfg.JudgeAName = os.Getenv("JUDGE_A_NAME")
	if cfg.JudgeAName == "" {
		cfg.JudgeAName = "Judge A"
	}
	cfg.JudgeBName = os.Getenv("JUDGE_B_NAME")
	if cfg.JudgeBName == "" {
		cfg.JudgeBName = "Judge B"
	}

	cfg.MaxUploadBytes = 50 * 1024 * 1024
	if raw := os.Getenv("MAX_UPLOAD_BYTES"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, errors.New("invalid MAX_UPLOAD_BYTES env variable")
		}
		cfg.MaxUploadBytes = n
	}

	cfg.ConfirmInterval = durationEnv("CONFIRM_INTERVAL", 1500*time.Millisecond)
	cfg.ConfirmTimeout = durationEnv("CONFIRM_TIMEOUT", 45*time.Second)
	cfg.ConfirmTimeoutVideo = durationEnv("CONFIRM_TIMEOUT_VIDEO", 180*time.Second)

	return cfg, nil
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
