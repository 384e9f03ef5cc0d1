package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
telegram:
  bot_token: "test_token"
database:
  path: "test.db"
bot:
  admin_id: 100
  allowed_user_ids: [100, 200]
  quick_replies:
    - "Got it"
    - "Will reply soon"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Telegram.BotToken != "test_token" {
		t.Errorf("expected bot_token test_token, got %s", cfg.Telegram.BotToken)
	}

	if cfg.Bot.AdminID != 100 {
		t.Errorf("expected admin_id 100, got %d", cfg.Bot.AdminID)
	}

	if len(cfg.Bot.QuickReplies) != 2 {
		t.Errorf("expected 2 quick replies, got %d", len(cfg.Bot.QuickReplies))
	}

	// defaults
	if cfg.Bot.RateLimitWindow != 3 {
		t.Errorf("expected default rate limit window 3, got %d", cfg.Bot.RateLimitWindow)
	}
	if cfg.Bot.RateLimitMessages != 1 {
		t.Errorf("expected default rate limit messages 1, got %d", cfg.Bot.RateLimitMessages)
	}
}

func TestLoadConfigEnvExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("TEST_RELAY_TOKEN", "secret_from_env")

	yamlContent := `
telegram:
  bot_token: "${TEST_RELAY_TOKEN}"
database:
  path: "test.db"
bot:
  admin_id: 5
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Telegram.BotToken != "secret_from_env" {
		t.Errorf("expected expanded token, got %s", cfg.Telegram.BotToken)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Telegram: TelegramConfig{BotToken: "token"},
				Database: DatabaseConfig{Path: "path"},
				Bot:      BotConfig{AdminID: 1},
			},
			wantErr: false,
		},
		{
			name: "missing token",
			cfg: Config{
				Telegram: TelegramConfig{BotToken: ""},
				Database: DatabaseConfig{Path: "path"},
				Bot:      BotConfig{AdminID: 1},
			},
			wantErr: true,
		},
		{
			name: "missing admin id",
			cfg: Config{
				Telegram: TelegramConfig{BotToken: "token"},
				Database: DatabaseConfig{Path: "path"},
			},
			wantErr: true,
		},
		{
			name: "missing database path",
			cfg: Config{
				Telegram: TelegramConfig{BotToken: "token"},
				Bot:      BotConfig{AdminID: 1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsAllowed(t *testing.T) {
	open := Config{Bot: BotConfig{AdminID: 1}}
	if !open.IsAllowed(42) {
		t.Error("empty allow-list should admit everyone")
	}

	restricted := Config{Bot: BotConfig{AdminID: 1, AllowedUserIDs: []int64{42}}}
	if !restricted.IsAllowed(42) {
		t.Error("listed user should be allowed")
	}
	if !restricted.IsAllowed(1) {
		t.Error("admin is always allowed")
	}
	if restricted.IsAllowed(43) {
		t.Error("unlisted user should be denied")
	}
}
