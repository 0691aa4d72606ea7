package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}

	if cfg.SMTP.Host != "smtp.example.com" {
		t.Fatalf("unexpected SMTP host: %q", cfg.SMTP.Host)
	}

	if cfg.SMTP.Port != 465 {
		t.Fatalf("expected default SMTP port 465, got %d", cfg.SMTP.Port)
	}

	if got := cfg.RateLimit.Window; got != 10*time.Minute {
		t.Fatalf("expected rate limit window 10m, got %v", got)
	}

	if cfg.Mail.AdminEmail != "ops@example.com" {
		t.Fatalf("unexpected admin email %q", cfg.Mail.AdminEmail)
	}
}

func TestLoad_AdminEmailFallback(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAdminEmail); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAdminEmail, err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Mail.AdminEmail != DefaultAdminEmail {
		t.Fatalf("expected fallback admin email, got %q", cfg.Mail.AdminEmail)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoadClient_Defaults(t *testing.T) {
	t.Setenv(EnvRelayURL, "https://quotes.example.com/")
	t.Setenv(EnvRelayTimeout, "5s")

	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient() returned unexpected error: %v", err)
	}
	if got := cfg.Relay.Endpoint(); got != "https://quotes.example.com/api/send-order" {
		t.Fatalf("unexpected endpoint %q", got)
	}
	if cfg.Relay.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.Relay.Timeout)
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvAdminEmail, "ops@example.com")
	t.Setenv(EnvSMTPServer, "smtp.example.com")
	t.Setenv(EnvSenderEmail, "quotes@example.com")
	t.Setenv(EnvSenderPass, "secret")
}

func TestSMTPConfigured(t *testing.T) {
	if (SMTPConfig{}).Configured() {
		t.Fatal("empty smtp config should not be configured")
	}
	if !(SMTPConfig{Host: "smtp.example.com", SenderEmail: "a@b.co"}).Configured() {
		t.Fatal("expected configured smtp")
	}
}
