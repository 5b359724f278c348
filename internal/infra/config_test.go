package infra

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: data/test.db
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %s, want :8080", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("read timeout = %s, want 10s", cfg.Server.ReadTimeout)
	}
	if cfg.Locking.AcquireTimeout != 5*time.Second {
		t.Errorf("lock timeout = %s, want 5s", cfg.Locking.AcquireTimeout)
	}
	if cfg.Seed.CashSize != "10000" {
		t.Errorf("seed cash = %s, want 10000", cfg.Seed.CashSize)
	}
}

func TestLoadConfigExplicitValues(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
  read_timeout: 3s
database:
  path: /tmp/orders.db
locking:
  acquire_timeout: 2s
seed:
  enabled: true
  customers: 5
  cash_size: "2500"
logging:
  level: debug
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %s, want :9090", cfg.Server.Addr)
	}
	if cfg.Locking.AcquireTimeout != 2*time.Second {
		t.Errorf("lock timeout = %s, want 2s", cfg.Locking.AcquireTimeout)
	}
	if cfg.Seed.Customers != 5 || cfg.Seed.CashSize != "2500" {
		t.Errorf("seed = %d/%s, want 5/2500", cfg.Seed.Customers, cfg.Seed.CashSize)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  path: data/test.db
`)

	t.Setenv("BROKERAGE_ADDR", ":7070")
	t.Setenv("BROKERAGE_DB_PATH", "/tmp/override.db")
	t.Setenv("BROKERAGE_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Addr != ":7070" {
		t.Errorf("addr = %s, want :7070", cfg.Server.Addr)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("db path = %s, want /tmp/override.db", cfg.Database.Path)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level = %s, want warn", cfg.Logging.Level)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing db path", `
logging:
  level: info
`},
		{"bad log level", `
database:
  path: data/test.db
logging:
  level: verbose
`},
		{"seeding without customers", `
database:
  path: data/test.db
seed:
  enabled: true
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tc.content)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
