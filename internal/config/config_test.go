package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"allgroub-ledger/internal/domain/dashboard"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "MYSQL_HOST", "IDEMPOTENCY_TTL_SECONDS", "REDIS_DB", "TIMEZONE"} {
		t.Setenv(k, "")
	}
	c := Load(filepath.Join(t.TempDir(), "missing.env"))
	if c.AppPort != "8080" || c.MySQLHost != "mysql" || c.IdempTTLSecs != 300 || c.RedisDB != 0 {
		t.Fatalf("defaults = %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if got := c.IdempotencyTTL().Seconds(); got != 300 {
		t.Fatalf("ttl = %v", got)
	}
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	body := "LEDGER_TEST_FROM_FILE=file\nLEDGER_TEST_SHADOWED=file\n"
	if err := os.WriteFile(file, []byte(body), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("LEDGER_TEST_SHADOWED", "env")
	t.Cleanup(func() { os.Unsetenv("LEDGER_TEST_FROM_FILE") })

	Load(file)
	if got := os.Getenv("LEDGER_TEST_FROM_FILE"); got != "file" {
		t.Fatalf("from file = %q", got)
	}
	if got := os.Getenv("LEDGER_TEST_SHADOWED"); got != "env" {
		t.Fatalf("shadowed = %q", got)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REDIS_DB", "3")
	t.Setenv("IDEMPOTENCY_TTL_SECONDS", "notanumber")
	t.Setenv("MYSQL_USER", "alice")
	t.Setenv("MYSQL_PASS", "pw")
	t.Setenv("MYSQL_HOST", "db")
	t.Setenv("MYSQL_PORT", "3307")
	t.Setenv("MYSQL_DB", "ledger")

	c := Load(filepath.Join(t.TempDir(), "missing.env"))
	if c.RedisDB != 3 || c.IdempTTLSecs != 300 {
		t.Fatalf("cfg = %+v", c)
	}
	want := "alice:pw@tcp(db:3307)/ledger?multiStatements=true&parseTime=true&charset=utf8mb4,utf8"
	if got := c.MySQLDSN(); got != want {
		t.Fatalf("dsn = %q", got)
	}
}

func TestProfit(t *testing.T) {
	c := &Config{InstallmentInvestorSharePct: "70", GraceInvestorSharePct: "62.5", SalaryRepaymentPct: "40"}
	p, err := c.Profit()
	if err != nil {
		t.Fatalf("Profit: %v", err)
	}
	if !p.GraceInvestorSharePct.Equal(decimal.RequireFromString("62.5")) {
		t.Fatalf("grace = %s", p.GraceInvestorSharePct)
	}

	c.SalaryRepaymentPct = "140"
	if _, err := c.Profit(); !errors.Is(err, dashboard.ErrInvalidConfig) {
		t.Fatalf("want ErrInvalidConfig, got %v", err)
	}
	c.SalaryRepaymentPct = "forty"
	if _, err := c.Profit(); err == nil {
		t.Fatal("want parse error")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			AppPort: "8080", Timezone: "UTC",
			MySQLHost: "db", MySQLPort: "3306", MySQLDB: "ledger", MySQLUser: "u",
			IdempTTLSecs:                300,
			InstallmentInvestorSharePct: "70", GraceInvestorSharePct: "60", SalaryRepaymentPct: "40",
		}
	}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing host", func(c *Config) { c.MySQLHost = "" }},
		{"bad port", func(c *Config) { c.MySQLPort = "not-a-port" }},
		{"missing app port", func(c *Config) { c.AppPort = "" }},
		{"zero ttl", func(c *Config) { c.IdempTTLSecs = 0 }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"bad share", func(c *Config) { c.GraceInvestorSharePct = "-1" }},
	}
	if err := base().Validate(); err != nil {
		t.Fatalf("base config: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
