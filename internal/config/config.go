package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"allgroub-ledger/internal/domain/dashboard"
)

type Config struct {
	AppPort  string
	LogLevel string
	// Timezone anchors date-only inputs and the nightly recompute schedule.
	Timezone string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisPass string
	RedisDB   int

	IdempTTLSecs int

	// RecomputeCron is a robfig/cron spec; empty disables the scheduler.
	RecomputeCron string

	// SeedOfficeID is the office cmd/seeder fills.
	SeedOfficeID string

	InstallmentInvestorSharePct string
	GraceInvestorSharePct       string
	SalaryRepaymentPct          string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

// Load reads the environment, after merging an optional .env file (existing
// variables win).
func Load(files ...string) *Config {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}

	return &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),
		Timezone: getenv("TIMEZONE", "UTC"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "ledger"),
		MySQLUser: getenv("MYSQL_USER", "ledger"),
		MySQLPass: getenv("MYSQL_PASS", "ledger"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisPass: os.Getenv("REDIS_PASSWORD"),
		RedisDB:   getint("REDIS_DB", 0),

		IdempTTLSecs:  getint("IDEMPOTENCY_TTL_SECONDS", 300),
		RecomputeCron: getenv("RECOMPUTE_CRON", "0 2 * * *"),
		SeedOfficeID:  getenv("SEED_OFFICE_ID", "office-demo"),

		InstallmentInvestorSharePct: getenv("INSTALLMENT_INVESTOR_SHARE_PCT", "70"),
		GraceInvestorSharePct:       getenv("GRACE_INVESTOR_SHARE_PCT", "60"),
		SalaryRepaymentPct:          getenv("SALARY_REPAYMENT_PCT", "40"),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("invalid IDEMPOTENCY_TTL_SECONDS %d", c.IdempTTLSecs)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Profit(); err != nil {
		return err
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Profit parses the office-wide profit split percentages.
func (c *Config) Profit() (dashboard.Config, error) {
	var out dashboard.Config
	for _, f := range []struct {
		env string
		raw string
		dst *decimal.Decimal
	}{
		{"INSTALLMENT_INVESTOR_SHARE_PCT", c.InstallmentInvestorSharePct, &out.InstallmentInvestorSharePct},
		{"GRACE_INVESTOR_SHARE_PCT", c.GraceInvestorSharePct, &out.GraceInvestorSharePct},
		{"SALARY_REPAYMENT_PCT", c.SalaryRepaymentPct, &out.SalaryRepaymentPct},
	} {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return dashboard.Config{}, fmt.Errorf("invalid %s %q: %w", f.env, f.raw, err)
		}
		*f.dst = d
	}
	if err := out.Validate(); err != nil {
		return dashboard.Config{}, err
	}
	return out, nil
}
