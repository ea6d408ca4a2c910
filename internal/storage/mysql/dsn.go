package mysql

import (
	"fmt"
	"time"

	driver "github.com/go-sql-driver/mysql"
)

// NormalizeDSN forces parseTime and a UTC location onto dsn.
// created_at is scanned into time.Time, which fails on a plain DSN.
func NormalizeDSN(dsn string) (string, error) {
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}
