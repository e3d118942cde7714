package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/invoicebook/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var ErrUnsupportedDialect = errors.New("unsupported database type")

var pgQuote = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Dialect picks the gorm dialector for cfg.DBType. "postgresql" and "pg"
// are accepted for postgres, "sqlite3" for sqlite.
func Dialect(cfg config.Config) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.DBType)) {
	case "postgres", "postgresql", "pg":
		return postgres.Open(postgresDSN(cfg)), nil
	case "mysql":
		return mysql.Open(mysqlDSN(cfg)), nil
	case "sqlite", "sqlite3":
		if strings.TrimSpace(cfg.DBPath) == "" {
			return nil, errors.New("sqlite requires DATABASE_PATH")
		}
		return sqlite.Open(cfg.DBPath), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedDialect, cfg.DBType)
	}
}

// postgresDSN builds a key=value DSN. Values are quoted so passwords with
// spaces survive.
func postgresDSN(cfg config.Config) string {
	sslMode := cfg.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	pairs := []struct{ k, v string }{
		{"host", cfg.DBHost},
		{"port", cfg.DBPort},
		{"user", cfg.DBUser},
		{"password", cfg.DBPassword},
		{"dbname", cfg.DBName},
		{"sslmode", sslMode},
		{"TimeZone", "UTC"},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.v == "" {
			continue
		}
		parts = append(parts, p.k+"='"+pgQuote.Replace(p.v)+"'")
	}
	return strings.Join(parts, " ")
}

func mysqlDSN(cfg config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
}
