// Package dsn builds the Data Source Names of the supported gorm engines.
package dsn

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/restopos/restopos/internal/config"
)

// Create builds the Data Source Name for the configured engine.
func Create(db config.DB) (string, error) {
	switch db.GormEngine {
	case config.EngineMySQL:
		return MySQL(db), nil
	case config.EnginePostgres:
		return Postgres(db), nil
	case config.EngineSQLite:
		return SQLite(db), nil
	default:
		return "", config.ErrUnsupportedGormEngine
	}
}

// MySQL returns user:password@tcp(host:port)/name?extras.
func MySQL(db config.DB) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
	)

	if db.Extras != "" {
		out += "?" + db.Extras
	}

	return out
}

// Postgres returns a postgres:// URL. Extras are appended as query parameters.
func Postgres(db config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:     "/" + db.Name,
		RawQuery: db.Extras,
	}

	return u.String()
}

// SQLite returns the database file with foreign keys enabled.
func SQLite(db config.DB) string {
	params := "_pragma=foreign_keys(1)"
	if db.Extras != "" {
		params += "&" + db.Extras
	}

	sep := "?"
	if strings.Contains(db.Name, "?") {
		sep = "&"
	}

	return db.Name + sep + params
}
