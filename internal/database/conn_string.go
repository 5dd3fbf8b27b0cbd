package database

import (
	"fmt"
	"net/url"

	"github.com/taskfoo/taskfoo-bot/internal/config"
)

// BuildConnString builds a PostgreSQL connection string from config.
func BuildConnString(cfg config.DBConfig) string {
	userInfo := url.UserPassword(cfg.User, cfg.Password)
	if cfg.Password == "" {
		userInfo = url.User(cfg.User)
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = config.DefaultDBSSLMode
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}
