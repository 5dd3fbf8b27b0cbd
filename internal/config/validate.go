package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *ServerConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MaxBodyBytes < 1 {
		return errors.New("server.max_body_bytes must be >= 1")
	}

	if err := c.Navigation.validate("navigation"); err != nil {
		return err
	}

	if c.Audit.Enabled {
		if c.Audit.BatchSize < 1 {
			return errors.New("audit.batch_size must be >= 1")
		}
		if c.Audit.QueueSize < 1 {
			return errors.New("audit.queue_size must be >= 1")
		}
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

func (n *NavigationConfig) validate(prefix string) error {
	if n.Match != MatchFirst && n.Match != MatchLongest {
		return fmt.Errorf("%s.match must be %q or %q, got %q", prefix, MatchFirst, MatchLongest, n.Match)
	}

	seen := make(map[string]int, len(n.Routes))
	for i, r := range n.Routes {
		if r.Phrase == "" {
			return fmt.Errorf("%s.routes[%d].phrase is required", prefix, i)
		}
		if !strings.HasPrefix(r.Route, "/") {
			return fmt.Errorf("%s.routes[%d].route must start with /, got %q", prefix, i, r.Route)
		}
		if j, dup := seen[r.Phrase]; dup {
			return fmt.Errorf("%s.routes[%d].phrase %q duplicates routes[%d]", prefix, i, r.Phrase, j)
		}
		seen[r.Phrase] = i
	}

	if !strings.Contains(n.Messages.Navigate, "{route}") {
		return fmt.Errorf("%s.messages.navigate must contain {route}", prefix)
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
