package config

import "time"

// ServerConfig is the root configuration for an action server instance.
type ServerConfig struct {
	Instance   InstanceConfig   `yaml:"instance"`
	Server     HTTPConfig       `yaml:"server"`
	Navigation NavigationConfig `yaml:"navigation"`
	Audit      AuditConfig      `yaml:"audit"`
	Database   DBConfig         `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
}

// InstanceConfig identifies this action server.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// HTTPConfig holds listener settings for the action server.
type HTTPConfig struct {
	Port            int           `yaml:"port"`
	AuthToken       string        `yaml:"auth_token"` // Empty disables bearer auth
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	PingInterval    time.Duration `yaml:"ping_interval"` // WebSocket keepalive
}

// NavigationConfig holds the route table and reply texts.
type NavigationConfig struct {
	Match    string         `yaml:"match"` // "first" or "longest"
	Routes   []RouteEntry   `yaml:"routes"`
	Messages MessagesConfig `yaml:"messages"`
}

// RouteEntry maps a lowercase phrase to a frontend path.
type RouteEntry struct {
	Phrase string `yaml:"phrase"`
	Route  string `yaml:"route"`
}

// MessagesConfig holds the texts uttered back to the user.
type MessagesConfig struct {
	Navigate string `yaml:"navigate"` // {route} is replaced with the resolved path
	Clarify  string `yaml:"clarify"`
}

// AuditConfig holds navigation audit writer settings.
type AuditConfig struct {
	Enabled       bool          `yaml:"enabled"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	QueueSize     int           `yaml:"queue_size"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// LogConfig selects log level and handler format.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}
