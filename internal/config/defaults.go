package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultInstanceID      = "taskfoo-actions"
	DefaultPort            = 5055
	DefaultMaxBodyBytes    = 1 << 20
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultPingInterval    = 30 * time.Second
	DefaultMatch           = MatchFirst
	DefaultNavigateText    = "Opening {route}…"
	DefaultClarifyText     = "Tell me which page to open (e.g. “Open Board”, “Go to Dashboard”)."
	DefaultAuditBatchSize  = 100
	DefaultAuditFlush      = 2 * time.Second
	DefaultAuditQueueSize  = 10000
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 4
	DefaultMinConns        = 1
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// Match strategies for the route table.
const (
	MatchFirst   = "first"
	MatchLongest = "longest"
)

// ApplyDefaults fills zero-valued optional fields.
func (c *ServerConfig) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Server.PingInterval == 0 {
		c.Server.PingInterval = DefaultPingInterval
	}

	if c.Navigation.Match == "" {
		c.Navigation.Match = DefaultMatch
	}
	if c.Navigation.Messages.Navigate == "" {
		c.Navigation.Messages.Navigate = DefaultNavigateText
	}
	if c.Navigation.Messages.Clarify == "" {
		c.Navigation.Messages.Clarify = DefaultClarifyText
	}

	if c.Audit.BatchSize == 0 {
		c.Audit.BatchSize = DefaultAuditBatchSize
	}
	if c.Audit.FlushInterval == 0 {
		c.Audit.FlushInterval = DefaultAuditFlush
	}
	if c.Audit.QueueSize == 0 {
		c.Audit.QueueSize = DefaultAuditQueueSize
	}

	applyDBDefaults(&c.Database)

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
