// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to CollabHub lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: collabhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Realtime notification configuration
	NotifyBufferSize int // Per-subscriber event channel buffer

	// Retention window for read notifications; the cleanup job deletes
	// read records older than this.
	NotificationRetention time.Duration

	// Bootstrap admin account, created (or promoted) on startup when
	// the email is set. Lets a fresh deployment sign in.
	AdminEmail    string
	AdminName     string
	AdminPassword string
}
