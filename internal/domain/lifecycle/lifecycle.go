// Package lifecycle holds shared constants for application startup and shutdown.
package lifecycle

import "time"

// DefaultTimeout bounds startup pings and graceful-shutdown waits.
const DefaultTimeout = 10 * time.Second
