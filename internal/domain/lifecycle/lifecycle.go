// Package lifecycle holds shared timeouts for component start/stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds component startup and graceful shutdown.
const DefaultTimeout = 10 * time.Second
