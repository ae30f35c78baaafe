package lock

import "time"

// Config holds deployment lock configuration.
type Config struct {
	KeyPrefix     string
	TTL           time.Duration
	RetryInterval time.Duration
	WaitTimeout   time.Duration
}

// Key returns the lock key of a REST API stage.
func (c Config) Key(restAPIID, stage string) string {
	return c.KeyPrefix + ":" + restAPIID + ":" + stage
}
