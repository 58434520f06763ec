package constants

import "time"

const (
	CHANNEL_SIZE  = 100              // buffered channel size for broker and connections
	FILE_MAX_SIZE = 10 * 1024 * 1024 // max chat attachment size (bytes)

	REDIS_TIMEOUT = 1 // redis operation context timeout (seconds)

	// Presence keys expire so a crashed gateway cannot leave users online forever.
	PRESENCE_TTL = 5 * time.Minute

	// Room join retry policy used by the client channel manager.
	JOIN_RETRY_ATTEMPTS = 10
	JOIN_RETRY_INTERVAL = 500 * time.Millisecond

	REFRESH_TOKEN_EXPIRY_HOURS = 168 // 7 days
)
