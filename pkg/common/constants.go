package common

const (
	// RedisSessionKeyPrefix prefixes session token keys in Redis.
	RedisSessionKeyPrefix = "session:"
)
