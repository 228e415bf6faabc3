package redis

// Key prefix for all bank data
const keyPrefix = "tagbank"

// The whole player list and the settings are each stored as a single
// opaque JSON blob under a fixed key. No per-player keys, no indexes:
// the dataset is a handful of players at one table.

// playersKey returns the Redis key for the player list blob
func playersKey() string {
	return keyPrefix + ":players"
}

// settingsKey returns the Redis key for the settings blob
func settingsKey() string {
	return keyPrefix + ":settings"
}
