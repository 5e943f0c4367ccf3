package config

import "path/filepath"

type StorageConfig interface {
	GetRedisAddr() string
	GetCookieDBPath() string
}

type Storage struct{}

var _ StorageConfig = Storage{}

// GetRedisAddr returns the Redis address for refresh tokens.
// Empty means the in-memory repository is used.
func (Storage) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "")
}

func (Storage) GetCookieDBPath() string {
	return GetEnv("COOKIE_DB", filepath.Join(EnvVars{}.GetDataFolder(), "cookies.db"))
}
