package config

import "os"

// Get returns the environment value for key, or fallback when unset or
// empty. Callers load .env files before the first lookup.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
