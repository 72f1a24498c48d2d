package envutil

import (
	"log"
	"os"
	"strconv"
)

// GetenvDefault gets the value of an environment variable, or returns the
// specified default value if that variable is not set.
func GetenvDefault(name, defaultValue string) string {
	val, found := os.LookupEnv(name)
	if !found {
		return defaultValue
	}
	return val
}

// GetenvDefaultBool reads a boolean environment variable ("1", "true", ...),
// or returns the default if the variable is unset.
func GetenvDefaultBool(name string, defaultVal bool) bool {
	val, found := os.LookupEnv(name)
	if !found {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		log.Fatalf("environment variable %s should be a boolean: %v", name, err)
	}
	return b
}
