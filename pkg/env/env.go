package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// The getters fall back to defaultValue when key is unset or cannot be parsed,
// and say so on stdout since they run before the logger exists.

func GetEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	fmt.Printf("Environment variable %s not found, using default value: %s\n", key, defaultValue)
	return defaultValue
}

func GetEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		fmt.Printf("Environment variable %s not found, using default value: %t\n", key, defaultValue)
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		fmt.Printf("Environment variable %s is not a boolean, using default value: %t\n", key, defaultValue)
		return defaultValue
	}
	return parsed
}

func GetEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		fmt.Printf("Environment variable %s not found, using default value: %d\n", key, defaultValue)
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		fmt.Printf("Environment variable %s is not an integer, using default value: %d\n", key, defaultValue)
		return defaultValue
	}
	return parsed
}

func GetEnvInt64(key string, defaultValue int64) int64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		fmt.Printf("Environment variable %s not found, using default value: %d\n", key, defaultValue)
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		fmt.Printf("Environment variable %s is not an integer, using default value: %d\n", key, defaultValue)
		return defaultValue
	}
	return parsed
}

func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		fmt.Printf("Environment variable %s not found, using default value: %v\n", key, defaultValue)
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		fmt.Printf("Environment variable %s is not a duration, using default value: %v\n", key, defaultValue)
		return defaultValue
	}
	return parsed
}

// GetEnvStringSlice splits a comma separated value, dropping blank items.
func GetEnvStringSlice(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		fmt.Printf("Environment variable %s not found, using default value: %v\n", key, defaultValue)
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
