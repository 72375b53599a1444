package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/HardDie/vitepages/internal/logger"
)

func getEnvDefault(key, def string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return def
	}
	return value
}

func getEnvAsBool(key string, def bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return def
	}
	v, err := strconv.ParseBool(value)
	if err != nil {
		logger.Warn(fmt.Sprintf("env %q value invalid bool, using default", key), "value", value)
		return def
	}
	return v
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return def
	}
	v, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn(fmt.Sprintf("env %q value invalid duration, using default", key), "value", value)
		return def
	}
	return v
}
