package config

import (
	"log"
	"os"
	"strconv"
)

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func MustNonEmpty(value, envName string) string {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
	return value
}
