package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

type envTypes interface {
	string | int | bool
}

func parseEnv[T envTypes](envVar, value string) T {
	var out T
	switch ptr := any(&out).(type) {
	case *string:
		*ptr = value
	case *int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			panic(fmt.Sprintf("environment variable %s: '%s' is not an integer", envVar, value))
		}
		*ptr = intValue
	case *bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			panic(fmt.Sprintf("environment variable %s: '%s' is not a boolean", envVar, value))
		}
		*ptr = boolValue
	}
	return out
}

func GetEnv[T envTypes](envVar string, defaultValue T) T {
	value, ok := os.LookupEnv(envVar)
	if !ok || value == "" {
		return defaultValue
	}
	return parseEnv[T](envVar, value)
}

func GetRequiredEnv[T envTypes](envVar string) T {
	value, ok := os.LookupEnv(envVar)
	if !ok || value == "" {
		log.Fatalf("%s environment variable is required", envVar)
	}
	return parseEnv[T](envVar, value)
}
