package config

import (
	"reflect"
	"strings"
)

// GetBoolValue reads an optional bool from a nested struct by dot-separated field path,
// for example "Logger.IncludeTime". Unset pointers resolve to defaultValue.
func GetBoolValue(config interface{}, fieldPath string, defaultValue bool) bool {
	if config == nil {
		return defaultValue
	}

	val := reflect.ValueOf(config)
	for _, field := range strings.Split(fieldPath, ".") {
		if val.Kind() == reflect.Ptr {
			if val.IsNil() {
				return defaultValue
			}
			val = val.Elem()
		}
		if val.Kind() != reflect.Struct {
			return defaultValue
		}
		val = val.FieldByName(field)
		if !val.IsValid() {
			return defaultValue
		}
	}

	switch {
	case val.Kind() == reflect.Ptr && !val.IsNil():
		return val.Elem().Bool()
	case val.Kind() == reflect.Bool:
		return val.Bool()
	}
	return defaultValue
}

// SetThen returns value unless it is the zero value, in which case defaultValue is returned.
func SetThen[T any](value T, defaultValue T) T {
	if reflect.ValueOf(&value).Elem().IsZero() {
		return defaultValue
	}
	return value
}

// ResolveConfigPath returns the explicit path if given, otherwise DefaultConfigFile
// when it is a file in the working directory, otherwise "".
func ResolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if err := ValidateConfigPath(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}
