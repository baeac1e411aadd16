package config

import (
	"fmt"
	"net/url"
	"strings"
)

var knownLogLevels = map[string]struct{}{
	"trace": {}, "debug": {}, "info": {}, "warn": {}, "error": {},
}

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateLoggerConfig(&cfg.Logger); err != nil {
		return fmt.Errorf("YAML global config: logger directive is invalid: %w", err)
	}
	if err := ValidateChecksConfig(&cfg.Checks); err != nil {
		return fmt.Errorf("YAML global config: checks directive is invalid: %w", err)
	}
	if err := ValidateReportConfig(&cfg.Report); err != nil {
		return fmt.Errorf("YAML global config: report directive is invalid: %w", err)
	}
	return nil
}

// ValidateLoggerConfig checks the logger level.
func ValidateLoggerConfig(loggerConfig *Logger) error {
	if loggerConfig == nil {
		return fmt.Errorf("logger configuration is nil")
	}
	if loggerConfig.Level == "" {
		return nil
	}
	if _, ok := knownLogLevels[strings.ToLower(loggerConfig.Level)]; !ok {
		return fmt.Errorf("unknown log level %q", loggerConfig.Level)
	}
	return nil
}

// ValidateChecksConfig checks the allow-list of public ports.
func ValidateChecksConfig(checksConfig *Checks) error {
	if checksConfig == nil {
		return fmt.Errorf("checks configuration is nil")
	}
	for _, port := range checksConfig.AllowedPublicPorts {
		if err := validatePort(port); err != nil {
			return fmt.Errorf("allowed_public_ports: %w", err)
		}
	}
	for _, name := range checksConfig.Disabled {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("disabled: check name must not be empty")
		}
	}
	return nil
}

// ValidateReportConfig checks the report settings.
func ValidateReportConfig(reportConfig *Report) error {
	if reportConfig == nil {
		return fmt.Errorf("report configuration is nil")
	}
	if reportConfig.SnippetMaxLines < 1 || reportConfig.SnippetMaxLines > 1000 {
		return fmt.Errorf("snippet_max_lines must be between 1 and 1000, got %d", reportConfig.SnippetMaxLines)
	}
	for name, raw := range map[string]string{"cta_url": reportConfig.CTAURL, "contact_url": reportConfig.ContactURL} {
		if raw == "" {
			continue
		}
		if _, err := url.Parse(raw); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}

// validatePort checks if the port is in the valid TCP range.
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}
