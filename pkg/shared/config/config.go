package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// DefaultConfigFile is picked up from the working directory when no --config flag is given.
const DefaultConfigFile = "teardown.yml"

type Config struct {
	Logger Logger `yaml:"logger"`
	Checks Checks `yaml:"checks"`
	Report Report `yaml:"report"`
}

type Logger struct {
	Level           string `yaml:"level"`
	JSONFormat      bool   `yaml:"json_format"`
	IncludeTime     *bool  `yaml:"include_time"`
	IncludeLocation *bool  `yaml:"include_location"`
}

// Checks holds the per-check settings handed to the check registry.
type Checks struct {
	AllowedPublicPorts []int    `yaml:"allowed_public_ports"`
	Disabled           []string `yaml:"disabled"`
}

// Report holds the defaults used when assembling and writing reports.
type Report struct {
	Title           string `yaml:"title"`
	CTALabel        string `yaml:"cta_label"`
	CTAURL          string `yaml:"cta_url"`
	ContactLine     string `yaml:"contact_line"`
	ContactURL      string `yaml:"contact_url"`
	SnippetMaxLines int    `yaml:"snippet_max_lines"`
	DisplayPrefix   string `yaml:"display_prefix"`
}

// Defaults returns the configuration used when no file is supplied.
func Defaults() *Config {
	return &Config{
		Logger: Logger{
			Level: "info",
		},
		Checks: Checks{
			AllowedPublicPorts: []int{22, 80, 443},
		},
		Report: Report{
			Title:           "Teardown Report (Sample)",
			CTALabel:        "Book 15 minutes",
			CTAURL:          "#",
			ContactLine:     "Replace this with your email / Calendly link",
			ContactURL:      "#",
			SnippetMaxLines: 40,
			DisplayPrefix:   "fixtures/",
		},
	}
}

func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	// an empty file keeps the defaults
	if err := d.Decode(data); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode %q: %w", configPath, err)
	}

	return nil
}

// LoadConfig reads configPath on top of Defaults. An empty path returns the defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := Defaults()
	if configPath == "" {
		return cfg, nil
	}

	if err := LoadYAML(configPath, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
