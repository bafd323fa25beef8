package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/battleroid/dwms/internal/domain"
	"github.com/battleroid/dwms/internal/domain/patterns"
)

// DefaultPath is the config file read when none is given on the command line.
const DefaultPath = "config.yaml"

const envFileName = ".env"

// YAMLLoader implements domain.ConfigLoader by reading a YAML config file.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads the config at path, expands environment references, validates
// it and returns it with defaults applied. Every failure is a ConfigError.
func (l *YAMLLoader) Load(path string) (domain.Config, error) {
	if err := loadDotEnv(filepath.Dir(path)); err != nil {
		return domain.Config{}, &domain.ConfigError{Field: envFileName, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Config{}, &domain.ConfigError{Err: fmt.Errorf("reading %s: %w", path, err)}
	}
	data = []byte(os.ExpandEnv(string(data)))

	var cfg domain.Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Config{}, &domain.ConfigError{Err: fmt.Errorf("%s is empty", path)}
		}
		return domain.Config{}, &domain.ConfigError{Err: fmt.Errorf("parsing %s: %w", path, err)}
	}

	// Validate before merging, so errors point at what the user wrote.
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	if err := validatePatterns(cfg); err != nil {
		return domain.Config{}, err
	}

	return cfg.WithDefaults(), nil
}

// loadDotEnv loads dir/.env when present. Variables already set in the
// process environment are left untouched.
func loadDotEnv(dir string) error {
	p := filepath.Join(dir, envFileName)
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(p)
}

func validatePatterns(cfg domain.Config) error {
	for i, cl := range cfg.Clusters {
		for name, repo := range cl.Repositories {
			for _, tmpl := range repo.Patterns {
				if err := patterns.Validate(tmpl); err != nil {
					return &domain.ConfigError{
						Field: fmt.Sprintf("clusters[%d].repositories.%s.patterns", i, name),
						Err:   errors.Unwrap(err),
					}
				}
			}
		}
	}
	return nil
}
