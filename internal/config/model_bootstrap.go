package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"chatlist-server/internal/infrastructure/logger"
)

// ModelBootstrapEntry describes a model target that should exist after startup.
type ModelBootstrapEntry struct {
	DisplayName   string  `yaml:"display_name"`
	RemoteName    string  `yaml:"remote_name"`
	Provider      string  `yaml:"provider"`
	EndpointURL   string  `yaml:"endpoint_url"`
	CredentialRef string  `yaml:"credential_ref"`
	Active        *bool   `yaml:"active"`
	Temperature   float64 `yaml:"temperature"`
	MaxTokens     int     `yaml:"max_tokens"`
}

// ModelBootstrapConfig holds the models declared in the optional yaml file.
type ModelBootstrapConfig struct {
	Models []ModelBootstrapEntry `yaml:"models"`
}

// LoadModelBootstrapConfig parses the yaml file at the provided path.
func LoadModelBootstrapConfig(path string) (*ModelBootstrapConfig, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("model config path is empty")
	}

	log := logger.GetLogger()
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read model config %q: %w", cleanPath, err)
	}
	log.Info().Str("path", cleanPath).Msg("loading model config file")

	var doc ModelBootstrapConfig
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse model config %q: %w", cleanPath, err)
	}

	if len(doc.Models) == 0 {
		return nil, fmt.Errorf("model config %q has no models defined", cleanPath)
	}

	for i, entry := range doc.Models {
		if strings.TrimSpace(entry.DisplayName) == "" {
			return nil, fmt.Errorf("model config %q: entry %d is missing display_name", cleanPath, i)
		}
		if strings.TrimSpace(entry.EndpointURL) == "" {
			return nil, fmt.Errorf("model config %q: entry %q is missing endpoint_url", cleanPath, entry.DisplayName)
		}
	}

	return &doc, nil
}
