package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/delivery-issue-api/internal/domain"
)

type ticketTypesFile struct {
	Types []domain.TicketType `yaml:"types"`
}

// LoadRegistry builds the ticket type registry, reading path when set and
// falling back to the built-in types otherwise.
func LoadRegistry(path string) (*domain.Registry, error) {
	if path == "" {
		return domain.NewRegistry(domain.DefaultTicketTypes)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ticket types: %w", err)
	}
	var file ticketTypesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse ticket types %s: %w", path, err)
	}
	reg, err := domain.NewRegistry(file.Types)
	if err != nil {
		return nil, fmt.Errorf("ticket types %s: %w", path, err)
	}
	return reg, nil
}
